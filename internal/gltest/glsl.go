package gltest

import (
	"fmt"
	"regexp"
	"strings"
)

// A deliberately small GLSL front end: enough to tell well-formed stages from
// broken ones and to check that fragment inputs are fed by vertex outputs.

var (
	mainPattern = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
	declPattern = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(in|out)\s+(\w+)\s+(\w+)\s*;`)
)

// compileGLSL returns an info log, empty when the source compiles.
func compileGLSL(source string) string {
	trimmed := strings.TrimSpace(source)
	if !strings.HasPrefix(trimmed, "#version") {
		return "0:1(1): error: #version directive must come first"
	}
	if !mainPattern.MatchString(source) {
		return "0:1(1): error: no function with name 'main'"
	}

	depth := map[rune]int{}
	pairs := map[rune]rune{')': '(', '}': '{'}
	for i, r := range source {
		switch r {
		case '(', '{':
			depth[r]++
		case ')', '}':
			depth[pairs[r]]--
			if depth[pairs[r]] < 0 {
				return fmt.Sprintf("0:%d(1): error: syntax error, unexpected '%c'", lineOf(source, i), r)
			}
		}
	}
	if depth['('] != 0 || depth['{'] != 0 {
		return fmt.Sprintf("0:%d(1): error: syntax error, unexpected end of file", lineOf(source, len(source)))
	}
	return ""
}

// linkGLSL returns an info log, empty when every fragment input has a
// matching vertex output.
func linkGLSL(vertex, fragment string) string {
	outputs := map[string]string{}
	for _, m := range declPattern.FindAllStringSubmatch(vertex, -1) {
		if m[1] == "out" {
			outputs[m[3]] = m[2]
		}
	}

	var problems []string
	for _, m := range declPattern.FindAllStringSubmatch(fragment, -1) {
		if m[1] != "in" {
			continue
		}
		typ, ok := outputs[m[3]]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("error: fragment shader input `%s' has no matching output in the previous stage", m[3]))
		case typ != m[2]:
			problems = append(problems, fmt.Sprintf("error: `%s' declared as type `%s' but output from previous stage is type `%s'", m[3], m[2], typ))
		}
	}
	return strings.Join(problems, "\n")
}

func lineOf(source string, offset int) int {
	return strings.Count(source[:offset], "\n") + 1
}
