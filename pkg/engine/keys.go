package engine

import (
	"fmt"
	"strings"
)

// Key is a keyboard key. Values match the GLFW key codes so window
// backends can convert directly.
type Key int

// Keys the sandbox knows by name
const (
	KeyUnknown Key = -1
	KeySpace   Key = 32
	Key0       Key = 48
	Key9       Key = 57
	KeyA       Key = 65
	KeyW       Key = 87
	KeyZ       Key = 90
	KeyEscape  Key = 256
	KeyEnter   Key = 257
	KeyTab     Key = 258
	KeyF1      Key = 290
	KeyF12     Key = 301
)

// Action is what happened to a key.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

func (a Action) String() string {
	switch a {
	case Release:
		return "release"
	case Press:
		return "press"
	case Repeat:
		return "repeat"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

var namedKeys = map[string]Key{
	"SPACE":  KeySpace,
	"ESCAPE": KeyEscape,
	"ESC":    KeyEscape,
	"ENTER":  KeyEnter,
	"TAB":    KeyTab,
}

// ParseKey resolves a key name: a single letter or digit, F1 to F12, or
// one of SPACE, ESCAPE, ENTER and TAB. Names are case insensitive.
func ParseKey(name string) (Key, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))

	if len(upper) == 1 {
		c := Key(upper[0])
		if c >= KeyA && c <= KeyZ || c >= Key0 && c <= Key9 {
			return c, nil
		}
	}
	if k, ok := namedKeys[upper]; ok {
		return k, nil
	}
	var n int
	if _, err := fmt.Sscanf(upper, "F%d", &n); err == nil && n >= 1 && n <= 12 && upper == fmt.Sprintf("F%d", n) {
		return KeyF1 + Key(n-1), nil
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ, k >= Key0 && k <= Key9:
		return string(rune(k))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	for name, key := range namedKeys {
		if key == k && name != "ESC" {
			return name
		}
	}
	return fmt.Sprintf("Key(%d)", int(k))
}
