package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" Warning "))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
	assert.Equal(t, "warn", WARN.String())
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Debug("hidden")
	log.Infof("hidden %d", 1)
	log.Warnf("shown %d", 2)
	log.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN ] logger_test.go:")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "[ERROR]")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug").Named("render").Named("setup")

	log.Info("ready")
	assert.Contains(t, buf.String(), "(render.setup) ready")
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")
	code := -1
	log.exit = func(c int) { code = c }

	log.Fatalf("boom: %s", "window")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "[FATAL]")
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sandbox.log")
	log, err := NewFileLogger("info", path)
	require.NoError(t, err)

	log.Info("to file")
	log.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.NotContains(t, string(data), "\033[")
}
