package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetWriterForAll(&buf)
	t.Cleanup(func() {
		SetWriterForAll(os.Stdout)
		SetVerbose(false)
	})
	return &buf
}

func TestLevels(t *testing.T) {
	t.Run("debug hidden unless verbose", func(t *testing.T) {
		buf := withBuffer(t)
		SetVerbose(false)
		Debug("hidden %d", 1)
		assert.Empty(t, buf.String())

		SetVerbose(true)
		Debug("shown %d", 2)
		assert.Contains(t, buf.String(), "DEBUG shown 2")
	})

	t.Run("non-terminal writers get plain text", func(t *testing.T) {
		buf := withBuffer(t)
		Warn("careful with %s", "src")
		out := buf.String()
		assert.Contains(t, out, "WARN  careful with src")
		assert.NotContains(t, out, "\033[")
	})
}

func TestAddWriter(t *testing.T) {
	buf := withBuffer(t)
	var extra bytes.Buffer
	AddWriterForAll(&extra)

	Info("fixed %d files", 3)
	assert.Contains(t, buf.String(), "INFO  fixed 3 files")
	assert.Contains(t, extra.String(), "INFO  fixed 3 files")
	assert.NotContains(t, extra.String(), "\033[")
}

func TestSetErrorWriter(t *testing.T) {
	withBuffer(t)
	SetErrorWriter()

	globalLogger.mu.RLock()
	defer globalLogger.mu.RUnlock()
	assert.Equal(t, os.Stderr, globalLogger.sinks[ERROR].w)
	assert.NotEqual(t, os.Stderr, globalLogger.sinks[WARN].w)
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "INFO", INFO.String())
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "UNKNOWN", LogLevel(-1).String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
