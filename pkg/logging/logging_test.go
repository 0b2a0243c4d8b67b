package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  LogLevel
	}{
		{"debug", "debug", LevelDebug},
		{"info", "info", LevelInfo},
		{"warn", "warn", LevelWarn},
		{"warning alias", "warning", LevelWarn},
		{"error", "error", LevelError},
		{"case insensitive", "DEBUG", LevelDebug},
		{"whitespace", "  info  ", LevelInfo},
		{"unknown defaults to info", "verbose", LevelInfo},
		{"empty defaults to info", "", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
}

func TestInitializeAndOutput(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelDebug, &buf)

	Debug("Test", "debug message %d", 1)
	Info("Test", "info message")

	out := buf.String()
	assert.Contains(t, out, "debug message 1")
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "subsystem=Test")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelWarn, &buf)

	Debug("Test", "should be suppressed")
	Info("Test", "also suppressed")
	Warn("Test", "warning visible")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "warning visible")
}

func TestErrorAttribute(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelDebug, &buf)

	Error("Test", errors.New("boom"), "operation failed")

	out := buf.String()
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "boom")
}
