package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"bogus", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelWarn, &buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug message should be filtered")
	}
	if strings.Contains(out, "info message") {
		t.Error("info message should be filtered")
	}
	if !strings.Contains(out, "warn message") {
		t.Error("warn message missing")
	}
	if !strings.Contains(out, "error message") {
		t.Error("error message missing")
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelInfo, &buf)

	logger.Info("added %d nodes", 3)

	out := buf.String()
	if !strings.Contains(out, "[INFO] graphcmd: added 3 nodes") {
		t.Errorf("unexpected log line: %q", out)
	}
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelInfo, &buf).WithComponent("engine")

	logger.Info("ready")

	if !strings.Contains(buf.String(), "{component=engine}") {
		t.Errorf("component field missing: %q", buf.String())
	}
}

func TestLoggerFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelInfo, &buf).
		WithField("b", 2).
		WithField("a", 1)

	logger.Info("x")

	if !strings.Contains(buf.String(), "{a=1, b=2}") {
		t.Errorf("fields not sorted: %q", buf.String())
	}
}

func TestLoggerWithFieldCopies(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(LogLevelInfo, &buf)
	derived := base.WithField("component", "shell")

	base.Info("plain")

	if strings.Contains(buf.String(), "component=shell") {
		t.Errorf("base logger picked up derived field: %q", buf.String())
	}

	buf.Reset()
	derived.Info("tagged")
	if !strings.Contains(buf.String(), "component=shell") {
		t.Errorf("derived logger lost field: %q", buf.String())
	}
}

func TestNullLogger(t *testing.T) {
	// Must not panic despite having no output writer.
	NullLogger.Debug("a")
	NullLogger.Info("b")
	NullLogger.Warn("c")
	NullLogger.Error("d")
}
