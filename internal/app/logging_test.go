package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.level.String()
		if result != tt.expected {
			t.Errorf("LogLevel(%d).String() = '%s', expected '%s'", tt.level, result, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"INFO", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"WARN", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"WARNING", LogLevelWarn},
		{"error", LogLevelError},
		{"ERROR", LogLevelError},
		{"Warn", LogLevelWarn},
		{"unknown", LogLevelInfo}, // Default
		{"", LogLevelInfo},        // Default
	}

	for _, tt := range tests {
		result := ParseLogLevel(tt.input)
		if result != tt.expected {
			t.Errorf("ParseLogLevel('%s') = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

func TestNewLogger(t *testing.T) {
	cfg := LoggerConfig{
		Level:  LogLevelDebug,
		Prefix: "test",
	}

	logger := NewLogger(cfg)
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
}

func TestNewLogger_DefaultOutput(t *testing.T) {
	cfg := LoggerConfig{
		Output: nil, // Should default to stderr
	}

	logger := NewLogger(cfg)
	if logger.sink.output == nil {
		t.Error("expected default output to be set")
	}
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelDebug,
		Output: &buf,
		Prefix: "test",
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	if !strings.Contains(output, "[DEBUG]") {
		t.Error("expected DEBUG in output")
	}
	if !strings.Contains(output, "[INFO]") {
		t.Error("expected INFO in output")
	}
	if !strings.Contains(output, "[WARN]") {
		t.Error("expected WARN in output")
	}
	if !strings.Contains(output, "[ERROR]") {
		t.Error("expected ERROR in output")
	}
	if !strings.Contains(output, "test:") {
		t.Error("expected prefix in output")
	}
}

func TestLogger_LogLevel_Filtering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelWarn,
		Output: &buf,
	})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	output := buf.String()
	if strings.Contains(output, "[DEBUG]") {
		t.Error("expected DEBUG to be filtered out")
	}
	if strings.Contains(output, "[INFO]") {
		t.Error("expected INFO to be filtered out")
	}
	if !strings.Contains(output, "[WARN]") {
		t.Error("expected WARN in output")
	}
	if !strings.Contains(output, "[ERROR]") {
		t.Error("expected ERROR in output")
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Output: &buf,
	})

	logger.Info("formatted %s %d", "test", 42)

	output := buf.String()
	if !strings.Contains(output, "formatted test 42") {
		t.Errorf("expected formatted message, got: %s", output)
	}
}

func TestLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Output: &buf,
	})

	logger2 := logger.WithField("key", "value")
	logger2.Info("test")

	output := buf.String()
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected field in output, got: %s", output)
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Output: &buf,
	})

	logger2 := logger.WithFields(map[string]any{
		"key1": "value1",
		"key2": 42,
	})
	logger2.Info("test")

	output := buf.String()
	if !strings.Contains(output, "key1=value1") {
		t.Errorf("expected key1 in output, got: %s", output)
	}
	if !strings.Contains(output, "key2=42") {
		t.Errorf("expected key2 in output, got: %s", output)
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Output: &buf,
	})

	logger2 := logger.WithComponent("ingress")
	logger2.Info("test")

	output := buf.String()
	if !strings.Contains(output, "component=ingress") {
		t.Errorf("expected component in output, got: %s", output)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelError,
		Output: &buf,
	})

	logger.Info("should not appear")
	if buf.Len() != 0 {
		t.Error("expected no output at error level")
	}

	logger.SetLevel(LogLevelInfo)
	logger.Info("should appear")
	if buf.Len() == 0 {
		t.Error("expected output after SetLevel")
	}
}

func TestLogger_SetOutput(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Output: &buf1,
	})

	logger.Info("to buf1")
	if buf1.Len() == 0 {
		t.Error("expected output to buf1")
	}

	logger.SetOutput(&buf2)
	logger.Info("to buf2")
	if buf2.Len() == 0 {
		t.Error("expected output to buf2")
	}
}

func TestLogger_DisableEnable(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelInfo,
		Output: &buf,
	})

	logger.Disable()
	logger.Info("should not appear")
	if buf.Len() != 0 {
		t.Error("expected no output when disabled")
	}

	logger.Enable()
	logger.Info("should appear")
	if buf.Len() == 0 {
		t.Error("expected output when enabled")
	}
}

func TestNullLogger(t *testing.T) {
	// NullLogger should not panic
	NullLogger.Debug("test")
	NullLogger.Info("test")
	NullLogger.Warn("test")
	NullLogger.Error("test")
}

func TestLogger_DerivedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})
	child := root.WithComponent("dispatcher")

	child.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatal("expected debug to be filtered")
	}

	root.SetLevel(LogLevelDebug)
	child.Debug("shown")
	if !strings.Contains(buf.String(), "shown {component=dispatcher}") {
		t.Errorf("expected child to follow root level, got: %s", buf.String())
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Output: &buf}).WithFields(map[string]any{
		"b": 2,
		"a": 1,
		"c": 3,
	})
	logger.Info("x")

	if !strings.Contains(buf.String(), "{a=1, b=2, c=3}") {
		t.Errorf("fields not sorted: %s", buf.String())
	}
}

func TestOpenLogOutput(t *testing.T) {
	dir := t.TempDir()

	w, c, err := openLogOutput("", true)
	if err != nil || w != os.Stderr || c != nil {
		t.Errorf("headless default = %v, %v, %v; want stderr", w, c, err)
	}

	w, c, err = openLogOutput("-", false)
	if err != nil || w != os.Stderr || c != nil {
		t.Errorf("\"-\" = %v, %v, %v; want stderr", w, c, err)
	}

	path := filepath.Join(dir, "logs", "scribe.log")
	w, c, err = openLogOutput(path, false)
	if err != nil {
		t.Fatalf("openLogOutput(%q) error = %v", path, err)
	}
	logger := NewLogger(LoggerConfig{Output: w})
	logger.Info("written")
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "written") {
		t.Errorf("log file = %q", data)
	}
}

func TestOpenLogOutput_Error(t *testing.T) {
	dir := t.TempDir()
	// A regular file where a directory is expected.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := openLogOutput(filepath.Join(blocker, "scribe.log"), false)
	var lfErr *LogFileError
	if !errors.As(err, &lfErr) || lfErr.Path != filepath.Join(blocker, "scribe.log") {
		t.Errorf("error = %v, want *LogFileError", err)
	}
}

func TestDefaultLogFile(t *testing.T) {
	if got := DefaultLogFile(); filepath.Base(got) != "scribe.log" || filepath.Dir(got) != os.TempDir() {
		t.Errorf("DefaultLogFile() = %q", got)
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig()

	if cfg.Level != LogLevelInfo {
		t.Errorf("expected default level INFO, got %d", cfg.Level)
	}
	if cfg.Output == nil {
		t.Error("expected default output to be set")
	}
	if cfg.Prefix != "scribe" {
		t.Errorf("expected prefix 'scribe', got '%s'", cfg.Prefix)
	}
}
