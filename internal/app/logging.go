package app

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// logSink is shared by a logger and every logger derived from it, so a
// level change on the root applies to all components.
type logSink struct {
	mu       sync.Mutex
	output   io.Writer
	level    atomic.Int32
	disabled atomic.Bool
}

// Logger provides structured logging for the application.
type Logger struct {
	sink   *logSink
	prefix string
	fields map[string]any
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level LogLevel
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to all log messages.
	Prefix string
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LogLevelInfo,
		Output: os.Stderr,
		Prefix: "scribe",
	}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	sink := &logSink{output: cfg.Output}
	sink.level.Store(int32(cfg.Level))
	return &Logger{
		sink:   sink,
		prefix: cfg.Prefix,
	}
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	newFields := make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(newFields, l.fields)
	maps.Copy(newFields, fields)

	return &Logger{
		sink:   l.sink,
		prefix: l.prefix,
		fields: newFields,
	}
}

// WithComponent returns a new logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// Level returns the minimum log level.
func (l *Logger) Level() LogLevel {
	return LogLevel(l.sink.level.Load())
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.level.Store(int32(level))
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
}

// Disable disables all logging.
func (l *Logger) Disable() {
	l.sink.disabled.Store(true)
}

// Enable enables logging.
func (l *Logger) Enable() {
	l.sink.disabled.Store(false)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LogLevelError, msg, args...)
}

// log writes a log message if the level is enabled.
func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if l.sink.disabled.Load() || level < l.Level() {
		return
	}

	timestamp := time.Now().Format("2006-01-02T15:04:05.000")

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	if l.prefix != "" {
		fmt.Fprintf(&b, "%s [%s] %s: %s", timestamp, level, l.prefix, msg)
	} else {
		fmt.Fprintf(&b, "%s [%s] %s", timestamp, level, msg)
	}

	// Fields are sorted so lines are stable across runs.
	if len(l.fields) > 0 {
		b.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(l.fields)) {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, l.fields[k])
		}
		b.WriteString("}")
	}
	b.WriteByte('\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = io.WriteString(l.sink.output, b.String())
}

// NullLogger is a logger that discards all output.
var NullLogger = newNullLogger()

func newNullLogger() *Logger {
	l := NewLogger(LoggerConfig{Output: io.Discard})
	l.Disable()
	return l
}

// DefaultLogFile is where the terminal UI logs when no file is configured.
func DefaultLogFile() string {
	return filepath.Join(os.TempDir(), "scribe.log")
}

// openLogOutput picks the log destination. The terminal owns stdout and
// stderr while the UI runs, so without a configured file the UI logs to
// DefaultLogFile and headless runs log to stderr. The returned closer is
// nil when nothing was opened.
func openLogOutput(file string, headless bool) (io.Writer, io.Closer, error) {
	if file == "" {
		if headless {
			return os.Stderr, nil, nil
		}
		file = DefaultLogFile()
	}
	if file == "-" {
		return os.Stderr, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, &LogFileError{Path: file, Err: err}
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, &LogFileError{Path: file, Err: err}
	}
	return f, f, nil
}
