// Package log provides the leveled, field-carrying logger used across pylight.
package log

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", s)
}

// Logger writes timestamped, leveled lines with optional fields.
// Derived loggers share the parent's output and lock.
type Logger struct {
	out    *output
	level  Level
	prefix string
	fields map[string]any
}

type output struct {
	mu       sync.Mutex
	w        io.Writer
	disabled bool
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum log level to output.
	Level Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to all log messages.
	Prefix string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
		Prefix: "pylight",
	}
}

// New creates a logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		out:    &output{w: cfg.Output},
		level:  cfg.Level,
		prefix: cfg.Prefix,
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return &Logger{out: &output{w: io.Discard, disabled: true}}
}

// OpenFile returns a logger appending to path. The caller closes the
// returned file.
func OpenFile(path string, cfg Config) (*Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	cfg.Output = f
	return New(cfg), f, nil
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	newFields := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &Logger{
		out:    l.out,
		level:  l.level,
		prefix: l.prefix,
		fields: newFields,
	}
}

// WithComponent returns a new logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// Level returns the minimum level this logger writes.
func (l *Logger) Level() Level {
	return l.level
}

// Enabled reports whether a message at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return !l.out.disabled && level >= l.level
}

// Disable turns off output for this logger and every logger derived from
// the same root.
func (l *Logger) Disable() {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.disabled = true
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}

// log writes a message if the level is enabled. msg is a format string
// when args are present.
func (l *Logger) log(level Level, msg string, args ...any) {
	if level < l.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02T15:04:05.000"))
	fmt.Fprintf(&b, " [%s] ", level)
	if l.prefix != "" {
		b.WriteString(l.prefix)
		b.WriteString(": ")
	}
	b.WriteString(msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		b.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, l.fields[k])
		}
		b.WriteString("}")
	}
	b.WriteByte('\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if l.out.disabled {
		return
	}
	_, _ = io.WriteString(l.out.w, b.String())
}
