// internal/utils/logger.go

package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger defines the leveled logging interface used across the pipeline.
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel converts a level name to a LogLevel. Unknown names map to
// InfoLevel.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// SimpleLogger writes timestamped leveled lines to an io.Writer.
type SimpleLogger struct {
	level  LogLevel
	out    io.Writer
	fields map[string]interface{}
	mu     sync.Mutex
}

// NewLogger creates a logger at InfoLevel writing to stderr.
func NewLogger() Logger {
	return NewLoggerWithLevel(InfoLevel)
}

// NewLoggerWithLevel creates a logger at the given level writing to stderr.
func NewLoggerWithLevel(level LogLevel) Logger {
	return &SimpleLogger{
		level:  level,
		out:    os.Stderr,
		fields: make(map[string]interface{}),
	}
}

// NewLoggerWithOutput creates a logger writing to the given writer. Used by
// tests to capture output.
func NewLoggerWithOutput(level LogLevel, out io.Writer) Logger {
	return &SimpleLogger{
		level:  level,
		out:    out,
		fields: make(map[string]interface{}),
	}
}

func (l *SimpleLogger) Debug(msg string) { l.log(DebugLevel, msg) }
func (l *SimpleLogger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(format, args...))
}

func (l *SimpleLogger) Info(msg string) { l.log(InfoLevel, msg) }
func (l *SimpleLogger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(format, args...))
}

func (l *SimpleLogger) Warn(msg string) { l.log(WarnLevel, msg) }
func (l *SimpleLogger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, fmt.Sprintf(format, args...))
}

func (l *SimpleLogger) Error(msg string) { l.log(ErrorLevel, msg) }
func (l *SimpleLogger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, fmt.Sprintf(format, args...))
}

func (l *SimpleLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *SimpleLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &SimpleLogger{
		level:  l.level,
		out:    l.out,
		fields: merged,
	}
}

func (l *SimpleLogger) log(level LogLevel, msg string) {
	if level < l.level {
		return
	}

	levelStr := [...]string{"DEBUG", "INFO", "WARN", "ERROR"}[level]
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	line := fmt.Sprintf("[%s] [%s] %s", timestamp, levelStr, msg)
	if len(l.fields) > 0 {
		line += " " + formatFields(l.fields)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, line)
}

// formatFields renders fields in key order so output is stable.
func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return "fields={" + strings.Join(parts, ", ") + "}"
}
