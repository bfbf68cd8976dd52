// Package logger provides structured file logging for wartush hooks.
//
// Hook processes communicate with Claude Code over stdout, so log output
// goes to a file only; nothing here may ever write to stdout or stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Logger is the structured logging interface used across the codebase.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger carrying additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// Level is the minimum level a FileLogger emits.
type Level int

const (
	// LevelDebug emits everything.
	LevelDebug Level = iota

	// LevelInfo emits info and error entries.
	LevelInfo

	// LevelError emits error entries only.
	LevelError
)

// String returns the level name used in log lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	}

	return "UNKNOWN"
}

// LogFilePermissions restricts log files to the owning user.
const LogFilePermissions = 0o600

// FileLogger implements Logger with append-only file output.
type FileLogger struct {
	out     io.Writer
	min     Level
	baseKVs []any
}

// NewFileLogger opens (or creates) the log file at path and returns a logger
// emitting entries at or above min.
func NewFileLogger(path string, min Level) (*FileLogger, error) {
	//nolint:gosec // Log path comes from validated configuration, not hook input
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileLogger{out: file, min: min}, nil
}

// NewWriterLogger returns a FileLogger writing to an arbitrary writer.
func NewWriterLogger(w io.Writer, min Level) *FileLogger {
	return &FileLogger{out: w, min: min}
}

// Debug logs debug-level messages.
func (l *FileLogger) Debug(msg string, keysAndValues ...any) {
	l.log(LevelDebug, msg, keysAndValues...)
}

// Info logs info-level messages.
func (l *FileLogger) Info(msg string, keysAndValues ...any) {
	l.log(LevelInfo, msg, keysAndValues...)
}

// Error logs error-level messages.
func (l *FileLogger) Error(msg string, keysAndValues ...any) {
	l.log(LevelError, msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With returns the interface for chaining
func (l *FileLogger) With(keysAndValues ...any) Logger {
	kvs := make([]any, 0, len(l.baseKVs)+len(keysAndValues))
	kvs = append(kvs, l.baseKVs...)
	kvs = append(kvs, keysAndValues...)

	return &FileLogger{out: l.out, min: l.min, baseKVs: kvs}
}

func (l *FileLogger) log(level Level, msg string, keysAndValues ...any) {
	if level < l.min || l.out == nil {
		return
	}

	var b strings.Builder

	b.WriteString(time.Now().UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)

	writeKeyValues(&b, l.baseKVs)
	writeKeyValues(&b, keysAndValues)
	b.WriteByte('\n')

	// A failed log write must never fail the hook.
	_, _ = io.WriteString(l.out, b.String())
}

// writeKeyValues appends logfmt-style pairs; a trailing odd argument is
// dropped rather than rendered half-formed.
func writeKeyValues(b *strings.Builder, kvs []any) {
	for i := 0; i+1 < len(kvs); i += 2 {
		key := fmt.Sprintf("%v", kvs[i])
		value := fmt.Sprintf("%v", kvs[i+1])

		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')

		if strings.ContainsAny(value, " \t\n\"=") {
			b.WriteString(strconv.Quote(value))
		} else {
			b.WriteString(value)
		}
	}
}

// NoOp is a logger that discards everything.
type NoOp struct{}

// NewNoOp creates a new NoOp logger.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Debug does nothing.
func (*NoOp) Debug(string, ...any) {}

// Info does nothing.
func (*NoOp) Info(string, ...any) {}

// Error does nothing.
func (*NoOp) Error(string, ...any) {}

// With returns the same NoOp logger.
//
//nolint:ireturn // With returns the interface for chaining
func (n *NoOp) With(...any) Logger { return n }
