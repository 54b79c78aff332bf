// Package logging provides a leveled logger backed by log/slog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

// ParseLevel parses a log level string.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config controls logger construction.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer // defaults to os.Stderr
}

// Logger is a leveled logger. Methods take printf-style arguments; structured
// context is attached with With.
type Logger struct {
	mu     sync.Mutex
	level  *slog.LevelVar
	format Format
	attrs  []any
	sl     *slog.Logger
}

// New creates a text logger writing to stderr.
func New(level Level) *Logger {
	return NewWithConfig(Config{Level: level})
}

// NewWithConfig creates a logger from cfg.
func NewWithConfig(cfg Config) *Logger {
	l := &Logger{level: new(slog.LevelVar), format: cfg.Format}
	l.level.Set(cfg.Level.slogLevel())
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l.sl = slog.New(l.handler(out))
	return l
}

func (l *Logger) handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sl = slog.New(l.handler(w)).With(l.attrs...)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// With returns a logger that adds key/value pairs to every record. The
// returned logger shares the parent's level.
func (l *Logger) With(args ...any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	attrs := append(append([]any(nil), l.attrs...), args...)
	return &Logger{
		level:  l.level,
		format: l.format,
		attrs:  attrs,
		sl:     l.sl.With(args...),
	}
}

// Slog exposes the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sl
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	sl := l.sl
	l.mu.Unlock()

	ctx := context.Background()
	if !sl.Enabled(ctx, level.slogLevel()) {
		return
	}
	sl.Log(ctx, level.slogLevel(), fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return NewWithConfig(Config{Level: LevelError + 1, Output: io.Discard})
}
