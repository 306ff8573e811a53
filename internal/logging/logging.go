// Package logging sets up the JSON slog logger. The TUI owns the terminal, so
// log output only ever goes to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is a slog.Logger whose level can change at runtime and whose file
// must be closed.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
	file  *os.File
}

// ParseLevel maps debug, info, warn/warning and error. Anything else is info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New writes JSON records to w.
func New(w io.Writer, level slog.Level) *Logger {
	lv := &slog.LevelVar{}
	lv.Set(level)
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})),
		level:  lv,
	}
}

// Open appends to path, creating parent directories. An empty path discards.
func Open(path, level string) (*Logger, error) {
	if path == "" {
		return Discard(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l := New(f, ParseLevel(level))
	l.file = f
	return l, nil
}

// Discard drops everything.
func Discard() *Logger {
	return New(io.Discard, slog.LevelError)
}

// SetLevel changes the level of every logger derived from l.
func (l *Logger) SetLevel(level slog.Level) { l.level.Set(level) }

// SetRawLevel is SetLevel over ParseLevel.
func (l *Logger) SetRawLevel(raw string) { l.level.Set(ParseLevel(raw)) }

// Level returns the current level.
func (l *Logger) Level() slog.Level { return l.level.Level() }

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
