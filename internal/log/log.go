// Package log provides category-scoped structured logging for soundscape.
//
// The terminal belongs to the UI while the program runs, so log output goes
// to a file (or is discarded when no file is configured).
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Category tags a log line with the subsystem that produced it.
type Category string

const (
	CatAudio  Category = "audio"
	CatStore  Category = "store"
	CatUI     Category = "ui"
	CatConfig Category = "config"
	CatCLI    Category = "cli"
)

var (
	mu     sync.RWMutex
	level  = new(slog.LevelVar)
	logger = newLogger(io.Discard, "")
)

func newLogger(w io.Writer, runID string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	l := slog.New(h)
	if runID != "" {
		l = l.With("run", runID)
	}
	return l
}

// Init opens (or creates) the log file at path and routes all logging to it.
// The returned close function must be called on shutdown.
func Init(path, lvl string) (func() error, error) {
	if err := SetLevel(lvl); err != nil {
		return nil, err
	}
	if path == "" {
		SetOutput(io.Discard)
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	mu.Lock()
	logger = newLogger(f, uuid.NewString())
	mu.Unlock()

	return func() error {
		SetOutput(io.Discard)
		return f.Close()
	}, nil
}

// SetOutput redirects logging to w. Used by tests and shutdown.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = newLogger(w, "")
	mu.Unlock()
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SetLevel changes the minimum level at runtime.
func SetLevel(s string) error {
	l, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.Set(l)
	return nil
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level.
func Debug(cat Category, msg string, kv ...any) {
	current().Debug(msg, append([]any{"cat", string(cat)}, kv...)...)
}

// Info logs at info level.
func Info(cat Category, msg string, kv ...any) {
	current().Info(msg, append([]any{"cat", string(cat)}, kv...)...)
}

// Warn logs at warn level.
func Warn(cat Category, msg string, kv ...any) {
	current().Warn(msg, append([]any{"cat", string(cat)}, kv...)...)
}

// Error logs at error level.
func Error(cat Category, msg string, kv ...any) {
	current().Error(msg, append([]any{"cat", string(cat)}, kv...)...)
}

// ErrorErr logs err at error level under the "error" key.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	current().Error(msg, append([]any{"cat", string(cat), "error", err}, kv...)...)
}

// SafeGo runs fn in a goroutine, logging instead of crashing on panic.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				Error(CatCLI, "Recovered panic in goroutine",
					"goroutine", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}
