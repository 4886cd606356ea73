// Package logging owns the process-wide slog logger. The TUI holds the
// terminal, so records always go to a file (or nowhere).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu     sync.Mutex
	logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	closer io.Closer
)

// Configure opens path for appending and routes all records at or above
// level into it as JSON. An empty path or level "off" discards everything.
func Configure(path, level string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	lvl, enabled := parseLevel(level)
	if strings.TrimSpace(path) == "" || !enabled {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}

	closer = f
	logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return nil
}

// SetOutput routes records to w. Tests use it to capture output.
func SetOutput(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	lvl, _ := parseLevel(level)
	logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// L returns the current logger.
func L() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Close releases the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Error logs err with msg unless err is nil.
func Error(msg string, err error, args ...any) {
	if err == nil {
		return
	}
	L().Error(msg, append([]any{"error", err.Error()}, args...)...)
}

func closeLocked() {
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off", "none":
		return slog.LevelInfo, false
	case "debug":
		return slog.LevelDebug, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, true
	}
}
