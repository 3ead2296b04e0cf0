// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Configures the default logger for the server (stdout) or the terminal browser (log file).

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Init configures the default slog logger to write to stdout.
// LOG_LEVEL: debug, info, warn, error (default: info)
// LOG_FORMAT: text, json (default: text)
func Init() {
	InitWriter(os.Stdout)
}

// InitWriter configures the default slog logger to write to w.
func InitWriter(w io.Writer) {
	slog.SetDefault(slog.New(NewHandler(w, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))))
}

// InitFile points the default logger at dir/name so that log output does not
// interfere with a full-screen terminal UI. The returned function closes the file.
func InitFile(dir, name string) (func() error, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	InitWriter(f)
	return f.Close, nil
}

// NewHandler builds a text or JSON handler at the given level.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
