// Package logger holds the ipsctl diagnostic logger. Nothing is logged until
// Init enables it.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// L is the global logger instance. It's initialized to discard all output by default.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures the logger initialization.
type Options struct {
	Verbose bool       // text logs at debug level on Stderr
	File    string     // JSON logs appended to this path; takes precedence over Verbose
	Level   slog.Level // minimum level for File. Default: LevelInfo
	Stderr  io.Writer  // defaults to os.Stderr
}

// Init configures logging and returns a function that releases any open log
// file. Call from the root command before any log calls.
func Init(opts Options) (func() error, error) {
	noop := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return noop, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return noop, err
		}
		level := opts.Level
		if level == 0 {
			level = slog.LevelInfo
		}
		if opts.Verbose {
			level = slog.LevelDebug
		}
		L = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		return f.Close, nil
	}

	if opts.Verbose {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		L = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
		return noop, nil
	}

	L = slog.New(slog.NewTextHandler(io.Discard, nil))
	return noop, nil
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
