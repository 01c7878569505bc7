// Package logger provides the structured slog logger used across the
// application. Logs are written in JSON to a size-rotated file under the data
// directory, and mirrored to stderr when running interactively.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Dir is the log directory; created if it does not exist.
	Dir string
	// Level is the minimum level to emit.
	Level slog.Level
	// Stderr mirrors log output to stderr in addition to the rotated file.
	Stderr bool
}

// New creates a JSON slog.Logger writing to <dir>/renewd.log with rotation.
func New(opts Options) (*slog.Logger, error) {
	if err := os.MkdirAll(opts.Dir, 0750); err != nil {
		return nil, err
	}

	var w io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, "renewd.log"),
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	if opts.Stderr {
		w = io.MultiWriter(w, os.Stderr)
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(handler), nil
}
