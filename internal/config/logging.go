package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds a zerolog logger writing to path. The terminal belongs
// to the TUI, so nothing is written to stdout or stderr. An empty path
// yields a disabled logger. The returned close func releases the file.
func NewLogger(level, path string) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	if path == "" {
		return zerolog.Nop(), noop, nil
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("creating log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("opening log file: %w", err)
	}

	logger := newLogger(f, lvl)
	return logger, f.Close, nil
}

func newLogger(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// ConsoleLogger returns a human-readable logger on w, used by
// non-interactive commands when --verbose is set.
func ConsoleLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return newLogger(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}, lvl)
}
