// Package logging provides structured logging for codeatlas components.
//
// Output goes to stderr so stdout stays clean for tool results and JSON
// output. The core analysis engines do not log; only the I/O surfaces
// (scanner, store, server, CLI) take a logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Config controls logger construction.
type Config struct {
	Level  slog.Level
	Writer io.Writer // defaults to os.Stderr
}

// New builds a text-format slog logger with the given configuration.
func New(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level}))
}

// Default returns a stderr logger at info level.
func Default() *slog.Logger {
	return New(Config{Level: slog.LevelInfo})
}

// ForVerbosity returns a debug-level logger when verbose is set, info
// otherwise.
func ForVerbosity(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return New(Config{Level: level})
}
