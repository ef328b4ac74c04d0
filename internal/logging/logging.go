// Package logging builds the slog logger. The TUI owns the terminal, so logs
// only ever go to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Open returns a text logger appending to path, or a discarding logger when
// path is empty. Close the returned io.Closer on exit.
func Open(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}

// New writes text records to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
