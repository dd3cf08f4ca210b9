// Package logging builds the slog logger used by touch-ctime.
//
// Diagnostics go to the console at warn level, or debug with Verbose. A log
// file, when configured, receives every record as JSON.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Config holds logger configuration.
type Config struct {
	Verbose  bool
	Output   io.Writer
	FilePath string
}

// New creates the logger. The returned close function flushes and closes
// the log file, if any; it is safe to call when there is none.
func New(cfg Config) (*slog.Logger, func() error, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: level}),
	}
	closeFn := func() error { return nil }

	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // Path is user-provided
		if err != nil {
			return nil, closeFn, fmt.Errorf("failed to open log file: %w", err)
		}

		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeFn = f.Close
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), closeFn, nil
	}

	return slog.New(fanout(handlers)), closeFn, nil
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error

	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}

	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}

	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}

	return next
}
