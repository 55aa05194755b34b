package main

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// newLogger builds the demo's colorized slog logger.
func newLogger(output io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	handler := tint.NewHandler(output, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
	})
	return slog.New(handler)
}
