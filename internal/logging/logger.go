// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New returns a JSON logger, or a text logger at debug level when env is
// "development". level ("debug", "info", "warn", "error") overrides the
// default level; unknown values keep it.
func New(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
	}

	var lvl slog.Level
	if level != "" && lvl.UnmarshalText([]byte(level)) == nil {
		opts.Level = lvl
	}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}
