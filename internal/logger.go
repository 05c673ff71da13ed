package internal

import (
	"io"
	"log/slog"
)

// NewLogger builds the process logger: text in development, JSON
// elsewhere. level accepts slog names ("debug", "warn", "info+2"); anything
// else means info.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if env == "development" {
		opts.AddSource = lvl <= slog.LevelDebug
		return slog.New(slog.NewTextHandler(w, opts)).With("app", "skybooker")
	}
	return slog.New(slog.NewJSONHandler(w, opts)).With("app", "skybooker", "env", env)
}
