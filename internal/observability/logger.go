package observability

import (
	"log/slog"
	"os"
)

// NewLogger returns the JSON logger, already wrapped so records carry
// trace ids when a span is active. Dev builds log debug with source
// locations, prod stays at info.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	return slog.New(newTraceHandler(handler)).With("service", "bizdash")
}
