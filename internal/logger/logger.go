package logger

import (
	"log/slog"
	"os"
)

// Setup installs a text logger on stdout as the slog default.
func Setup(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
