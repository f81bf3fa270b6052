// Package logger configures structured logging for the bot process.
package logger

import (
	"log/slog"
	"os"
)

// New builds the JSON logger shared by the Telegram loop and the admin
// API. Output goes to stdout so the process supervisor collects it.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
