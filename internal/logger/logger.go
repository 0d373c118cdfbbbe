package logger

import (
	"log/slog"
	"os"
	"strings"
)

// L is the process-wide structured logger. Init must be called once at
// startup; until then L falls back to an info-level JSON handler so package
// code can log safely in tests.
var L = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Init configures the global logger with the given level name
// (debug, info, warn, error).
func Init(levelStr string) {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.Warn("invalid LOG_LEVEL, defaulting to info", "configured", levelStr)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	L = slog.New(handler)
	slog.SetDefault(L)
}
