// Package logging configures the service-wide structured logger and defines
// the field vocabulary shared by all log call sites.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/middleware"
)

// New builds the service logger. level is one of "debug", "info", "warn",
// "error" (unknown values fall back to info); format is "text" or "json"
// (default json). Source locations are recorded at debug level only.
func New(level, format string) *slog.Logger {
	lvl := ParseLevel(level)

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a configured level name to a slog.Level.
// Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefault installs l as the process-wide default so slog top-level
// functions and the log package route through it.
func SetDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// WithRequestID returns l with the request ID from ctx attached, or l
// unchanged when the context carries none.
func WithRequestID(ctx context.Context, l *slog.Logger) *slog.Logger {
	if reqID := middleware.GetRequestID(ctx); reqID != "" {
		return l.With(RequestID(reqID))
	}
	return l
}
