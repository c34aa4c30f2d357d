package internal

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds the process logger. Production gets JSON with UTC
// RFC3339Nano timestamps, everything else the text handler. Attributes
// that look like credentials are redacted in both.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	lvl, ok := logLevels[level]
	if !ok && level != "" {
		slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
	}

	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if sensitiveKey(a.Key) {
				return slog.String(a.Key, "[redacted]")
			}
			if env == "prod" && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if env == "prod" {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("service", "route66")
}

func sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "password") ||
		strings.Contains(key, "secret") ||
		key == "token" || key == "session_token" || key == "csrf_token"
}
