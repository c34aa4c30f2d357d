package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/route66/internal/domain"
)

type contextKey string

// LoggerContextKey holds the request-scoped *slog.Logger.
const LoggerContextKey contextKey = "logger"

// WithRequestLogger stores a logger tagged with the request id, method and
// path. Later middleware add to it: WithClientIP adds client_ip and
// WithUser adds user_id.
func WithRequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With("method", r.Method, "path", r.URL.Path)
			if id := domain.RequestIDFromContext(r.Context()); id != "" {
				logger = logger.With("request_id", id)
			}
			next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), logger)))
		})
	}
}

// GetLogger returns the request-scoped logger, else the first non-nil
// fallback, else slog.Default().
func GetLogger(ctx context.Context, fallback ...*slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*slog.Logger); ok {
		return logger
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return slog.Default()
}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}
