package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const clientIPKey contextKey = "client_ip"

// WithClientIP resolves the shopper's address once per request, stores it
// in the context and tags the request logger with it. Proxy headers are
// trusted, so the server must sit behind a proxy that sets them.
func WithClientIP() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolveClientIP(r)
			ctx := context.WithValue(r.Context(), clientIPKey, ip)
			ctx = withLogger(ctx, GetLogger(ctx).With("client_ip", ip))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIP returns the address stored by WithClientIP, resolving it
// from the request when the middleware did not run.
func GetClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return resolveClientIP(r)
}

// resolveClientIP prefers the first valid X-Forwarded-For hop, then
// X-Real-IP, then the socket address. Unparseable header values are
// ignored so a forged header cannot mint arbitrary rate limit keys.
func resolveClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
