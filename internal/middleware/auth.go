package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
)

// SessionResolver looks up the user behind a session token.
type SessionResolver interface {
	GetUserBySessionToken(ctx context.Context, token string) (*domain.User, error)
}

// CartCounter reports how many units sit in a user's cart.
type CartCounter interface {
	CountUnits(ctx context.Context, userID int64) (int64, error)
}

// WithUser extracts the user from the session cookie and adds it to the request context.
// This middleware is optional - it adds the user if present but doesn't require authentication.
func WithUser(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.SessionCookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.GetUserBySessionToken(r.Context(), token)
			if err != nil {
				if !domain.IsCode(err, domain.EUNAUTHORIZED) {
					GetLogger(r.Context()).Warn("session lookup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			ctx = withLogger(ctx, GetLogger(ctx).With("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithCartCount stores the number of units in the shopper's cart so the
// page header can show it. Lookup failures leave the count at zero.
func WithCartCount(carts CartCounter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := domain.UserIDFromContext(r.Context())
			if userID == 0 || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			count, err := carts.CountUnits(r.Context(), userID)
			if err != nil {
				GetLogger(r.Context()).Warn("cart count failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithCartCount(r.Context(), int(count))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the user is authenticated, redirecting to login if not.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			http.Redirect(w, r, LoginURL(r), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff limits a route to staff accounts. Anonymous visitors are
// sent to login; logged-in shoppers get 403.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			http.Redirect(w, r, LoginURL(r), http.StatusSeeOther)
			return
		}
		if !domain.IsStaff(r.Context()) {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginURL builds the login redirect that returns to the current page.
// Non-GET requests return to the referring page when it is local.
func LoginURL(r *http.Request) string {
	returnTo := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		returnTo = "/"
		if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
			returnTo = ref.RequestURI()
		}
	}
	return "/login?return_to=" + url.QueryEscape(returnTo)
}

// SafeReturnTo accepts only local absolute paths so login cannot be used
// as an open redirect.
func SafeReturnTo(target string) string {
	if target == "" || target[0] != '/' || (len(target) > 1 && (target[1] == '/' || target[1] == '\\')) {
		return "/"
	}
	return target
}

// LocalReferer returns the referring path when it is on this host, or ""
// otherwise.
func LocalReferer(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return ""
	}
	return SafeReturnTo(ref.RequestURI())
}
