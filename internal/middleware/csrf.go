package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/dukerupert/route66/internal/cookie"
)

const (
	// CSRFTokenLength is the number of random bytes in a token.
	CSRFTokenLength = 32

	// CSRFHeaderName lets scripted requests send the token without a form.
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormFieldName is the hidden input every storefront form carries.
	CSRFFormFieldName = "csrf_token"

	csrfKey contextKey = "csrf_token"
)

// CSRFConfig configures double-submit CSRF protection.
type CSRFConfig struct {
	// CookieConfig carries the Secure flag and sets the stale-form flash.
	CookieConfig *cookie.Config

	// CookieName defaults to cookie.CSRFCookieName.
	CookieName string

	// CookieMaxAge is in seconds. Default 24 hours.
	CookieMaxAge int

	// SkipPaths are exempt from validation. Matching respects path
	// boundaries, so "/health" does not exempt "/healthz".
	SkipPaths []string

	// ErrorHandler replaces the default rejection.
	ErrorHandler func(w http.ResponseWriter, r *http.Request)
}

// DefaultCSRFConfig exempts only the probe endpoints.
func DefaultCSRFConfig(cookieConfig *cookie.Config) CSRFConfig {
	return CSRFConfig{
		CookieConfig: cookieConfig,
		CookieName:   cookie.CSRFCookieName,
		CookieMaxAge: 86400,
		SkipPaths:    []string{"/health", "/metrics"},
	}
}

// CSRF issues a token cookie on first visit and requires every unsafe
// request to echo it in the csrf_token field or X-CSRF-Token header.
//
// A browser form that fails the check is sent back to the page it came
// from with a warning flash, since the usual cause is a tab left open
// past the cookie's lifetime.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.CookieConfig == nil {
		panic("csrf: CookieConfig is required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = cookie.CSRFCookieName
	}
	if cfg.CookieMaxAge == 0 {
		cfg.CookieMaxAge = 86400
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.SkipPaths {
				if matchesPathPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token := cookie.Get(r, cfg.CookieName)
			if token == "" {
				var err error
				if token, err = generateCSRFToken(); err != nil {
					GetLogger(r.Context()).Error("csrf: failed to generate token", "error", err)
					respondInternalError(w, r, err)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   cfg.CookieMaxAge,
					Secure:   cfg.CookieConfig.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfKey, token))

			if isSafeMethod(r.Method) || tokensMatch(token, submittedToken(r)) {
				next.ServeHTTP(w, r)
				return
			}

			back := LocalReferer(r)
			switch {
			case cfg.ErrorHandler != nil:
				cfg.ErrorHandler(w, r)
			case !acceptsJSON(r) && back != "":
				GetLogger(r.Context()).Info("csrf: stale form, sending shopper back", "referer", back)
				cfg.CookieConfig.SetFlash(w, r, cookie.FlashWarning, "That form had expired. Please try again.")
				http.Redirect(w, r, back, http.StatusSeeOther)
			default:
				respondStaleForm(w, r)
			}
		})
	}
}

// GetCSRFToken returns the token for the current request. Templates embed
// it as <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">.
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey).(string)
	return token
}

func generateCSRFToken() (string, error) {
	b := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func submittedToken(r *http.Request) string {
	if token := r.Header.Get(CSRFHeaderName); token != "" {
		return token
	}
	return r.PostFormValue(CSRFFormFieldName)
}

func tokensMatch(cookieToken, submitted string) bool {
	if cookieToken == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submitted)) == 1
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// matchesPathPrefix reports whether requestPath is skipPath or lies below
// it on a "/" boundary.
func matchesPathPrefix(requestPath, skipPath string) bool {
	if !strings.HasPrefix(requestPath, skipPath) {
		return false
	}
	if strings.HasSuffix(skipPath, "/") || len(requestPath) == len(skipPath) {
		return true
	}
	return requestPath[len(skipPath)] == '/'
}
