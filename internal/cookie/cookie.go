// Package cookie sets and reads the storefront's session, CSRF and flash
// cookies with consistent attributes.
package cookie

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// Cookie names used throughout the application.
const (
	SessionCookieName = "route66_session"
	CSRFCookieName    = "route66_csrf"
	FlashCookieName   = "route66_flash"
)

// Config holds the attributes shared by every cookie the server sets.
type Config struct {
	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

func NewConfig(secure bool) *Config {
	return &Config{Secure: secure}
}

// SetSession sets an HttpOnly session cookie that expires at the given time.
func (c *Config) SetSession(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes a session cookie by setting MaxAge to -1.
func (c *Config) ClearSession(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Flash levels map to alert styles in the layout.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the page after a redirect.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SetFlash queues messages for the next page render. Messages already
// pending on the request are kept.
func (c *Config) SetFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	flashes := readFlashes(r)
	flashes = append(flashes, Flash{Level: level, Message: message})
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns the pending messages and clears the cookie.
func (c *Config) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) > 0 {
		c.ClearSession(w, FlashCookieName)
	}
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	value := Get(r, FlashCookieName)
	if value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}
