package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/route66/internal/domain"
)

// Middleware cannot use the handler package's renderer (handler imports
// middleware), so rejections are written here as JSON or plain text.

var statusByCode = map[string]int{
	domain.EINVALID:      http.StatusBadRequest,
	domain.EUNAUTHORIZED: http.StatusUnauthorized,
	domain.EFORBIDDEN:    http.StatusForbidden,
	domain.ENOTFOUND:     http.StatusNotFound,
	domain.ECONFLICT:     http.StatusConflict,
	domain.ETOOLARGE:     http.StatusRequestEntityTooLarge,
	domain.ERATELIMIT:    http.StatusTooManyRequests,
}

func statusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// reject logs err and writes it to the client. Only the error's public
// message is sent.
func reject(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := statusFor(code)

	logger := GetLogger(r.Context()).With("code", code, "status", status)
	if status >= http.StatusInternalServerError {
		logger.Error("request rejected", "error", err)
	} else {
		logger.Info("request rejected", "error", err.Error())
	}

	message := domain.ErrorMessage(err)
	if !acceptsJSON(r) {
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func respondForbidden(w http.ResponseWriter, r *http.Request) {
	reject(w, r, domain.Forbidden("", "You don't have permission to access this page."))
}

func respondStaleForm(w http.ResponseWriter, r *http.Request) {
	reject(w, r, domain.Errorf(domain.EFORBIDDEN, "csrf", "This form has expired. Go back, refresh the page and try again."))
}

func respondInternalError(w http.ResponseWriter, r *http.Request, err error) {
	reject(w, r, domain.Internal(err, "", "Something went wrong on our side. Please try again."))
}

func respondTooManyRequests(w http.ResponseWriter, r *http.Request) {
	reject(w, r, domain.Errorf(domain.ERATELIMIT, "", "Slow down! Too many requests, try again in a moment."))
}

func respondTooLarge(w http.ResponseWriter, r *http.Request) {
	reject(w, r, domain.Errorf(domain.ETOOLARGE, "", "That request is too large."))
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
