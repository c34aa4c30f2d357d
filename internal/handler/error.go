package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/middleware"
	"github.com/dukerupert/route66/internal/telemetry"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// LogError logs err at a level matching its status: server faults as
// errors (and to Sentry), shopper mistakes as info.
func LogError(r *http.Request, err error, status int) {
	attrs := []any{"error", err.Error(), "code", domain.ErrorCode(err), "status", status}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}

	logger := middleware.GetLogger(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
			"op":   domain.ErrorOp(err),
			"path": r.URL.Path,
		})
		return
	}
	logger.Info("request failed", attrs...)
}

// ErrorResponse writes err as JSON for API clients and plain text
// otherwise. Validation errors carry their field messages in JSON.
// Internal details never reach the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)
	LogError(r, err, status)

	if !acceptsJSON(r) {
		http.Error(w, domain.ErrorMessage(err), status)
		return
	}

	body := map[string]any{"code": code, "message": domain.ErrorMessage(err)}
	if fields := domain.GetValidationFields(err); fields != nil {
		body["fields"] = fields
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": body})
}

// InternalErrorResponse reports a server fault without exposing err.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "unexpected error"))
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
