package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/middleware"
)

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		domain.EINVALID:      http.StatusBadRequest,
		domain.EUNAUTHORIZED: http.StatusUnauthorized,
		domain.EFORBIDDEN:    http.StatusForbidden,
		domain.ENOTFOUND:     http.StatusNotFound,
		domain.ECONFLICT:     http.StatusConflict,
		domain.ETOOLARGE:     http.StatusRequestEntityTooLarge,
		domain.ERATELIMIT:    http.StatusTooManyRequests,
		domain.EINTERNAL:     http.StatusInternalServerError,
		"ESOMETHINGELSE":     http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := ErrorCodeToHTTPStatus(code); got != want {
			t.Errorf("ErrorCodeToHTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		json       bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing product as text",
			err:        domain.NotFound("catalog.product", "product", "skyline-gt-r"),
			wantStatus: http.StatusNotFound,
			wantBody:   "product not found",
		},
		{
			name:       "foreign cart item as json",
			err:        domain.NotFound("cart.remove", "cart item", "12"),
			json:       true,
			wantStatus: http.StatusNotFound,
			wantBody:   `"code":"not_found"`,
		},
		{
			name:       "slug conflict",
			err:        domain.Conflict("admin.category", "category still has products"),
			json:       true,
			wantStatus: http.StatusConflict,
			wantBody:   "category still has products",
		},
		{
			name:       "plain error becomes internal",
			err:        errors.New("pq: relation does not exist"),
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products/skyline-gt-r", nil)
			if tt.json {
				req.Header.Set("Accept", "application/json")
			}
			rec := httptest.NewRecorder()

			ErrorResponse(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %q missing %q", rec.Body.String(), tt.wantBody)
			}
			if strings.Contains(rec.Body.String(), "pq:") {
				t.Errorf("internal detail leaked: %q", rec.Body.String())
			}
		})
	}
}

func TestErrorResponse_ValidationFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	err := domain.NewValidationError("checkout.place", "zip_code", "This field is required.")
	err = domain.AddFieldError(err, "email", "Enter a valid email address.")
	ErrorResponse(rec, req, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Error.Code != domain.EINVALID {
		t.Errorf("code = %q", body.Error.Code)
	}
	if len(body.Error.Fields) != 2 || body.Error.Fields["zip_code"] != "This field is required." {
		t.Errorf("fields = %v", body.Error.Fields)
	}
}

func TestInternalErrorResponse_HidesCause(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	InternalErrorResponse(rec, req, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	body := decodeErrorBody(t, rec)
	if rec.Code != http.StatusInternalServerError || body.Error.Code != domain.EINTERNAL {
		t.Errorf("got %d %q", rec.Code, body.Error.Code)
	}
	if strings.Contains(body.Error.Message, "10.0.0.5") {
		t.Errorf("message leaked cause: %q", body.Error.Message)
	}
}

func TestLogError_Levels(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusNotFound, "level=INFO"},
		{http.StatusInternalServerError, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		h := middleware.WithRequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			LogError(r, domain.NotFound("cart.view", "cart", "7"), tt.status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))

		if !strings.Contains(buf.String(), tt.wantLevel) || !strings.Contains(buf.String(), "op=cart.view") {
			t.Errorf("status %d: unexpected log %q", tt.status, buf.String())
		}
	}
}

func TestAcceptsJSON(t *testing.T) {
	tests := []struct {
		name        string
		accept      string
		contentType string
		want        bool
	}{
		{"accept json", "application/json", "", true},
		{"accept json with charset", "application/json; charset=utf-8", "", true},
		{"json body", "", "application/json", true},
		{"browser", "text/html,application/xhtml+xml", "application/x-www-form-urlencoded", false},
		{"nothing", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			if got := acceptsJSON(req); got != tt.want {
				t.Errorf("acceptsJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}
