package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusinessMetrics_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBusinessMetrics(reg, "")

	m.CartItemsAdded.WithLabelValues("product").Inc()
	m.CartItemsAdded.WithLabelValues("product").Inc()
	m.OrdersCreated.Inc()
	m.OrderValue.Observe(25000)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CartItemsAdded.WithLabelValues("product")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["route66_business_orders_created_total"])
	assert.True(t, names["route66_business_order_value_cents"])
}

func TestInitSentry_DisabledIsNoop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	flush, err := InitSentry(SentryConfig{Enabled: false}, logger)
	require.NoError(t, err)
	flush()
	assert.False(t, IsEnabled())

	flush, err = InitSentry(SentryConfig{Enabled: true}, logger)
	require.NoError(t, err)
	flush()
	assert.False(t, IsEnabled(), "missing DSN keeps Sentry off")

	CaptureErrorFromContext(context.Background(), errors.New("ignored"), nil)
	CapturePanic(context.Background(), "ignored")
}

func TestSentryMiddleware_PassThroughWhenDisabled(t *testing.T) {
	called := false
	h := SentryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
