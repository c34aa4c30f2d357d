package internal

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PORT", "")
	t.Setenv("SMTP_TIMEOUT", "")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(3000), cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Email.Timeout)
	assert.False(t, cfg.IsProduction())
}

func TestNewConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("SESSION_SECRET", "a-real-secret")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewConfig_ProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("SESSION_SECRET", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestNewConfig_SentryNeedsDSN(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("SENTRY_ENABLED", "true")
	t.Setenv("SENTRY_DSN", "")

	_, err := NewConfig()
	require.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("R66_INT", "not-a-number")
	t.Setenv("R66_BOOL", "yes")
	t.Setenv("R66_FLOAT", "0.25")
	t.Setenv("R66_DURATION", "1m")

	assert.Equal(t, uint16(7), getEnvInt("R66_INT", 7))
	assert.True(t, getEnvBool("R66_BOOL", false))
	assert.Equal(t, 0.25, getEnvFloat("R66_FLOAT", 1))
	assert.Equal(t, time.Minute, getEnvDuration("R66_DURATION", time.Second))
	assert.Equal(t, "fallback", getEnv("R66_MISSING", "fallback"))
}

func TestNewLogger_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", "info")

	logger.Debug("hidden")
	logger.Info("shown", "order_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "route66", entry["service"])
	assert.EqualValues(t, 7, entry["order_id"])
}

func TestNewLogger_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "dev", "debug")

	logger.Debug("login attempt", "email", "dom@example.com", "password", "hunter22", "session_token", "abc")

	out := buf.String()
	assert.Contains(t, out, "email=dom@example.com")
	assert.NotContains(t, out, "hunter22")
	assert.NotContains(t, out, "=abc")
	assert.Contains(t, out, "password=[redacted]")
}
