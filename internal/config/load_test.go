package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 chars, min for validation

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PREPDECK_DATABASE_URL", "postgres://localhost:5432/prepdeck_test")
	t.Setenv("PREPDECK_AUTH_JWT_SECRET", testSecret)
	t.Setenv("PREPDECK_SERVER_PORT", "9090")
	t.Setenv("PREPDECK_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/prepdeck_test", cfg.Database.URL)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)

	// Defaults fill anything not overridden.
	assert.Equal(t, 20, cfg.Practice.DefaultQuestionCount)
	assert.Equal(t, 100, cfg.Practice.MaxQuestionCount)
	assert.Equal(t, 60, cfg.Practice.IdempotencyTTLMinutes)
}

func TestLoadRejectsMissingDatabaseURL(t *testing.T) {
	t.Setenv("PREPDECK_AUTH_JWT_SECRET", testSecret)
	t.Setenv("PREPDECK_DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("PREPDECK_DATABASE_URL", "postgres://localhost:5432/prepdeck_test")
	t.Setenv("PREPDECK_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("PREPDECK_DATABASE_URL", "postgres://localhost:5432/prepdeck_test")
	t.Setenv("PREPDECK_AUTH_JWT_SECRET", testSecret)
	t.Setenv("PREPDECK_SERVER_LOG_LEVEL", "loud")

	_, err := Load()
	assert.Error(t, err)
}
