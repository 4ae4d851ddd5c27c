package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "info")
	for _, key := range []string{"MAX_UPLOAD_SIZE_BYTES", "CACHE_EXPIRY", "CACHE_CLEANUP_INTERVAL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	// Typed helpers treat an empty value as unset.
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSizeBytes)
	assert.Equal(t, 30*time.Minute, cfg.CacheExpiry)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 30, cfg.RateLimitBurst)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CACHE_EXPIRY", "5m")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.CacheExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.RateLimitBurst)
}

func TestFromEnvRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "http"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"zero upload size", "MAX_UPLOAD_SIZE_BYTES", "0"},
		{"negative burst", "RATE_LIMIT_BURST", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "8080")
			t.Setenv("LOG_LEVEL", "info")
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
