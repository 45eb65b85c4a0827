package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvDefaults(t *testing.T) {
	cfg, err := parseEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "local", cfg.StorageType)
	assert.Equal(t, "/api/files/upload", cfg.StorageUploadBaseURL)
	assert.Equal(t, 15*time.Minute, cfg.StoragePresignTTL)
	assert.Equal(t, 5*time.Minute, cfg.UsageCacheTTL)
	assert.True(t, cfg.AllowRegistration)
	assert.Empty(t, cfg.RedisURL)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DBType", "postgres")
	t.Setenv("STORAGE_PRESIGN_TTL", "2m")
	t.Setenv("USAGE_CACHE_TTL", "30s")
	t.Setenv("ALLOW_REGISTRATION", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := parseEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, 2*time.Minute, cfg.StoragePresignTTL)
	assert.Equal(t, 30*time.Second, cfg.UsageCacheTTL)
	assert.False(t, cfg.AllowRegistration)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestParseEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("USAGE_CACHE_TTL", "soon")

	_, err := parseEnv()
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want logrus.Level
	}{
		{raw: "debug", want: logrus.DebugLevel},
		{raw: "warn", want: logrus.WarnLevel},
		{raw: "", want: logrus.InfoLevel},
		{raw: "loud", want: logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{LogLevel: tt.raw}.ParseLogLevel())
		})
	}
}
