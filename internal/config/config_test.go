package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SHOPFRONT_HTTP_ADDR", ":9090")
	t.Setenv("SHOPFRONT_KV_BACKEND", "memory")
	t.Setenv("SHOPFRONT_COMMERCE_MAX_RETRIES", "3")
	t.Setenv("SHOPFRONT_COMMERCE_RETRY_DELAY", "250ms")
	t.Setenv("SHOPFRONT_CORS_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("SHOPFRONT_LOG_DEVELOPMENT", "true")
	t.Setenv("SHOPFRONT_SESSION_CACHE_TTL", "30s")

	cfg, err := load("")

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, BackendMemory, cfg.KVBackend)
	assert.Equal(t, 3, cfg.CommerceMaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.CommerceRetryDelay)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.LogDevelopment)
	assert.Equal(t, 50, cfg.CommercePageLimit)
	assert.Equal(t, 30*time.Second, cfg.SessionCacheTTL)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopfront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commerce_base_url: https://file.test/admin\nlog_level: debug\n"), 0o600))
	t.Setenv("SHOPFRONT_LOG_LEVEL", "warn")

	cfg, err := load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://file.test/admin", cfg.CommerceBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SHOPFRONT_KV_BACKEND", "redis")

	_, err := load("")

	require.Error(t, err)
}

func TestLoadRejectsEmptySessionCache(t *testing.T) {
	t.Setenv("SHOPFRONT_SESSION_CACHE_SIZE", "0")

	_, err := load("")

	require.Error(t, err)
}
