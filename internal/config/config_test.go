package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, time.Second, cfg.AdvanceDelay)
	assert.Equal(t, 8*time.Second, cfg.AutoplayInterval)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "namecard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
session_ttl: 5m
accounts:
  backend: redis
  redis_addr: localhost:6379
rate_limit:
  rps: 2
  burst: 4
`), 0o644))

	t.Setenv("NAMECARD_ADDR", ":7070")
	t.Setenv("NAMECARD_ADVANCE_DELAY", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr, "env wins over file")
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.AdvanceDelay)
	assert.Equal(t, BackendRedis, cfg.Accounts.Backend)
	assert.Equal(t, RateLimit{RPS: 2, Burst: 4}, cfg.RateLimit)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("NAMECARD_SESSION_TTL", "forever")
	_, err := Load("")
	assert.ErrorContains(t, err, "NAMECARD_SESSION_TTL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"redis without addr", func(c *Config) { c.Accounts.Backend = BackendRedis }, "redis_addr"},
		{"webhook without url", func(c *Config) { c.Accounts.Backend = BackendWebhook }, "webhook_url"},
		{"unknown backend", func(c *Config) { c.Accounts.Backend = "postgres" }, "unknown accounts.backend"},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, "session_ttl"},
		{"negative rate", func(c *Config) { c.RateLimit.RPS = -1 }, "rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
