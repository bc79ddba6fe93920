package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 12*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, 5, cfg.Scraper.MaxRedirects)
	assert.Zero(t, cfg.Scraper.MinInterval)
	assert.Equal(t, "us-east-1", cfg.Credentials.Region)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("AMAZON_ACCESS_KEY", "AKIAEXAMPLE")
	t.Setenv("AMAZON_SECRET_KEY", "secret")
	t.Setenv("AMAZON_PARTNER_TAG", "example-20")
	t.Setenv("SCRAPER_MIN_INTERVAL", "2s")
	t.Setenv("SCRAPER_MAX_INTERVAL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.Credentials.Configured())
	assert.Equal(t, 2*time.Second, cfg.Scraper.MinInterval)

	require.NoError(t, cfg.Validate())
}

func TestCredentialsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		creds    CredentialsConfig
		expected bool
	}{
		{
			name: "all set",
			creds: CredentialsConfig{
				AccessKey: "k", SecretKey: "s", PartnerTag: "t", Region: "us-east-1",
			},
			expected: true,
		},
		{
			name:     "nothing set",
			creds:    CredentialsConfig{Region: "us-east-1"},
			expected: false,
		},
		{
			name: "missing partner tag disables the API path",
			creds: CredentialsConfig{
				AccessKey: "k", SecretKey: "s",
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.creds.Configured())
		})
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "unknown cache backend",
			mutate: func(c *Config) { c.Cache.Backend = "memcached" },
		},
		{
			name:   "postgres backend without DSN",
			mutate: func(c *Config) { c.Cache.Backend = CacheBackendPostgres },
		},
		{
			name:   "non-positive TTL",
			mutate: func(c *Config) { c.Cache.TTL = 0 },
		},
		{
			name:   "negative redirect cap",
			mutate: func(c *Config) { c.Scraper.MaxRedirects = -1 },
		},
		{
			name: "min pacing interval above max",
			mutate: func(c *Config) {
				c.Scraper.MinInterval = 10 * time.Second
				c.Scraper.MaxInterval = time.Second
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
