package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cache backend names accepted in CACHE_BACKEND.
const (
	CacheBackendMemory   = "memory"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
)

type Config struct {
	Server      ServerConfig
	Credentials CredentialsConfig
	Cache       CacheConfig
	Scraper     ScraperConfig
	Logging     LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// CredentialsConfig holds the Product Advertising API credentials. The API
// path is only attempted when all of AccessKey, SecretKey and PartnerTag are
// set; otherwise acquisition falls back to scraping.
type CredentialsConfig struct {
	AccessKey  string
	SecretKey  string
	PartnerTag string
	Region     string
}

// Configured reports whether the API path can be used at all.
func (c CredentialsConfig) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != "" && c.PartnerTag != ""
}

type CacheConfig struct {
	Backend     string
	TTL         time.Duration
	RedisAddr   string
	RedisDB     int
	PostgresDSN string
}

type ScraperConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	// MinInterval enables request pacing on the scrape path when > 0.
	// Zero keeps the original single-shot behavior.
	MinInterval time.Duration
	MaxInterval time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Credentials: CredentialsConfig{
			AccessKey:  getEnvOrDefault("AMAZON_ACCESS_KEY", ""),
			SecretKey:  getEnvOrDefault("AMAZON_SECRET_KEY", ""),
			PartnerTag: getEnvOrDefault("AMAZON_PARTNER_TAG", ""),
			Region:     getEnvOrDefault("AMAZON_REGION", "us-east-1"),
		},
		Cache: CacheConfig{
			Backend:     getEnvOrDefault("CACHE_BACKEND", CacheBackendMemory),
			TTL:         getDurationOrDefault("CACHE_TTL", 12*time.Hour),
			RedisAddr:   getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			RedisDB:     getIntOrDefault("REDIS_DB", 0),
			PostgresDSN: getEnvOrDefault("POSTGRES_DSN", ""),
		},
		Scraper: ScraperConfig{
			Timeout:      getDurationOrDefault("SCRAPER_TIMEOUT", 30*time.Second),
			MaxRedirects: getIntOrDefault("SCRAPER_MAX_REDIRECTS", 5),
			MinInterval:  getDurationOrDefault("SCRAPER_MIN_INTERVAL", 0),
			MaxInterval:  getDurationOrDefault("SCRAPER_MAX_INTERVAL", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis, CacheBackendPostgres:
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, redis, postgres, got %q", c.Cache.Backend)
	}

	if c.Cache.Backend == CacheBackendPostgres && c.Cache.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required when CACHE_BACKEND=postgres")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.Scraper.MaxRedirects < 0 {
		return fmt.Errorf("SCRAPER_MAX_REDIRECTS cannot be negative")
	}

	if c.Scraper.MinInterval > c.Scraper.MaxInterval {
		return fmt.Errorf("SCRAPER_MIN_INTERVAL cannot be greater than SCRAPER_MAX_INTERVAL")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
