package config

import (
	"fmt"
	"time"
)

// Config holds every setting the CLI and HTTP server read.
type Config struct {
	DBDriver string `koanf:"db_driver"`
	DBDSN    string `koanf:"db_dsn"`
	LogLevel string `koanf:"log_level"`

	// Cohorts are recomputed after CohortTTL. TeamID scopes them to one
	// team's roster; 0 uses every stored player.
	CohortTTL    time.Duration `koanf:"cohort_ttl"`
	TeamID       int64         `koanf:"team_id"`
	CacheBackend string        `koanf:"cache_backend"`
	RedisURL     string        `koanf:"redis_url"`
	RedisPrefix  string        `koanf:"redis_prefix"`

	Addr string `koanf:"addr"`

	UltianalyticsURL     string        `koanf:"ultianalytics_url"`
	UltianalyticsTimeout time.Duration `koanf:"ultianalytics_timeout"`

	AnthropicModel string `koanf:"anthropic_model"`
}

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// New returns the defaults.
func New() *Config {
	return &Config{
		DBDriver:             "sqlite",
		DBDSN:                "ultimetrics.db",
		LogLevel:             "info",
		CohortTTL:            30 * time.Second,
		CacheBackend:         CacheMemory,
		RedisURL:             "redis://localhost:6379/0",
		RedisPrefix:          "ultimetrics:",
		Addr:                 ":8080",
		UltianalyticsURL:     "https://www.ultianalytics.com",
		UltianalyticsTimeout: 30 * time.Second,
		AnthropicModel:       "claude-haiku-4-5-20251001",
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: db_driver %q must be sqlite or postgres", ErrInvalidConfig, c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	}
	if c.CohortTTL < 0 {
		return fmt.Errorf("%w: cohort_ttl must not be negative", ErrInvalidConfig)
	}
	switch c.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis_url is required with the redis cache backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: cache_backend %q must be memory or redis", ErrInvalidConfig, c.CacheBackend)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.UltianalyticsTimeout <= 0 {
		return fmt.Errorf("%w: ultianalytics_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
