package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Fetch     FetchConfig
	Cache     CacheConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8700"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// EngineConfig holds search orchestration configuration.
type EngineConfig struct {
	// Workers caps the per-category worker pool; the effective size is
	// min(source count, Workers).
	Workers      int           `envconfig:"ENGINE_WORKERS" default:"4"`
	RetryBackoff time.Duration `envconfig:"ENGINE_RETRY_BACKOFF" default:"2s"`
	// MaxCandidates bounds how many records one extraction call may emit.
	MaxCandidates int `envconfig:"ENGINE_MAX_CANDIDATES" default:"50"`
}

// FetchConfig holds outbound HTTP configuration.
type FetchConfig struct {
	Timeout           time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s"`
	UserAgent         string        `envconfig:"FETCH_USER_AGENT" default:"MCP-Search/1.0"`
	RetryMax          int           `envconfig:"FETCH_RETRY_MAX" default:"2"`
	RequestsPerSecond float64       `envconfig:"FETCH_RPS" default:"8"`
}

// CacheConfig holds result cache configuration.
type CacheConfig struct {
	TTL time.Duration `envconfig:"CACHE_TTL" default:"24h"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds inbound API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8700",
			Host: "0.0.0.0",
		},
		Engine: EngineConfig{
			Workers:       4,
			RetryBackoff:  2 * time.Second,
			MaxCandidates: 50,
		},
		Fetch: FetchConfig{
			Timeout:           15 * time.Second,
			UserAgent:         "MCP-Search/1.0",
			RetryMax:          2,
			RequestsPerSecond: 8,
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
