// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Validation and load failures wrap this package's sentinel errors.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EphemerisPath points at a directory of VSOP87B series files. Empty
	// means mean orbital elements only.
	EphemerisPath string `koanf:"ephemeris_path"`

	// HouseSystem is the default house system code: K, O, E or W.
	HouseSystem string `koanf:"house_system"`

	// StoreBackend selects where snapshots are written.
	StoreBackend string `koanf:"store_backend"`

	// StoreDir is the snapshot directory for the file backend.
	StoreDir string `koanf:"store_dir"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `koanf:"postgres_dsn"`

	// RedisAddr is host:port for the redis backend.
	RedisAddr string `koanf:"redis_addr"`

	// IdempotencySize bounds the Idempotency-Key replay cache.
	IdempotencySize int `koanf:"idempotency_size"`

	// BatchWorkers bounds concurrent chart computations in a batch.
	BatchWorkers int `koanf:"batch_workers"`

	// MaxBatchSize caps the number of inputs in one batch request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// RateLimitRPS and RateLimitBurst configure the per-client token bucket.
	// A non-positive RPS disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// GeocodeURL is the base URL of a Nominatim-compatible search endpoint.
	GeocodeURL string `koanf:"geocode_url"`

	// GeocodeTimeoutMS bounds a single geocoder attempt.
	GeocodeTimeoutMS int `koanf:"geocode_timeout_ms"`

	// GeocodeUserAgent is sent with every geocoder request.
	GeocodeUserAgent string `koanf:"geocode_user_agent"`

	// TopRoles and TopTags size the profile's top lists.
	TopRoles int `koanf:"top_roles"`
	TopTags  int `koanf:"top_tags"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		HouseSystem:      "K",
		StoreBackend:     StoreMemory,
		StoreDir:         ".data/charts",
		RedisAddr:        "localhost:6379",
		IdempotencySize:  10_000,
		BatchWorkers:     runtime.NumCPU(),
		MaxBatchSize:     50,
		RateLimitRPS:     20,
		RateLimitBurst:   40,
		GeocodeURL:       "https://nominatim.openstreetmap.org/search",
		GeocodeTimeoutMS: 5_000,
		GeocodeUserAgent: "natal/1.0",
		TopRoles:         5,
		TopTags:          6,
	}
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToUpper(c.HouseSystem) {
	case "K", "O", "E", "W":
	default:
		return fmt.Errorf("%w: unknown house_system %q", ErrInvalidConfig, c.HouseSystem)
	}
	switch c.StoreBackend {
	case StoreMemory:
	case StoreFile:
		if c.StoreDir == "" {
			return fmt.Errorf("%w: store_dir is required for the file backend", ErrInvalidConfig)
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn is required for the postgres backend", ErrInvalidConfig)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("%w: batch_workers must be positive", ErrInvalidConfig)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("%w: max_batch_size must be positive", ErrInvalidConfig)
	}
	if c.IdempotencySize < 1 {
		return fmt.Errorf("%w: idempotency_size must be positive", ErrInvalidConfig)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate_limit_burst must be positive when limiting is on", ErrInvalidConfig)
	}
	if c.TopRoles < 1 || c.TopTags < 1 {
		return fmt.Errorf("%w: top_roles and top_tags must be positive", ErrInvalidConfig)
	}
	return nil
}
