// Package config loads application configuration from file, environment
// variables, and flags through viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Catalog resources
	Catalog CatalogConfig `mapstructure:"catalog"`

	// Backend listing service
	Backend BackendConfig `mapstructure:"backend"`

	// Search behaviour
	Search SearchConfig `mapstructure:"search"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// CatalogConfig points at the static catalog resources. Empty paths
// fall back to the resources embedded in the binary.
type CatalogConfig struct {
	Path         string `mapstructure:"path"`
	FallbackPath string `mapstructure:"fallback_path"`
}

// BackendConfig holds configuration for the listing data service
type BackendConfig struct {
	Driver  string `mapstructure:"driver"` // http, local
	BaseURL string `mapstructure:"base_url"`
	Path    string `mapstructure:"path"`    // local store path; empty means in-memory
	Timeout int    `mapstructure:"timeout"` // in seconds

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// SearchConfig holds search behaviour configuration
type SearchConfig struct {
	PageSize     int `mapstructure:"page_size"`
	SuggestLimit int `mapstructure:"suggest_limit"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	// Catalog defaults: embedded resources
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("catalog.fallback_path", "")

	// Backend defaults
	viper.SetDefault("backend.driver", "local")
	viper.SetDefault("backend.base_url", "http://localhost:9000")
	viper.SetDefault("backend.path", "")
	viper.SetDefault("backend.timeout", 5)
	viper.SetDefault("backend.circuit_breaker.max_requests", 3)
	viper.SetDefault("backend.circuit_breaker.interval", 60)
	viper.SetDefault("backend.circuit_breaker.timeout", 30)
	viper.SetDefault("backend.circuit_breaker.ready_to_trip_ratio", 0.6)

	// Search defaults
	viper.SetDefault("search.page_size", 20)
	viper.SetDefault("search.suggest_limit", 8)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
		config.Server.Port = viper.GetInt("server.port")
	}

	if path := os.Getenv("CATALOG_PATH"); path != "" {
		config.Catalog.Path = path
	}
	if path := os.Getenv("FALLBACK_PATH"); path != "" {
		config.Catalog.FallbackPath = path
	}

	if driver := os.Getenv("BACKEND_DRIVER"); driver != "" {
		config.Backend.Driver = driver
	}
	if url := os.Getenv("BACKEND_URL"); url != "" {
		config.Backend.BaseURL = url
	}
	if path := os.Getenv("BACKEND_PATH"); path != "" {
		config.Backend.Path = path
	}
}

// Validate checks configuration invariants before startup
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Backend.Driver {
	case "http":
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required for the http driver")
		}
	case "local":
	default:
		return fmt.Errorf("unsupported backend driver: %s", c.Backend.Driver)
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("search.page_size must be positive")
	}
	return nil
}
