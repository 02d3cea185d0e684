package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storefront StorefrontConfig
	Cache      CacheConfig
	Throttle   ThrottleConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorefrontConfig holds storefront backend configuration
type StorefrontConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	PostalCode string `mapstructure:"postal_code"`
	ZoneID     string `mapstructure:"zone_id"`
	PageViewID string `mapstructure:"page_view_id"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type        string `mapstructure:"type"` // "memory" or "postgres"
	PostgresURL string `mapstructure:"postgres_url"`
}

// ThrottleConfig holds the backend-courtesy throughput bounds
type ThrottleConfig struct {
	ChunkSize  int           `mapstructure:"chunk_size"`
	ChunkDelay time.Duration `mapstructure:"chunk_delay"`
	ShopDelay  time.Duration `mapstructure:"shop_delay"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cartcompare/")

	// Environment variable settings
	v.SetEnvPrefix("CARTCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Storefront defaults
	v.SetDefault("storefront.base_url", "https://www.instacart.com")
	v.SetDefault("storefront.postal_code", "")
	v.SetDefault("storefront.zone_id", "")
	v.SetDefault("storefront.page_view_id", "")

	// Cache defaults
	v.SetDefault("cache.type", "memory")

	// Throttle defaults
	v.SetDefault("throttle.chunk_size", 50)
	v.SetDefault("throttle.chunk_delay", "500ms")
	v.SetDefault("throttle.shop_delay", "500ms")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Storefront.BaseURL == "" {
		return fmt.Errorf("storefront base URL is required (set CARTCOMPARE_STOREFRONT_BASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "postgres" {
		return fmt.Errorf("cache type must be 'memory' or 'postgres', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "postgres" && config.Cache.PostgresURL == "" {
		return fmt.Errorf("Postgres URL is required when cache type is 'postgres'")
	}

	if config.Throttle.ChunkSize <= 0 {
		return fmt.Errorf("throttle chunk size must be positive, got: %d", config.Throttle.ChunkSize)
	}

	return nil
}
