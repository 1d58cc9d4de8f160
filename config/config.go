package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/reelgrid/movieapi"
)

// EnvPrefix prefixes environment overrides, e.g. REELGRID_API_TOKEN
const EnvPrefix = "REELGRID"

// Load loads the configuration. An explicit configPath must exist; otherwise
// the standard locations are searched and defaults apply when none has a
// config file.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Environment overrides, e.g. api.token from REELGRID_API_TOKEN
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".reelgrid"))
		}

		// Check /etc
		v.AddConfigPath("/etc/reelgrid/")
	}

	// Read config file. Running without one is fine unless a path was given.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", movieapi.DefaultBaseURL)
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.user_agent", "reelgrid")

	// Catalog defaults
	v.SetDefault("catalog.page_size", 20)
	v.SetDefault("catalog.debounce", "500ms")
	v.SetDefault("catalog.prefetch_concurrency", 6)

	// Display defaults
	v.SetDefault("display.columns", 3)
	v.SetDefault("display.card_width", 34)
	v.SetDefault("display.show_overview", true)
	v.SetDefault("display.show_details", false)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cache.size", 500)
	v.SetDefault("server.cache.ttl", "10m")
	v.SetDefault("server.cache.redis_url", "")

	// Update defaults
	v.SetDefault("update.repository", "s0up4200/reelgrid")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	if u, err := url.Parse(cfg.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.url must be an absolute URL: %s", cfg.API.URL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	// Catalog and display settings
	if cfg.Catalog.PageSize < 1 || cfg.Catalog.PageSize > 100 {
		return fmt.Errorf("catalog.page_size must be between 1 and 100: %d", cfg.Catalog.PageSize)
	}

	if cfg.Catalog.Debounce < 0 {
		return fmt.Errorf("catalog.debounce must not be negative")
	}

	if cfg.Display.Columns < 1 {
		return fmt.Errorf("display.columns must be at least 1")
	}

	if cfg.Server.Cache.RedisURL != "" {
		if _, err := url.Parse(cfg.Server.Cache.RedisURL); err != nil {
			return fmt.Errorf("invalid server.cache.redis_url: %w", err)
		}
	}

	// Validate logging settings
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
