package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Display DisplayConfig `mapstructure:"display"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Server  ServerConfig  `mapstructure:"server"`
	Update  UpdateConfig  `mapstructure:"update"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds movie service connection details
type APIConfig struct {
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// CatalogConfig controls paging and search behaviour
type CatalogConfig struct {
	PageSize            int           `mapstructure:"page_size"`
	Debounce            time.Duration `mapstructure:"debounce"`
	PrefetchConcurrency int           `mapstructure:"prefetch_concurrency"`
}

// FilterConfig contains named refine expressions
type FilterConfig map[string]string

// DisplayConfig contains console output settings
type DisplayConfig struct {
	Columns      int  `mapstructure:"columns"`
	CardWidth    int  `mapstructure:"card_width"`
	ShowOverview bool `mapstructure:"show_overview"`
	ShowDetails  bool `mapstructure:"show_details"`
}

// ServerConfig holds the web front-end settings
type ServerConfig struct {
	Addr  string      `mapstructure:"addr"`
	Cache CacheConfig `mapstructure:"cache"`
}

// CacheConfig configures the movie detail cache. Redis is used when
// RedisURL is set, otherwise an in-memory LRU.
type CacheConfig struct {
	Size     int           `mapstructure:"size"`
	TTL      time.Duration `mapstructure:"ttl"`
	RedisURL string        `mapstructure:"redis_url"`
}

// UpdateConfig contains self-update settings
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
