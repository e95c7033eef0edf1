package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Transport TransportConfig `mapstructure:"transport"`
	Filters   FilterConfig    `mapstructure:"filters"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig holds MyWaifuList API connection details
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TransportConfig tunes the underlying HTTP transport
type TransportConfig struct {
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout"`
	PoolSize           int           `mapstructure:"pool_size"`
	Redirects          string        `mapstructure:"redirects"`
	HTTPVersion        string        `mapstructure:"http_version"`
	Proxy              string        `mapstructure:"proxy"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	UserAgent          string        `mapstructure:"user_agent"`
}

// FilterConfig contains named filter presets
type FilterConfig map[string]string

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
