package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/waifuctl/mywaifulist"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "WAIFUCTL"

// Load loads the configuration from file, .env and environment.
// A missing config file is only an error when configPath is set explicitly.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api.api_key", EnvPrefix+"_API_KEY")

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
			v.AddConfigPath(filepath.Join(home, ".waifuctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/waifuctl/")
	}

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

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports the variables of a .env file without overriding the environment
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", mywaifulist.DefaultBaseURL)
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.timeout", mywaifulist.DefaultTimeout)

	// Transport defaults
	v.SetDefault("transport.connect_timeout", "10s")
	v.SetDefault("transport.pool_size", mywaifulist.DefaultPoolSize)
	v.SetDefault("transport.redirects", "never")
	v.SetDefault("transport.http_version", "http2")
	v.SetDefault("transport.proxy", "")
	v.SetDefault("transport.insecure_skip_verify", false)
	v.SetDefault("transport.user_agent", "")

	// Output defaults
	v.SetDefault("output.format", "table")

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

	if cfg.API.APIKey == "" || cfg.API.APIKey == "your-api-key-here" {
		return fmt.Errorf("api.api_key must be set to a valid API key (or %s_API_KEY)", EnvPrefix)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	if cfg.Transport.ConnectTimeout <= 0 {
		return fmt.Errorf("transport.connect_timeout must be positive")
	}

	if cfg.Transport.PoolSize <= 0 {
		return fmt.Errorf("transport.pool_size must be positive")
	}

	if _, err := mywaifulist.ParseRedirectPolicy(cfg.Transport.Redirects); err != nil {
		return fmt.Errorf("invalid transport.redirects: %w", err)
	}

	if _, err := mywaifulist.ParseHTTPVersion(cfg.Transport.HTTPVersion); err != nil {
		return fmt.Errorf("invalid transport.http_version: %w", err)
	}

	if cfg.Transport.Proxy != "" {
		if _, err := url.Parse(cfg.Transport.Proxy); err != nil {
			return fmt.Errorf("invalid transport.proxy: %w", err)
		}
	}

	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be 'table' or 'json')", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// ClientOptions translates the api and transport sections into client options
func (c *Config) ClientOptions() ([]mywaifulist.Option, error) {
	redirects, err := mywaifulist.ParseRedirectPolicy(c.Transport.Redirects)
	if err != nil {
		return nil, err
	}
	version, err := mywaifulist.ParseHTTPVersion(c.Transport.HTTPVersion)
	if err != nil {
		return nil, err
	}

	opts := []mywaifulist.Option{
		mywaifulist.WithBaseURL(c.API.URL),
		mywaifulist.WithTimeout(c.API.Timeout),
		mywaifulist.WithConnectTimeout(c.Transport.ConnectTimeout),
		mywaifulist.WithPoolSize(c.Transport.PoolSize),
		mywaifulist.WithRedirectPolicy(redirects),
		mywaifulist.WithHTTPVersion(version),
	}

	if c.Transport.Proxy != "" {
		proxyURL, err := url.Parse(c.Transport.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid transport.proxy: %w", err)
		}
		opts = append(opts, mywaifulist.WithProxy(http.ProxyURL(proxyURL)))
	}
	if c.Transport.InsecureSkipVerify {
		opts = append(opts, mywaifulist.WithInsecureSkipVerify())
	}
	if c.Transport.UserAgent != "" {
		opts = append(opts, mywaifulist.WithUserAgent(c.Transport.UserAgent))
	}

	return opts, nil
}
