package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/s0up4200/engage/engage"
	"github.com/s0up4200/engage/lang"
)

// DefaultBatchConcurrency is the number of concurrent map calls in a batch
const DefaultBatchConcurrency = 5

// Load loads the configuration from file and environment.
// Without an explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, err
	}

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
			v.AddConfigPath(filepath.Join(home, ".engage"))
		}

		// Check /etc
		v.AddConfigPath("/etc/engage/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
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

// bindEnv maps the environment variables that override file settings
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"engage.api_key":  "ENGAGE_API_KEY",
		"engage.base_url": "ENGAGE_BASE_URL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Engage defaults
	v.SetDefault("engage.base_url", engage.DefaultBaseURL)

	// HTTP defaults
	v.SetDefault("http.timeout", engage.DefaultTimeout)
	v.SetDefault("http.user_agent", engage.DefaultUserAgent)
	v.SetDefault("http.keep_alive", true)
	v.SetDefault("http.max_redirects", 0)

	v.SetDefault("language.default", lang.DefaultLanguage)
	v.SetDefault("batch.concurrency", DefaultBatchConcurrency)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid. The API key is checked
// separately by RequireAPIKey since not every command needs one.
func validate(cfg *Config) error {
	if cfg.Engage.BaseURL == "" {
		return fmt.Errorf("engage.base_url is required")
	}
	if !strings.HasSuffix(cfg.Engage.BaseURL, "/") {
		return fmt.Errorf("engage.base_url must end with a slash: %s", cfg.Engage.BaseURL)
	}

	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if cfg.HTTP.MaxRedirects < 0 {
		return fmt.Errorf("http.max_redirects must not be negative")
	}

	if !lang.IsSupported(cfg.Language.Default) {
		return fmt.Errorf("unsupported language.default: %s", cfg.Language.Default)
	}

	if cfg.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1")
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

// RequireAPIKey reports an error when no usable API key is configured
func (c *Config) RequireAPIKey() error {
	if c.Engage.APIKey == "" || c.Engage.APIKey == "your-api-key-here" {
		return fmt.Errorf("engage.api_key must be set to a valid API key (or ENGAGE_API_KEY)")
	}
	return nil
}

// NewClient builds an Engage client from the configuration
func (c *Config) NewClient(logger zerolog.Logger) (*engage.Client, error) {
	if err := c.RequireAPIKey(); err != nil {
		return nil, err
	}
	return engage.NewClient(c.Engage.APIKey, logger, c.ClientOptions()...)
}

// ClientOptions converts the transport settings into client options
func (c *Config) ClientOptions() []engage.Option {
	return []engage.Option{
		engage.WithBaseURL(c.Engage.BaseURL),
		engage.WithTimeout(c.HTTP.Timeout),
		engage.WithUserAgent(c.HTTP.UserAgent),
		engage.WithKeepAlive(c.HTTP.KeepAlive),
		engage.WithMaxRedirects(c.HTTP.MaxRedirects),
	}
}
