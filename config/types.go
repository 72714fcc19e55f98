package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Engage   EngageConfig   `mapstructure:"engage"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Language LanguageConfig `mapstructure:"language"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// EngageConfig holds Engage API connection details
type EngageConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// HTTPConfig contains transport settings passed to the client
type HTTPConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	KeepAlive    bool          `mapstructure:"keep_alive"`
	MaxRedirects int           `mapstructure:"max_redirects"`
}

// LanguageConfig contains locale matching settings
type LanguageConfig struct {
	Default string `mapstructure:"default"`
}

// BatchConfig contains settings for batch mapping
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
