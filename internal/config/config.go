package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig holds crawl engine and fetcher settings.
type CrawlerConfig struct {
	// Workers is the fixed size of the concurrent worker pool.
	Workers int `mapstructure:"workers"`

	// MaxPages caps how many URLs are admitted over the whole crawl.
	// 0 disables the cap.
	MaxPages int `mapstructure:"max_pages"`

	// Timeout applies to each individual fetch.
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxElapsed bounds the whole crawl's wall-clock time. 0 disables it.
	MaxElapsed time.Duration `mapstructure:"max_elapsed"`

	// RequestsPerSecond throttles outgoing fetches. 0 disables throttling.
	RequestsPerSecond int `mapstructure:"requests_per_second"`

	UserAgent string `mapstructure:"user_agent"`
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"` // "json" or "csv"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from file and environment. A missing config
// file is not an error; defaults and env vars apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.linkmapper")
	}

	setDefaults(v)

	v.SetEnvPrefix("LINKMAPPER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.workers", 8)
	v.SetDefault("crawler.max_pages", 0)
	v.SetDefault("crawler.timeout", "10s")
	v.SetDefault("crawler.max_elapsed", "10m")
	v.SetDefault("crawler.requests_per_second", 0)
	v.SetDefault("crawler.user_agent", "linkmapper/1.0")

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", "json")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Crawler.Workers <= 0 {
		return fmt.Errorf("crawler.workers must be positive")
	}
	if c.Crawler.MaxPages < 0 {
		return fmt.Errorf("crawler.max_pages must not be negative")
	}
	if c.Crawler.Timeout <= 0 {
		return fmt.Errorf("crawler.timeout must be positive")
	}
	if c.Crawler.RequestsPerSecond < 0 {
		return fmt.Errorf("crawler.requests_per_second must not be negative")
	}
	if c.Output.Format != "json" && c.Output.Format != "csv" {
		return fmt.Errorf("output.format must be json or csv, got %q", c.Output.Format)
	}
	return nil
}
