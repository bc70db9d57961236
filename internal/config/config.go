// Package config loads retailmetrics settings from a YAML file and
// RETAILMETRICS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// DefaultSourceURI is the public trips feed the metrics were defined against.
const DefaultSourceURI = "https://s3.amazonaws.com/isc-isc/trips_gdrive.csv"

// Config represents the complete application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig locates the transaction feed.
type SourceConfig struct {
	URI     string        `mapstructure:"uri"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig controls the SQLite snapshot cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	DBPath  string        `mapstructure:"db_path"`
	MaxAge  time.Duration `mapstructure:"max_age"` // 0 = snapshots never expire
}

// DatasetConfig controls record parsing.
type DatasetConfig struct {
	DateLayouts []string `mapstructure:"date_layouts"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Dir returns the retailmetrics config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/retailmetrics if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "retailmetrics"), nil
}

// DefaultPath returns {Dir}/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads configuration from path and environment variables. A missing
// file is not an error: defaults and environment still apply. An empty path
// means DefaultPath.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RETAILMETRICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Cache.DBPath == "" {
		p, err := defaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.Cache.DBPath = p
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.uri", DefaultSourceURI)
	v.SetDefault("source.timeout", "60s")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.db_path", "")
	v.SetDefault("cache.max_age", "24h")

	v.SetDefault("dataset.date_layouts", transactions.DefaultDateLayouts)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
}

// defaultDBPath returns ~/.retailmetrics/cache.db, creating the directory.
func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".retailmetrics")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create retailmetrics directory: %w", err)
	}

	return filepath.Join(dir, "cache.db"), nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Source.URI == "" {
		return fmt.Errorf("source.uri is required")
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}

	if c.Cache.Enabled && c.Cache.DBPath == "" {
		return fmt.Errorf("cache.db_path is required when cache is enabled")
	}
	if c.Cache.MaxAge < 0 {
		return fmt.Errorf("cache.max_age must not be negative")
	}

	if len(c.Dataset.DateLayouts) == 0 {
		return fmt.Errorf("dataset.date_layouts must contain at least one layout")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
