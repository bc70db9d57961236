package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if dir != "/tmp/xdg/retailmetrics" {
		t.Errorf("Dir() = %q, want /tmp/xdg/retailmetrics", dir)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source.URI != DefaultSourceURI {
		t.Errorf("Source.URI = %q, want default", cfg.Source.URI)
	}
	if cfg.Source.Timeout != 60*time.Second {
		t.Errorf("Source.Timeout = %v, want 60s", cfg.Source.Timeout)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should default to true")
	}
	if cfg.Cache.MaxAge != 24*time.Hour {
		t.Errorf("Cache.MaxAge = %v, want 24h", cfg.Cache.MaxAge)
	}
	if filepath.Base(cfg.Cache.DBPath) != "cache.db" {
		t.Errorf("Cache.DBPath = %q, want .../cache.db", cfg.Cache.DBPath)
	}
	if len(cfg.Dataset.DateLayouts) == 0 {
		t.Error("Dataset.DateLayouts should have defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
source:
  uri: ./data/trips.csv
  timeout: 5s
cache:
  enabled: false
  db_path: /tmp/rm.db
  max_age: 0s
dataset:
  date_layouts: ["2006-01-02"]
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source.URI != "./data/trips.csv" {
		t.Errorf("Source.URI = %q", cfg.Source.URI)
	}
	if cfg.Source.Timeout != 5*time.Second {
		t.Errorf("Source.Timeout = %v", cfg.Source.Timeout)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	if cfg.Cache.DBPath != "/tmp/rm.db" {
		t.Errorf("Cache.DBPath = %q", cfg.Cache.DBPath)
	}
	if cfg.Cache.MaxAge != 0 {
		t.Errorf("Cache.MaxAge = %v, want 0", cfg.Cache.MaxAge)
	}
	if len(cfg.Dataset.DateLayouts) != 1 {
		t.Errorf("Dataset.DateLayouts = %v", cfg.Dataset.DateLayouts)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RETAILMETRICS_SOURCE_URI", "gs://bucket/trips.csv")
	t.Setenv("RETAILMETRICS_LOGGING_LEVEL", "error")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source.URI != "gs://bucket/trips.csv" {
		t.Errorf("Source.URI = %q, want env override", cfg.Source.URI)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want env override", cfg.Logging.Level)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "source: [unterminated")

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Source:  SourceConfig{URI: "trips.csv", Timeout: time.Second},
			Cache:   CacheConfig{Enabled: true, DBPath: "cache.db"},
			Dataset: DatasetConfig{DateLayouts: []string{"2006-01-02"}},
			Logging: LoggingConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty uri", func(c *Config) { c.Source.URI = "" }},
		{"zero timeout", func(c *Config) { c.Source.Timeout = 0 }},
		{"cache without path", func(c *Config) { c.Cache.DBPath = "" }},
		{"negative max age", func(c *Config) { c.Cache.MaxAge = -time.Second }},
		{"no layouts", func(c *Config) { c.Dataset.DateLayouts = nil }},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}
