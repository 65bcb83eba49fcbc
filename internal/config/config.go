// internal/config/config.go

// Package config loads and validates run configuration from YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full run configuration.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Workers    int              `yaml:"workers"`
	Store      StoreConfig      `yaml:"store"`
	Redis      RedisConfig      `yaml:"redis"`
	Export     ExportConfig     `yaml:"export"`
	Debug      DebugConfig      `yaml:"debug"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	LogLevel   string           `yaml:"log_level"`
}

// InputConfig names the lead feed.
type InputConfig struct {
	CSV string `yaml:"csv"`
}

// FetchConfig tunes the fetch layer.
type FetchConfig struct {
	Mode              string        `yaml:"mode"` // http or browser
	Timeout           time.Duration `yaml:"timeout"`
	ProxyEndpoint     string        `yaml:"proxy_endpoint"`
	AllowedDomain     string        `yaml:"allowed_domain"`
	SearchBase        string        `yaml:"search_base"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	UserAgents        []string      `yaml:"user_agents"`
	PhoneBlacklist    []string      `yaml:"phone_blacklist"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend    string `yaml:"backend"` // postgres, mysql, sqlite, mongodb, memory
	DSN        string `yaml:"dsn"`
	Table      string `yaml:"table"`
	Database   string `yaml:"database"`   // mongodb only
	Collection string `yaml:"collection"` // mongodb only
}

// RedisConfig configures the distributed job queue.
type RedisConfig struct {
	Addr       string        `yaml:"addr"`
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	Key        string        `yaml:"key"`
	PopTimeout time.Duration `yaml:"pop_timeout"`
}

// ExportConfig names the post-run export artifacts.
type ExportConfig struct {
	CSV   string `yaml:"csv"`
	Excel string `yaml:"excel"`
	Sheet string `yaml:"sheet"`
}

// DebugConfig controls the page sampler.
type DebugConfig struct {
	Dir     string `yaml:"dir"`
	Samples int    `yaml:"samples"`
}

// MonitoringConfig controls the metrics endpoint.
type MonitoringConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	cfg, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

// LoadReader reads configuration from a reader.
func LoadReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses YAML configuration. Environment variable references in
// the document are expanded before parsing, so secrets can come from the
// environment.
func LoadBytes(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied and no input
// or persistence wired.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 8
	}
	if c.Fetch.Mode == "" {
		c.Fetch.Mode = "http"
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 90 * time.Second
	}
	if c.Fetch.RetryAttempts <= 0 {
		c.Fetch.RetryAttempts = 3
	}
	if c.Fetch.RetryDelay <= 0 {
		c.Fetch.RetryDelay = time.Second
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if c.Store.Table == "" {
		c.Store.Table = "leads"
	}
	if c.Redis.PopTimeout <= 0 {
		c.Redis.PopTimeout = 10 * time.Second
	}
	if c.Export.Sheet == "" {
		c.Export.Sheet = "Leads"
	}
	if c.Debug.Samples <= 0 {
		c.Debug.Samples = 5
	}
	if c.Monitoring.Listen == "" {
		c.Monitoring.Listen = ":9090"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

var validBackends = map[string]bool{
	"postgres": true,
	"mysql":    true,
	"sqlite":   true,
	"mongodb":  true,
	"memory":   true,
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.Fetch.Mode != "http" && c.Fetch.Mode != "browser" {
		return fmt.Errorf("unknown fetch mode %q", c.Fetch.Mode)
	}
	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend != "memory" && c.Store.Backend != "mongodb" && c.Store.DSN == "" {
		return fmt.Errorf("store backend %q requires a dsn", c.Store.Backend)
	}
	if c.Store.Backend == "mongodb" {
		if c.Store.DSN == "" {
			return fmt.Errorf("mongodb backend requires a connection uri in dsn")
		}
		if c.Store.Database == "" {
			return fmt.Errorf("mongodb backend requires a database name")
		}
	}
	if c.Fetch.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second cannot be negative")
	}
	return nil
}
