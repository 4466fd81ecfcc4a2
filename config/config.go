// Package config loads and validates the tracker configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete tracker configuration.
type Config struct {
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
	API     APIConfig     `json:"api" yaml:"api"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LedgerConfig locates the local ledger database.
type LedgerConfig struct {
	Path string `json:"path" yaml:"path"`
}

// APIConfig configures the CoinGecko client.
type APIConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Key     string `json:"key,omitempty" yaml:"key,omitempty"`
}

// CacheConfig sets the price cache TTLs as duration strings
// (e.g. "30s", "5m").
type CacheConfig struct {
	LiveTTL    string `json:"live_ttl" yaml:"live_ttl"`
	HistoryTTL string `json:"history_ttl" yaml:"history_ttl"`
}

// LiveTTLDuration parses the live price TTL.
func (c CacheConfig) LiveTTLDuration() (time.Duration, error) {
	return time.ParseDuration(c.LiveTTL)
}

// HistoryTTLDuration parses the history TTL.
func (c CacheConfig) HistoryTTLDuration() (time.Duration, error) {
	return time.ParseDuration(c.HistoryTTL)
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // trace..panic (logrus levels)
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML (for .yaml/.yml paths)
// or pretty-printed JSON.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for usability.
func (c *Config) Validate() error {
	if c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required")
	}
	if _, err := c.Cache.LiveTTLDuration(); err != nil {
		return fmt.Errorf("cache.live_ttl: %w", err)
	}
	if _, err := c.Cache.HistoryTTLDuration(); err != nil {
		return fmt.Errorf("cache.history_ttl: %w", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", c.Logging.Format)
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Path: "./cryptofolio.db",
		},
		Cache: CacheConfig{
			LiveTTL:    "30s",
			HistoryTTL: "5m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
