// Package config provides configuration management for the catalog tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cdeil/astroquery/pkg/cosmology"
)

// Configuration validation errors.
var (
	ErrMissingCatalogURL   = errors.New("catalog.url is required")
	ErrInvalidTimeout      = errors.New("catalog.timeout_sec must be at least 1")
	ErrInvalidMaxSize      = errors.New("catalog.max_size_mb must be at least 1")
	ErrMissingOutputPath   = errors.New("output.path is required")
	ErrInvalidOutputFormat = errors.New("output.format must be one of: json, csv, sqlite")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete catalog tool configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig contains fetch and assembly settings.
type CatalogConfig struct {
	URL          string `yaml:"url"`
	Cosmology    string `yaml:"cosmology"`
	TimeoutSec   int    `yaml:"timeout_sec"`
	MaxSizeMb    int    `yaml:"max_size_mb"`
	IncludeNotes bool   `yaml:"include_notes"`
}

// OutputConfig defines where and how the assembled table is written.
type OutputConfig struct {
	Path        string `yaml:"path"`
	Format      string `yaml:"format"`
	TableName   string `yaml:"table_name"`
	PrettyPrint bool   `yaml:"pretty_print"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level"`
	ShowProgress bool   `yaml:"show_progress"`
}

// DefaultConfig returns a configuration with working defaults for the public
// TeVCat page.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			URL:        "http://tevcat.uchicago.edu/",
			Cosmology:  "Planck18",
			TimeoutSec: 60,
			MaxSizeMb:  32,
		},
		Output: OutputConfig{
			Path:        "data/tevcat.json",
			Format:      "json",
			TableName:   "sources",
			PrettyPrint: true,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ShowProgress: true,
		},
	}
}

// LoadConfig loads configuration from YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Check catalog config
	if c.Catalog.URL == "" {
		return ErrMissingCatalogURL
	}

	if c.Catalog.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Catalog.MaxSizeMb < 1 {
		return ErrInvalidMaxSize
	}

	if c.Catalog.Cosmology != "" {
		if _, err := cosmology.ByName(c.Catalog.Cosmology); err != nil {
			return fmt.Errorf("catalog.cosmology: %w", err)
		}
	}

	// Validate output config
	if c.Output.Path == "" {
		return ErrMissingOutputPath
	}

	switch c.Output.Format {
	case "json", "csv", "sqlite":
	default:
		return ErrInvalidOutputFormat
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetTimeout returns the fetch timeout duration.
func (c *Config) GetTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSec) * time.Second
}

// GetMaxSizeBytes returns the response size cap in bytes.
func (c *Config) GetMaxSizeBytes() int64 {
	return int64(c.Catalog.MaxSizeMb) * 1024 * 1024
}

// GetCosmology returns the configured cosmological model, or the package
// default when the field is empty.
func (c *Config) GetCosmology() (*cosmology.Model, error) {
	if c.Catalog.Cosmology == "" {
		return cosmology.Default(), nil
	}

	return cosmology.ByName(c.Catalog.Cosmology)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{URL: %s, Cosmology: %s, Output: %s (%s)}",
		c.Catalog.URL,
		c.Catalog.Cosmology,
		c.Output.Path,
		c.Output.Format,
	)
}
