// Package config holds all docsmith configuration, loaded from YAML
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all docsmith configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Question catalog
	Catalog CatalogConfig `yaml:"catalog"`

	// Document output
	Document DocumentConfig `yaml:"document"`

	// Session storage
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig configures where the question catalog lives.
type CatalogConfig struct {
	Path       string `yaml:"path"`
	SchemaPath string `yaml:"schema_path"`
	Watch      bool   `yaml:"watch"`
}

// DocumentConfig configures document assembly.
type DocumentConfig struct {
	Title       string `yaml:"title"`
	TemplateDir string `yaml:"template_dir"`
	OutputPath  string `yaml:"output_path"`
}

// StorageConfig configures session persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "docsmith",
		Version: "1.0",
		Catalog: CatalogConfig{
			Path:       "catalog/questions.yaml",
			SchemaPath: "catalog/tags.yaml",
		},
		Document: DocumentConfig{
			Title:       "Design Document",
			TemplateDir: "templates",
			OutputPath:  "design.md",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(".docsmith", "sessions.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults
// when the file does not exist. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("DOCSMITH_CATALOG"); path != "" {
		c.Catalog.Path = path
	}
	if path := os.Getenv("DOCSMITH_SCHEMA"); path != "" {
		c.Catalog.SchemaPath = path
	}
	if dir := os.Getenv("DOCSMITH_TEMPLATES"); dir != "" {
		c.Document.TemplateDir = dir
	}
	if path := os.Getenv("DOCSMITH_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if level := os.Getenv("DOCSMITH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}
