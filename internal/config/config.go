// Package config provides configuration management for benchtrack.
//
// Config file locations (priority order):
//  1. $BENCHTRACK_CONFIG
//  2. ./benchtrack.yaml
//  3. ~/.config/benchtrack/config.yaml
//  4. /etc/benchtrack/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Export   ExportConfig   `yaml:"export"`
	Library  LibraryConfig  `yaml:"library"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig holds defaults for dataset exports.
type ExportConfig struct {
	DefaultFormat string `yaml:"default_format"`
	OutputDir     string `yaml:"output_dir"`
}

// LibraryConfig holds the material-library settings. Categories are a
// plain JSON list persisted outside the database.
type LibraryConfig struct {
	CategoriesPath string `yaml:"categories_path"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./benchtrack.db"
	}
	if c.Export.DefaultFormat == "" {
		c.Export.DefaultFormat = "json"
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "./exports"
	}
	if c.Library.CategoriesPath == "" {
		c.Library.CategoriesPath = "./material_categories.json"
	}
}
