// Package config holds the analyzer settings shared by the CLI commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Output formats understood by the CLI.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the analyzer configuration.
type Config struct {
	LogLevel       string `toml:"log_level" yaml:"log_level"`
	Format         string `toml:"format" yaml:"format"`
	Color          bool   `toml:"color" yaml:"color"`
	Tokens         bool   `toml:"tokens" yaml:"tokens"`
	MaxDiagnostics int    `toml:"max_diagnostics" yaml:"max_diagnostics"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Format:   FormatText,
		Color:    true,
	}
}

// Load reads a configuration file on top of the defaults. Files ending in
// .yaml or .yml are YAML, everything else is TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("format: unknown output format %q", c.Format)
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("max_diagnostics: must not be negative, got %d", c.MaxDiagnostics)
	}
	return nil
}
