// Package config loads the optional configuration file of the freeport CLI.
//
// Two formats are supported, selected by file extension:
//   - YAML (.yaml / .yml), parsed with gopkg.in/yaml.v3
//   - JSONC (.json / .jsonc), JSON with comments; comments are stripped with
//     github.com/tidwall/jsonc before parsing with encoding/json
//
// The file adjusts the process-wide selection parameters (port bounds for
// range validation, reservation cleanup interval, probe timeout). Every
// field is optional; absent or zero fields keep the Finder's defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	freeport "github.com/xuanhoa88/get-free-port"
)

// Config mirrors the configuration file structure. Durations are expressed
// in milliseconds to keep the file format language-neutral.
type Config struct {
	// MinPort is the lower bound for range validation (default 1024).
	MinPort int `yaml:"min_port" json:"minPort"`

	// MaxPort is the upper bound for range validation (default 65535).
	MaxPort int `yaml:"max_port" json:"maxPort"`

	// CleanupIntervalMS is the reservation lifetime and sweep period in
	// milliseconds (default 15000).
	CleanupIntervalMS int `yaml:"cleanup_interval_ms" json:"cleanupIntervalMs"`

	// TimeoutMS is the per-probe bind timeout in milliseconds
	// (default 1000).
	TimeoutMS int `yaml:"timeout_ms" json:"timeoutMs"`
}

// Load reads and parses the configuration file at path. The format is
// chosen by extension; unknown extensions are rejected rather than guessed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML config: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parse JSONC config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config extension %q (expected .yaml, .yml, .json, .jsonc)", ext)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects values that would make the Finder misbehave. Zero values
// mean "keep the default" and are always accepted.
func (c *Config) validate() error {
	if c.MinPort < 0 || c.MinPort > 65535 {
		return fmt.Errorf("min_port %d out of range (0-65535)", c.MinPort)
	}
	if c.MaxPort < 0 || c.MaxPort > 65535 {
		return fmt.Errorf("max_port %d out of range (0-65535)", c.MaxPort)
	}
	if c.MinPort != 0 && c.MaxPort != 0 && c.MaxPort < c.MinPort {
		return fmt.Errorf("max_port %d must not be below min_port %d", c.MaxPort, c.MinPort)
	}
	if c.CleanupIntervalMS < 0 {
		return fmt.Errorf("cleanup_interval_ms must not be negative")
	}
	if c.TimeoutMS < 0 {
		return fmt.Errorf("timeout_ms must not be negative")
	}
	return nil
}

// Apply copies the configured, non-zero fields onto the Finder.
func (c *Config) Apply(f *freeport.Finder) {
	if c.MinPort != 0 {
		f.MinPort = c.MinPort
	}
	if c.MaxPort != 0 {
		f.MaxPort = c.MaxPort
	}
	if c.CleanupIntervalMS != 0 {
		f.CleanupInterval = time.Duration(c.CleanupIntervalMS) * time.Millisecond
	}
}

// Timeout returns the configured per-probe timeout, or the library default
// when unset.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutMS == 0 {
		return freeport.DefaultTimeout
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
