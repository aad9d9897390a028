// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads client configuration for pfetrack.
//
// Configuration comes from a single YAML file specified by the
// PFETRACK_CONFIG environment variable or a --config flag. When
// neither is set, built-in defaults apply — unlike server deployments,
// a portal client must work out of the box against the default server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultServerURL is used when no config file overrides it.
const DefaultServerURL = "http://localhost:8080/api"

// DefaultRequestTimeout bounds every portal request. Treating a slow
// server as a transport failure is preferable to a hung CLI.
const DefaultRequestTimeout = 30 * time.Second

// Duration wraps time.Duration so YAML can carry human-readable values
// like "30s" or "2m" (yaml.v3 has no native duration support).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler via time.ParseDuration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar like \"30s\"")
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the client configuration.
type Config struct {
	// ServerURL is the base URL of the portal API, including any path
	// prefix (e.g., "https://portal.example.edu/api").
	ServerURL string `yaml:"server_url"`

	// RequestTimeout is the per-request timeout. Zero means
	// DefaultRequestTimeout.
	RequestTimeout Duration `yaml:"request_timeout"`

	// SessionFile overrides the session record location. Empty means
	// the well-known path (see the session package).
	SessionFile string `yaml:"session_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		RequestTimeout: Duration(DefaultRequestTimeout),
	}
}

// Load resolves configuration: an explicit path wins, then the
// PFETRACK_CONFIG environment variable, then built-in defaults.
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv("PFETRACK_CONFIG")
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific YAML file, merged over
// the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = Duration(DefaultRequestTimeout)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	parsed, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url %q: %w", c.ServerURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server_url %q must use http or https", c.ServerURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return nil
}
