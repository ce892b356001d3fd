// Package config loads the navstack.json configuration used by the
// navstack command.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "navstack.json"

	// DefaultAddr is the default bridge listen address.
	DefaultAddr = "localhost:8400"
)

// Config represents the complete navstack.json configuration.
type Config struct {
	// Name is the engine name, used as the stack debug label.
	Name string `json:"name,omitempty"`

	// Addr is the bridge server listen address.
	Addr string `json:"addr,omitempty"`

	// MetricsNamespace is the Prometheus namespace for stack metrics.
	MetricsNamespace string `json:"metricsNamespace,omitempty"`

	// Snapshot configures snapshot persistence.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// SnapshotConfig selects and configures a snapshot store.
type SnapshotConfig struct {
	// Store is "memory" or "s3". Empty disables persistence.
	Store string `json:"store,omitempty"`

	// Bucket is the S3 bucket for the "s3" store.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the S3 key prefix for the "s3" store.
	Prefix string `json:"prefix,omitempty"`

	// Key is the object key the stack snapshot is saved under.
	Key string `json:"key,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Name:             "navstack",
		Addr:             DefaultAddr,
		MetricsNamespace: "navstack",
		Snapshot:         SnapshotConfig{Key: "main"},
	}
}

// Load reads navstack.json from dir, falling back to defaults when the
// file does not exist.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.configPath = path
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.configPath = path

	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return cfg, nil
}

// Save writes the configuration back to the path it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("config: no path to save to")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, append(data, '\n'), 0o644)
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string { return c.configPath }
