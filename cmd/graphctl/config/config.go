// Package config handles graphctl configuration via environment variables
// and an optional YAML overlay file.
//
// Configuration is organized the same way nornicdb's server config is:
// env vars carry sane defaults, a YAML file (GRAPHCTL_CONFIG_FILE or
// --config) can override any of them, and Validate() catches
// inconsistent combinations before a command runs.
//
// Example Usage:
//
//	cfg := config.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
//
// Environment Variables:
//   - GRAPHCTL_DATA_DIR       data directory for the badger backend
//   - GRAPHCTL_BACKEND        "memory", "concurrent", or "badger"
//   - GRAPHCTL_LOG_LEVEL      DEBUG, INFO, WARN, ERROR
//   - GRAPHCTL_LOG_FORMAT     text or json
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend selects which storage.Storage implementation graphctl opens.
type Backend string

const (
	BackendMemory     Backend = "memory"
	BackendConcurrent Backend = "concurrent"
	BackendBadger     Backend = "badger"
)

// Config holds all graphctl configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig controls which backend graphctl opens and where it persists.
type StorageConfig struct {
	// Backend selects the storage.Storage implementation.
	Backend Backend `yaml:"backend"`
	// DataDir is where the badger backend keeps its files. Ignored by
	// the memory and concurrent backends.
	DataDir string `yaml:"dataDir"`
}

// LoggingConfig mirrors nornicdb's logging section, trimmed to what a CLI
// tool needs.
type LoggingConfig struct {
	// Level (DEBUG, INFO, WARN, ERROR)
	Level string `yaml:"level"`
	// Format (text, json)
	Format string `yaml:"format"`
}

// LoadFromEnv loads configuration from environment variables, applying
// defaults where a variable is unset.
func LoadFromEnv() *Config {
	cfg := &Config{
		Storage: StorageConfig{
			Backend: Backend(envOr("GRAPHCTL_BACKEND", string(BackendMemory))),
			DataDir: envOr("GRAPHCTL_DATA_DIR", "./graphctl-data"),
		},
		Logging: LoggingConfig{
			Level:  envOr("GRAPHCTL_LOG_LEVEL", "INFO"),
			Format: envOr("GRAPHCTL_LOG_FORMAT", "text"),
		},
	}
	if path := os.Getenv("GRAPHCTL_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			// Non-fatal: env defaults still apply. Validate() is the
			// place callers check for a usable config.
			fmt.Fprintf(os.Stderr, "graphctl: config file %s: %v\n", path, err)
		}
	}
	return cfg
}

// mergeFile overlays YAML values from path on top of cfg's current
// (env-derived) values. Only fields present in the file are touched.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	if overlay.Storage.Backend != "" {
		c.Storage.Backend = overlay.Storage.Backend
	}
	if overlay.Storage.DataDir != "" {
		c.Storage.DataDir = overlay.Storage.DataDir
	}
	if overlay.Logging.Level != "" {
		c.Logging.Level = overlay.Logging.Level
	}
	if overlay.Logging.Format != "" {
		c.Logging.Format = overlay.Logging.Format
	}
	return nil
}

// Validate checks that the config describes a usable combination of
// settings.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendConcurrent, BackendBadger:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendBadger && c.Storage.DataDir == "" {
		return fmt.Errorf("config: badger backend requires a data directory")
	}
	switch strings.ToUpper(c.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Logging.Level)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
