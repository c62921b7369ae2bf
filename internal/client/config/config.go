// Package config holds the CLI client's settings: defaults, then an
// optional JSON file, then command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the auth CLI.
//
// Fields:
//   - ServerURL: root URL of the auth service, e.g. http://127.0.0.1:8080. No path prefix.
//   - RequestTimeout: per-request timeout of the HTTP client.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		return nil, errors.New("server url is required")
	}
	return cfg, nil
}
