package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/soupauth/internal/flagx"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// integer milliseconds.
type JSONConfig struct {
	ServerURL            string `json:"server_url"`
	RequestTimeoutMillis int64  `json:"request_timeout_millis"`
}

// parseJSON overlays cfg with the file named by -c/-config. Keys missing from
// the file keep their current values.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	jc := JSONConfig{
		ServerURL:            cfg.ServerURL,
		RequestTimeoutMillis: cfg.RequestTimeout.Milliseconds(),
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cfg.ServerURL = jc.ServerURL
	cfg.RequestTimeout = time.Duration(jc.RequestTimeoutMillis) * time.Millisecond
	return nil
}
