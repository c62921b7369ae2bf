package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON_SourcesAndPrecedence(t *testing.T) {
	full := writeTempJSON(t, map[string]any{
		"listen_addr":              "www.example:9000",
		"database_dsn":             "postgres://x",
		"store":                    "memory",
		"password_scheme":          "deployment",
		"deployment_salt":          "pepper",
		"bcrypt_cost":              11,
		"jwt_signing_secret":       "my_secret_key",
		"issuer":                   "soup",
		"access_token_ttl_millis":  900000,
		"refresh_token_ttl_millis": 2592000000,
		"cookie_secure":            true,
		"log_level":                "warn",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJSON(cfg, []string{"-config", full}))

		assert.Equal(t, "www.example:9000", cfg.ListenAddr)
		assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
		assert.Equal(t, "memory", cfg.Store)
		assert.Equal(t, "deployment", cfg.PasswordScheme)
		assert.Equal(t, "pepper", cfg.PasswordSalt)
		assert.Equal(t, 11, cfg.BcryptCost)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, "soup", cfg.Issuer)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"jwt_signing_secret": "other"})

		var cfg Config
		cfg.LoadDefaults()
		require.NoError(t, parseJSON(&cfg, []string{"-c", partial}))

		assert.Equal(t, "other", cfg.SecretKey)
		assert.Equal(t, ":8080", cfg.ListenAddr)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := &Config{ListenAddr: "defaults:1234", SecretKey: "key"}
		require.NoError(t, parseJSON(cfg, []string{"-s", "x"}))

		assert.Equal(t, "defaults:1234", cfg.ListenAddr)
		assert.Equal(t, "key", cfg.SecretKey)
	})

	t.Run("flags override json", func(t *testing.T) {
		cfg, err := LoadConfig([]string{"-c", full, "-s", "from-flag"})
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.SecretKey)
		assert.Equal(t, "www.example:9000", cfg.ListenAddr)
	})

	t.Run("invalid JSON errors", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Error(t, parseJSON(&Config{}, []string{"-c", bad}))
	})

	t.Run("missing file errors", func(t *testing.T) {
		require.Error(t, parseJSON(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})
}
