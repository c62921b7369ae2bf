package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/soupauth/internal/flagx"
)

// JSONConfig is the on-disk shape of the config file. Lifetimes are integer
// milliseconds. Keys that are absent keep whatever value Config already had.
type JSONConfig struct {
	ListenAddr            string `json:"listen_addr"`
	DatabaseDSN           string `json:"database_dsn"`
	Store                 string `json:"store"`
	PasswordScheme        string `json:"password_scheme"`
	DeploymentSalt        string `json:"deployment_salt"`
	BcryptCost            int    `json:"bcrypt_cost"`
	JWTSigningSecret      string `json:"jwt_signing_secret"`
	Issuer                string `json:"issuer"`
	AccessTokenTTLMillis  int64  `json:"access_token_ttl_millis"`
	RefreshTokenTTLMillis int64  `json:"refresh_token_ttl_millis"`
	CookieSecure          bool   `json:"cookie_secure"`
	LogLevel              string `json:"log_level"`
}

// parseJSON overlays the file named by -c / -config onto config. Without the
// flag it does nothing.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := JSONConfig{
		ListenAddr:            config.ListenAddr,
		DatabaseDSN:           config.DatabaseDSN,
		Store:                 config.Store,
		PasswordScheme:        config.PasswordScheme,
		DeploymentSalt:        config.PasswordSalt,
		BcryptCost:            config.BcryptCost,
		JWTSigningSecret:      config.SecretKey,
		Issuer:                config.Issuer,
		AccessTokenTTLMillis:  config.AccessTokenTTL.Milliseconds(),
		RefreshTokenTTLMillis: config.RefreshTokenTTL.Milliseconds(),
		CookieSecure:          config.CookieSecure,
		LogLevel:              config.LogLevel,
	}
	if err := json.Unmarshal(file, &c); err != nil {
		return err
	}

	config.ListenAddr = c.ListenAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.Store = c.Store
	config.PasswordScheme = c.PasswordScheme
	config.PasswordSalt = c.DeploymentSalt
	config.BcryptCost = c.BcryptCost
	config.SecretKey = c.JWTSigningSecret
	config.Issuer = c.Issuer
	config.AccessTokenTTL = time.Duration(c.AccessTokenTTLMillis) * time.Millisecond
	config.RefreshTokenTTL = time.Duration(c.RefreshTokenTTLMillis) * time.Millisecond
	config.CookieSecure = c.CookieSecure
	config.LogLevel = c.LogLevel
	return nil
}
