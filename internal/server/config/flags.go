package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/soupauth/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     PostgreSQL DSN
//	-m string     store backend: postgres | memory
//	-p string     password scheme: per-user | deployment
//	-salt string  deployment password salt
//	-cost int     bcrypt cost
//	-s string     JWT HMAC secret key
//	-i string     JWT issuer
//	-t int        access token ttl, milliseconds
//	-r int        refresh token ttl, milliseconds
//	-secure bool  mark cookies Secure
//	-log string   log level
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-a", "-d", "-m", "-p", "-salt", "-cost", "-s", "-i", "-t", "-r", "-secure", "-log",
	})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Store, "m", config.Store, "store backend (postgres|memory)")
	fs.StringVar(&config.PasswordScheme, "p", config.PasswordScheme, "password salting scheme (per-user|deployment)")
	fs.StringVar(&config.PasswordSalt, "salt", config.PasswordSalt, "deployment password salt")
	fs.IntVar(&config.BcryptCost, "cost", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT signing secret")
	fs.StringVar(&config.Issuer, "i", config.Issuer, "JWT issuer")
	accessMillis := fs.Int64("t", config.AccessTokenTTL.Milliseconds(), "access token ttl (in milliseconds)")
	refreshMillis := fs.Int64("r", config.RefreshTokenTTL.Milliseconds(), "refresh token ttl (in milliseconds)")
	fs.BoolVar(&config.CookieSecure, "secure", config.CookieSecure, "set Secure on auth cookies")
	fs.StringVar(&config.LogLevel, "log", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.AccessTokenTTL = time.Duration(*accessMillis) * time.Millisecond
	config.RefreshTokenTTL = time.Duration(*refreshMillis) * time.Millisecond
	return nil
}
