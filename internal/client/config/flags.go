package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/soupauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the auth service
//	-t int      request timeout in milliseconds
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the auth service")
	timeout := fs.Int64("t", cfg.RequestTimeout.Milliseconds(), "request timeout (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Millisecond
	return nil
}
