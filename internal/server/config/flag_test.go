package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-m", "memory", "-p", "deployment",
				"-salt", "pepper", "-cost", "12", "-s", "secret", "-i", "soup",
				"-t", "60000", "-r", "180000", "-secure", "-log", "debug",
			},
			expected: &Config{
				ListenAddr:      "127.0.0.1:9090",
				DatabaseDSN:     "db",
				Store:           "memory",
				PasswordScheme:  "deployment",
				PasswordSalt:    "pepper",
				BcryptCost:      12,
				SecretKey:       "secret",
				Issuer:          "soup",
				AccessTokenTTL:  time.Minute,
				RefreshTokenTTL: 3 * time.Minute,
				CookieSecure:    true,
				LogLevel:        "debug",
			},
		},
		{
			name:    "bad integer",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_UnknownFlagsIgnored(t *testing.T) {
	var c Config
	c.LoadDefaults()

	require.NoError(t, parseFlags(&c, []string{"-c", "cfg.json", "-zzz", "1", "-s", "k2"}))
	assert.Equal(t, "k2", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenTTL)
}
