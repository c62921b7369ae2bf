package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "Test1 OK", args: []string{"-a", "http://127.0.0.1:9090", "-t", "2500"}, expectErr: false,
			expected: &Config{ServerURL: "http://127.0.0.1:9090", RequestTimeout: 2500 * time.Millisecond}},
		{name: "Test2 foreign flags ignored", args: []string{"-x", "1", "-a=http://h:1"}, expectErr: false,
			expected: &Config{ServerURL: "http://h:1", RequestTimeout: 0}},
		{name: "Test3 incorrect timeout", args: []string{"-a", "http://127.0.0.1:9090", "-t", "abc"}, expectErr: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			err := parseFlags(config, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
