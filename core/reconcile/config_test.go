package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() Config {
	return Config{
		Replace:          true,
		Duplicates:       "last-wins",
		Tolerance:        1e-6,
		MinLength:        1e-9,
		LocalBelow:       4,
		TypeMin:          1,
		TypeMax:          2,
		TypeDefault:      1,
		DirectionMin:     1,
		DirectionMax:     11,
		DirectionDefault: 10,
	}
}

func TestConfig_Options(t *testing.T) {
	opts, err := defaultConfig().Options()
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestConfig_EmptyDuplicatesDefaultsToLastWins(t *testing.T) {
	cfg := defaultConfig()
	cfg.Duplicates = ""

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, DuplicatesLastWins, opts.Duplicates)
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "unknown policy", mutate: func(c *Config) { c.Duplicates = "newest" }, field: "duplicates"},
		{name: "default outside type range", mutate: func(c *Config) { c.TypeDefault = 5 }, field: "type"},
		{name: "inverted direction range", mutate: func(c *Config) { c.DirectionMin = 12 }, field: "direction"},
		{name: "negative tolerance", mutate: func(c *Config) { c.Tolerance = -1 }, field: "tolerance"},
		{name: "negative min length", mutate: func(c *Config) { c.MinLength = -1 }, field: "min_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)

			_, err := cfg.Options()
			require.ErrorIs(t, err, ErrConfiguration)
			var cerr *ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}
