package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{InputRate: 44100, OutputRate: 48000, Channels: 2, Kind: CubicHermite}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"zero input rate", func(c *Config) { c.InputRate = 0 }, ErrInvalidConfig},
		{"negative output rate", func(c *Config) { c.OutputRate = -1 }, ErrInvalidConfig},
		{"no channels", func(c *Config) { c.Channels = 0 }, ErrInvalidConfig},
		{"too many channels", func(c *Config) { c.Channels = 257 }, ErrInvalidConfig},
		{"max channels", func(c *Config) { c.Channels = 256 }, nil},
		{"ratio too high", func(c *Config) { c.OutputRate = c.InputRate * 300 }, ErrInvalidConfig},
		{"ratio too low", func(c *Config) { c.OutputRate = c.InputRate / 300 }, ErrInvalidConfig},
		{"unknown kind", func(c *Config) { c.Kind = Kind(77) }, ErrInvalidConfig},
		{"negative block size", func(c *Config) { c.BlockSize = -1 }, ErrInvalidConfig},
		{"bad coefficients", func(c *Config) {
			c.Coefficients = &CoefficientList{Stepping: 0, Coefficients: []float64{1, 0}}
		}, ErrInvalidCoefficients},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestConfig_Ratio(t *testing.T) {
	cfg := Config{InputRate: 96000, OutputRate: 48000}
	assert.InDelta(t, 2.0, cfg.Ratio(), 0)
}

func TestNewFromConfig(t *testing.T) {
	r, err := NewFromConfig[float32](&Config{
		InputRate:  48000,
		OutputRate: 44100,
		Channels:   6,
		Kind:       Sinc,
		Quality:    QualityBest,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, r.NumChannels())
	assert.InDelta(t, 48000.0/44100.0, r.Ratio(), 1e-15)
	assert.Same(t, DefaultCoefficients(QualityBest), r.kernel.Table())

	_, err = NewFromConfig[float64](nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewFromConfig[float64](&Config{InputRate: 1, OutputRate: 1})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewFromConfig_CustomCoefficients(t *testing.T) {
	table := &CoefficientList{Stepping: 2, Coefficients: []float64{1, 0.6, 0, -0.1, 0}}
	r, err := NewFromConfig[float64](&Config{
		InputRate:    44100,
		OutputRate:   44100,
		Channels:     1,
		Kind:         Sinc,
		Quality:      QualityFastest,
		Coefficients: table,
	})
	require.NoError(t, err)
	assert.Same(t, table, r.kernel.Table())
}

func TestParseKind_RoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}
