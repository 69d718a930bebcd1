package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/pixsteg/config"
	"github.com/spacemeshos/pixsteg/shared"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := config.DefaultConfig()

	require.NoError(t, cfg.Validate())
	require.Equal(t, 10, cfg.Sparseness)
	require.Equal(t, 2, cfg.Greed)
	require.Equal(t, "B", cfg.Channels)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name string
		cfg  config.Config
		err  error
	}{
		{"zero sparseness", config.Config{Sparseness: 0, Greed: 2, Channels: "B"}, shared.ErrInvalidParameter},
		{"negative greed", config.Config{Sparseness: 1, Greed: -1, Channels: "B"}, shared.ErrInvalidGreed},
		{"greed above bit depth", config.Config{Sparseness: 1, Greed: 9, Channels: "B"}, shared.ErrInvalidGreed},
		{"empty selector", config.Config{Sparseness: 1, Greed: 1, Channels: ""}, shared.ErrInvalidChannel},
		{"unknown channel", config.Config{Sparseness: 1, Greed: 1, Channels: "RGX"}, shared.ErrInvalidChannel},
		{"zero greed", config.Config{Sparseness: 1, Greed: 0, Channels: "B"}, nil},
		{"full greed", config.Config{Sparseness: 3, Greed: 8, Channels: "rgba"}, nil},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSelector(t *testing.T) {
	t.Parallel()
	cfg := config.Config{Sparseness: 1, Greed: 1, Channels: "gRbB"}

	selector, err := cfg.Selector()
	require.NoError(t, err)
	require.Equal(t, []shared.Channel{shared.Green, shared.Red, shared.Blue, shared.Blue}, selector)
}
