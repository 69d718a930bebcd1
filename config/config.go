package config

import (
	"fmt"

	"github.com/spacemeshos/pixsteg/shared"
)

const (
	MinSparseness = 1
	MinGreed      = 0

	// MaxBitDepth is the channel bit depth of the rasters the codec supports.
	MaxBitDepth = 8
)

const (
	DefaultSparseness = 10
	DefaultGreed      = 2
	DefaultChannels   = "B"
)

// Config holds the embedding parameters. Embedder and extractor must use
// identical values; a mismatch yields garbage, not an error.
type Config struct {
	// Sparseness is the pixel stride in both axes.
	Sparseness int `mapstructure:"sparseness"`
	// Greed is the number of low-order bits overwritten in every visited channel.
	Greed int `mapstructure:"greed"`
	// Channels is the channel selector, e.g. "B" or "GRB". Order and repetitions matter.
	Channels string `mapstructure:"channels"`
}

func DefaultConfig() *Config {
	return &Config{
		Sparseness: DefaultSparseness,
		Greed:      DefaultGreed,
		Channels:   DefaultChannels,
	}
}

// Validate checks the parameters independently of any raster.
func (cfg *Config) Validate() error {
	if cfg.Sparseness < MinSparseness {
		return fmt.Errorf("%w `Sparseness`; expected: >= %d, given: %d", shared.ErrInvalidParameter, MinSparseness, cfg.Sparseness)
	}

	if cfg.Greed < MinGreed || cfg.Greed > MaxBitDepth {
		return shared.GreedError{Greed: cfg.Greed, BitDepth: MaxBitDepth}
	}

	if _, err := cfg.Selector(); err != nil {
		return err
	}

	return nil
}

// Selector returns the parsed channel selector.
func (cfg *Config) Selector() ([]shared.Channel, error) {
	return shared.ParseChannels(cfg.Channels)
}

func (cfg *Config) String() string {
	return fmt.Sprintf("sparseness=%d greed=%d channels=%s", cfg.Sparseness, cfg.Greed, cfg.Channels)
}
