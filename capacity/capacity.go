// Package capacity computes how many payload bits a raster can carry for a
// given set of embedding parameters, and how wide the length header is.
package capacity

import (
	"fmt"
	"slices"

	"github.com/spacemeshos/pixsteg/config"
	"github.com/spacemeshos/pixsteg/internal/grid"
	"github.com/spacemeshos/pixsteg/raster"
	"github.com/spacemeshos/pixsteg/shared"
)

// MaxBits returns floor(width/sparseness) * floor(height/sparseness) * greed * channelCount.
func MaxBits(width, height, sparseness, greed, channelCount, bitDepth int) (uint64, error) {
	if sparseness < config.MinSparseness {
		return 0, fmt.Errorf("%w `Sparseness`; expected: >= %d, given: %d", shared.ErrInvalidParameter, config.MinSparseness, sparseness)
	}
	if greed < config.MinGreed || greed > bitDepth {
		return 0, fmt.Errorf("%w `Greed`; expected: 0..%d, given: %d", shared.ErrInvalidParameter, bitDepth, greed)
	}
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w dimensions; expected: non-negative, given: %dx%d", shared.ErrInvalidParameter, width, height)
	}
	if channelCount < 1 {
		return 0, fmt.Errorf("%w channel count; expected: >= 1, given: %d", shared.ErrInvalidParameter, channelCount)
	}

	cols, rows := uint64(width/sparseness), uint64(height/sparseness)
	if shared.Uint64MulOverflow(cols, rows) {
		return 0, fmt.Errorf("%w: %dx%d cells exceed the range allowed by uint64", shared.ErrInvalidParameter, cols, rows)
	}
	cells := cols * rows
	perCell := uint64(greed) * uint64(channelCount)
	if shared.Uint64MulOverflow(cells, perCell) {
		return 0, fmt.Errorf("%w: capacity of %d cells with %d bits each exceeds the range allowed by uint64",
			shared.ErrInvalidParameter, cells, perCell)
	}
	return cells * perCell, nil
}

// HeaderWidth returns the number of bits needed to write maxBits in binary, at least 1.
func HeaderWidth(maxBits uint64) int {
	return shared.NumBits(maxBits)
}

// Report is the capacity of a raster under a given config.
type Report struct {
	Width  int
	Height int

	Selector []shared.Channel
	Greed    int

	// Visits is the number of coordinates the traversal visits. It can exceed
	// the number of cells counted by MaxBits when a dimension isn't a
	// multiple of the sparseness.
	Visits uint64
	// MaxBits is the capacity declared by the header.
	MaxBits     uint64
	HeaderWidth int
	// PhysicalBits is the number of channel bits the traversal can write.
	PhysicalBits uint64
}

// Usable returns the largest payload, in bits, that round-trips exactly.
func (r *Report) Usable() uint64 {
	hw := uint64(r.HeaderWidth)
	if r.PhysicalBits <= hw {
		return 0
	}
	return min(r.MaxBits, r.PhysicalBits-hw)
}

// Compute checks cfg against the raster and reports its capacity.
//
// It fails with ErrUnsupportedFormat if the raster isn't an 8-bit RGB or RGBA
// one, ErrInvalidGreed if the greed exceeds the channel bit depth,
// ErrInvalidParameter if the sparseness is below 1 and ErrInvalidChannel
// if the selector names a channel the raster doesn't carry.
func Compute(r raster.Raster, cfg config.Config) (*Report, error) {
	if err := checkFormat(r); err != nil {
		return nil, err
	}

	if cfg.Greed < config.MinGreed || cfg.Greed > r.BitDepth() {
		return nil, shared.GreedError{Greed: cfg.Greed, BitDepth: r.BitDepth()}
	}

	if cfg.Sparseness < config.MinSparseness {
		return nil, fmt.Errorf("%w `Sparseness`; expected: >= %d, given: %d", shared.ErrInvalidParameter, config.MinSparseness, cfg.Sparseness)
	}

	selector, err := cfg.Selector()
	if err != nil {
		return nil, err
	}
	if err := shared.ContainsChannels(r.Channels(), selector); err != nil {
		return nil, err
	}

	width, height := r.Bounds()
	maxBits, err := MaxBits(width, height, cfg.Sparseness, cfg.Greed, len(selector), r.BitDepth())
	if err != nil {
		return nil, err
	}

	visits := grid.Visits(width, height, cfg.Sparseness)
	return &Report{
		Width:        width,
		Height:       height,
		Selector:     selector,
		Greed:        cfg.Greed,
		Visits:       visits,
		MaxBits:      maxBits,
		HeaderWidth:  HeaderWidth(maxBits),
		PhysicalBits: visits * uint64(cfg.Greed) * uint64(len(selector)),
	}, nil
}

func checkFormat(r raster.Raster) error {
	if r.BitDepth() != config.MaxBitDepth {
		return fmt.Errorf("%w: %d-bit channels; expected: %d-bit", shared.ErrUnsupportedFormat, r.BitDepth(), config.MaxBitDepth)
	}

	channels := r.Channels()
	if !slices.Equal(channels, shared.RGB) && !slices.Equal(channels, shared.RGBA) {
		return fmt.Errorf("%w: channel layout %q; expected: RGB or RGBA", shared.ErrUnsupportedFormat, layout(channels))
	}
	return nil
}

func layout(channels []shared.Channel) string {
	buf := make([]byte, len(channels))
	for i, ch := range channels {
		buf[i] = byte(ch)
	}
	return string(buf)
}
