// Package embedding writes a length-prefixed bit payload into the
// least-significant bits of selected channels of a raster.
package embedding

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/pixsteg/bitstream"
	"github.com/spacemeshos/pixsteg/capacity"
	"github.com/spacemeshos/pixsteg/config"
	"github.com/spacemeshos/pixsteg/internal/grid"
	"github.com/spacemeshos/pixsteg/raster"
)

// Embed writes payload into r and returns the bits that didn't fit.
//
// The written stream is a header of capacity.HeaderWidth bits holding the
// payload length (or the capacity itself when the payload doesn't fit),
// followed by the payload, zero-padded to a multiple of cfg.Greed. It is
// consumed cfg.Greed bits at a time, replacing the low-order bits of every
// selected channel of every visited pixel, until it runs out.
//
// With a zero greed nothing is written and the leftover is a copy of payload.
// Only the low-order cfg.Greed bits of the visited channels change. The
// caller must not use r concurrently while Embed runs. payload is left
// untouched.
func Embed(payload *bitstream.Stream, r raster.Raster, cfg config.Config, opts ...OptionFunc) (*bitstream.Stream, error) {
	options, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	logger := options.logger

	report, err := capacity.Compute(r, cfg)
	if err != nil {
		return nil, err
	}

	n := uint64(payload.Len())
	declared := n
	if report.MaxBits <= n {
		declared = report.MaxBits
	}

	stream := bitstream.New()
	w := bitstream.NewWriter(stream)
	w.WriteUint64BE(declared, report.HeaderWidth)
	stream.Append(payload)
	stream.PadTo(cfg.Greed, bitstream.Zero)

	logger.Debug("embedding payload",
		zap.Int("payload_bits", payload.Len()),
		zap.Uint64("max_bits", report.MaxBits),
		zap.Int("header_width", report.HeaderWidth),
		zap.Uint64("declared_bits", declared),
		zap.Stringer("config", &cfg),
	)

	// Nothing can be written without any greed: the whole payload is left over.
	if cfg.Greed == 0 {
		logger.Warn("zero greed: nothing embedded", zap.Int("leftover_bits", payload.Len()))
		return payload.Clone(), nil
	}

	mask := uint8(1<<uint(cfg.Greed) - 1)
	br := bitstream.NewReader(stream)
	width, height := r.Bounds()

	var walkErr error
	var written int
	grid.Walk(width, height, cfg.Sparseness, func(x, y int) bool {
		for _, ch := range report.Selector {
			if stream.Empty() {
				return false
			}

			bits, err := br.ReadUint64BE(cfg.Greed)
			if err != nil {
				walkErr = fmt.Errorf("read %d payload bits: %w", cfg.Greed, err)
				return false
			}

			val, err := r.Channel(x, y, ch)
			if err != nil {
				walkErr = err
				return false
			}
			if err := r.SetChannel(x, y, ch, val&^mask|uint8(bits)); err != nil {
				walkErr = err
				return false
			}
			written += cfg.Greed
		}
		return !stream.Empty()
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if !stream.Empty() {
		logger.Warn("payload truncated",
			zap.Int("written_bits", written),
			zap.Int("leftover_bits", stream.Len()),
		)
	} else {
		logger.Debug("payload embedded", zap.Int("written_bits", written))
	}

	return stream, nil
}
