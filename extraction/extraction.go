// Package extraction recovers a payload written by the embedding package.
package extraction

import (
	"go.uber.org/zap"

	"github.com/spacemeshos/pixsteg/bitstream"
	"github.com/spacemeshos/pixsteg/capacity"
	"github.com/spacemeshos/pixsteg/config"
	"github.com/spacemeshos/pixsteg/internal/grid"
	"github.com/spacemeshos/pixsteg/raster"
)

// Result is the outcome of an extraction.
type Result struct {
	// Bits is the recovered payload.
	Bits *bitstream.Stream
	// HeaderRead reports whether the length header fit in the raster.
	HeaderRead bool
	// DeclaredLen is the payload length the header declares. It equals
	// MaxBits when the embedded payload filled the whole capacity.
	DeclaredLen uint64
	HeaderWidth int
	MaxBits     uint64
}

// Short reports whether fewer bits were recovered than the header declares.
func (r *Result) Short() bool {
	return !r.HeaderRead || uint64(r.Bits.Len()) < r.DeclaredLen
}

// FullCapacity reports whether the header carries the full-capacity signal:
// the embedded payload was at least as long as the capacity.
func (r *Result) FullCapacity() bool {
	return r.HeaderRead && r.MaxBits > 0 && r.DeclaredLen == r.MaxBits
}

// Extract walks r exactly like embedding.Embed and returns the payload.
//
// The first capacity.HeaderWidth bits read are the declared payload length;
// reading stops once that many payload bits were collected. Rasters that
// run out of pixels first produce a short result, see Result.Short.
// Parameters that don't match the ones used for embedding produce garbage,
// not an error.
func Extract(r raster.Raster, cfg config.Config, opts ...OptionFunc) (*Result, error) {
	options, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	logger := options.logger

	report, err := capacity.Compute(r, cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Bits:        bitstream.New(),
		HeaderWidth: report.HeaderWidth,
		MaxBits:     report.MaxBits,
	}
	if cfg.Greed == 0 {
		logger.Debug("zero greed: nothing to extract")
		return res, nil
	}

	buf := res.Bits
	br := bitstream.NewReader(buf)

	// parse consumes the header once enough bits were read, and reports
	// whether the declared payload is complete.
	parse := func() bool {
		if !res.HeaderRead {
			if buf.Len() < report.HeaderWidth {
				return false
			}
			declared, _ := br.ReadUint64BE(report.HeaderWidth)
			if declared > report.MaxBits {
				logger.Warn("declared length exceeds capacity",
					zap.Uint64("declared_bits", declared),
					zap.Uint64("max_bits", report.MaxBits),
				)
				declared = report.MaxBits
			}
			res.DeclaredLen = declared
			res.HeaderRead = true
			logger.Debug("header read", zap.Uint64("declared_bits", declared))
		}
		return uint64(buf.Len()) >= res.DeclaredLen
	}

	var walkErr error
	width, height := r.Bounds()
	grid.Walk(width, height, cfg.Sparseness, func(x, y int) bool {
		for _, ch := range report.Selector {
			if parse() {
				return false
			}

			val, err := r.Channel(x, y, ch)
			if err != nil {
				walkErr = err
				return false
			}
			buf.AppendUint(uint64(val), cfg.Greed)
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if parse() {
		buf.Truncate(int(res.DeclaredLen))
	} else if !res.HeaderRead {
		buf.Truncate(0)
	}

	if res.Short() {
		logger.Warn("short read",
			zap.Bool("header_read", res.HeaderRead),
			zap.Uint64("declared_bits", res.DeclaredLen),
			zap.Int("read_bits", buf.Len()),
		)
	}
	return res, nil
}
