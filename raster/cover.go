package raster

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand"
	"strconv"
	"strings"
)

// ParseColor returns the channel values of a "#rrggbb" fill color (the '#'
// is optional). "random" and "" pick a color from crypto/rand.
func ParseColor(s string) (r, g, b uint8, err error) {
	if s == "random" || s == "" {
		var rgb [3]byte
		if _, err := rand.Read(rgb[:]); err != nil {
			return 0, 0, 0, fmt.Errorf("pick fill color: %w", err)
		}
		return rgb[0], rgb[1], rgb[2], nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q; expected: #rrggbb", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// NewSolid creates a uniform cover raster.
func NewSolid(width, height int, color string, alpha bool) (*Image, error) {
	r, g, b, err := ParseColor(color)
	if err != nil {
		return nil, err
	}

	im := New(width, height, alpha)
	pix := im.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 0xFF
	}
	return im, nil
}

// NewNoise creates a cover raster of uniformly random channel values,
// reproducible for a given seed. With alpha, the alpha channel is randomized
// within [192, 255] so the raster stays translucent once encoded.
func NewNoise(width, height int, seed int64, alpha bool) *Image {
	rnd := mrand.New(mrand.NewSource(seed))
	im := New(width, height, alpha)
	pix := im.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = uint8(rnd.Intn(256))
		pix[i+1] = uint8(rnd.Intn(256))
		pix[i+2] = uint8(rnd.Intn(256))
		pix[i+3] = 0xFF
		if alpha {
			pix[i+3] = uint8(192 + rnd.Intn(64))
		}
	}
	return im
}
