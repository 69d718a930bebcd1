// Package raster provides the pixel raster the codec reads and writes:
// an 8-bit RGB or RGBA image addressed per pixel and per channel.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/spacemeshos/pixsteg/shared"
)

// BitDepth is the channel bit depth of Image.
const BitDepth = 8

var ErrOutOfBounds = errors.New("pixel out of bounds")

// Raster is the per-channel pixel access needed by the embedder and the extractor.
type Raster interface {
	// Bounds returns the width and height in pixels.
	Bounds() (width, height int)
	// Channels returns the ordered channel set present in the raster.
	Channels() []shared.Channel
	// BitDepth returns the number of bits of every channel value.
	BitDepth() int
	// Format returns the name of the container the raster was decoded from.
	Format() string
	Channel(x, y int, ch shared.Channel) (uint8, error)
	SetChannel(x, y int, ch shared.Channel, val uint8) error
}

// Image is a Raster backed by an *image.NRGBA. Non-premultiplied storage
// keeps the color channels of translucent pixels exact.
type Image struct {
	img      *image.NRGBA
	channels []shared.Channel
	format   string
}

var _ Raster = (*Image)(nil)

// New returns an all-zero raster. Rasters without alpha get opaque pixels.
func New(width, height int, alpha bool) *Image {
	im := &Image{
		img:      image.NewNRGBA(image.Rect(0, 0, width, height)),
		channels: shared.RGB,
		format:   "png",
	}
	if alpha {
		im.channels = shared.RGBA
		return im
	}
	for i := 3; i < len(im.img.Pix); i += 4 {
		im.img.Pix[i] = 0xFF
	}
	return im
}

// FromImage wraps a decoded image. RGB sources (including JPEG's YCbCr) get
// the {R,G,B} channel set, sources with an alpha channel get {R,G,B,A}.
// Other pixel layouts (gray, paletted, CMYK, 16-bit) fail with ErrUnsupportedFormat.
//
// An *image.NRGBA anchored at the origin is used as is: writes to the raster
// are visible through src.
func FromImage(src image.Image, format string) (*Image, error) {
	im := &Image{format: format}

	switch m := src.(type) {
	case *image.NRGBA:
		im.channels = shared.RGBA
		if m.Rect.Min == (image.Point{}) {
			im.img = m
			return im, nil
		}
		im.img = image.NewNRGBA(image.Rect(0, 0, m.Rect.Dx(), m.Rect.Dy()))
		for y := 0; y < m.Rect.Dy(); y++ {
			src := m.Pix[m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y+y):]
			copy(im.img.Pix[y*im.img.Stride:(y+1)*im.img.Stride], src)
		}
		return im, nil
	case *image.RGBA:
		im.channels = shared.RGB
		if !m.Opaque() {
			im.channels = shared.RGBA
		}
	case *image.YCbCr:
		im.channels = shared.RGB
	case *image.NYCbCrA:
		im.channels = shared.RGBA
	default:
		return nil, fmt.Errorf("%w: %T pixel layout in %v image", shared.ErrUnsupportedFormat, src, format)
	}

	b := src.Bounds()
	im.img = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(im.img, im.img.Bounds(), src, b.Min, draw.Src)
	return im, nil
}

// Image returns the underlying image. It shares memory with the raster.
func (im *Image) Image() *image.NRGBA {
	return im.img
}

func (im *Image) Bounds() (int, int) {
	return im.img.Rect.Dx(), im.img.Rect.Dy()
}

func (im *Image) Channels() []shared.Channel {
	return im.channels
}

func (im *Image) BitDepth() int {
	return BitDepth
}

func (im *Image) Format() string {
	return im.format
}

// HasAlpha reports whether the alpha channel is addressable.
func (im *Image) HasAlpha() bool {
	return len(im.channels) == len(shared.RGBA)
}

func (im *Image) Channel(x, y int, ch shared.Channel) (uint8, error) {
	i, err := im.offset(x, y, ch)
	if err != nil {
		return 0, err
	}
	return im.img.Pix[i], nil
}

func (im *Image) SetChannel(x, y int, ch shared.Channel, val uint8) error {
	i, err := im.offset(x, y, ch)
	if err != nil {
		return err
	}
	im.img.Pix[i] = val
	return nil
}

// Clone returns a deep copy of the raster.
func (im *Image) Clone() *Image {
	img := *im.img
	img.Pix = append([]uint8(nil), im.img.Pix...)
	return &Image{img: &img, channels: im.channels, format: im.format}
}

func (im *Image) offset(x, y int, ch shared.Channel) (int, error) {
	if !(image.Point{X: x, Y: y}).In(im.img.Rect) {
		w, h := im.Bounds()
		return 0, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, w, h)
	}

	idx := shared.IndexOf(im.channels, ch)
	if idx < 0 {
		return 0, shared.ChannelError{Channel: ch, Available: im.channels}
	}

	// NRGBA stores R, G, B, A in this order, same as shared.RGBA.
	return im.img.PixOffset(x, y) + idx, nil
}
