package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/pixsteg/shared"
)

func TestChannelAccess(t *testing.T) {
	r := require.New(t)

	im := New(4, 3, false)
	r.Equal(shared.RGB, im.Channels())
	r.Equal(8, im.BitDepth())

	r.NoError(im.SetChannel(3, 2, shared.Blue, 0xAB))
	val, err := im.Channel(3, 2, shared.Blue)
	r.NoError(err)
	r.Equal(uint8(0xAB), val)
	r.Equal(color.NRGBA{0, 0, 0xAB, 0xFF}, im.Image().NRGBAAt(3, 2))

	_, err = im.Channel(4, 0, shared.Red)
	r.ErrorIs(err, ErrOutOfBounds)
	_, err = im.Channel(0, -1, shared.Red)
	r.ErrorIs(err, ErrOutOfBounds)

	err = im.SetChannel(0, 0, shared.Alpha, 1)
	r.ErrorIs(err, shared.ErrInvalidChannel)
}

func TestFromImage(t *testing.T) {
	t.Run("opaque RGBA is RGB", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 2, 2))
		for i := range src.Pix {
			src.Pix[i] = 0xFF
		}
		im, err := FromImage(src, FormatPNG)
		require.NoError(t, err)
		require.Equal(t, shared.RGB, im.Channels())
	})

	t.Run("NRGBA is RGBA and shared", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		im, err := FromImage(src, FormatPNG)
		require.NoError(t, err)
		require.Equal(t, shared.RGBA, im.Channels())

		require.NoError(t, im.SetChannel(1, 1, shared.Alpha, 7))
		require.Equal(t, uint8(7), src.NRGBAAt(1, 1).A)
	})

	t.Run("offset NRGBA is normalized", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(5, 5, 8, 9))
		src.SetNRGBA(5, 5, color.NRGBA{1, 2, 3, 40})
		im, err := FromImage(src, FormatPNG)
		require.NoError(t, err)
		w, h := im.Bounds()
		require.Equal(t, 3, w)
		require.Equal(t, 4, h)
		val, err := im.Channel(0, 0, shared.Green)
		require.NoError(t, err)
		require.Equal(t, uint8(2), val)
		val, err = im.Channel(0, 0, shared.Alpha)
		require.NoError(t, err)
		require.Equal(t, uint8(40), val)
	})

	t.Run("unsupported layouts", func(t *testing.T) {
		for _, src := range []image.Image{
			image.NewGray(image.Rect(0, 0, 1, 1)),
			image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black}),
			image.NewRGBA64(image.Rect(0, 0, 1, 1)),
			image.NewCMYK(image.Rect(0, 0, 1, 1)),
		} {
			_, err := FromImage(src, FormatPNG)
			require.ErrorIs(t, err, shared.ErrUnsupportedFormat)
		}
	})
}

func TestEncodeDecode(t *testing.T) {
	for _, format := range []string{FormatPNG, FormatBMP, FormatTIFF} {
		format := format
		t.Run(format, func(t *testing.T) {
			im := NewNoise(17, 9, 42, false)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, im, format))

			decoded, err := Decode(&buf)
			require.NoError(t, err)
			require.Equal(t, format, decoded.Format())
			require.Subset(t, decoded.Channels(), shared.RGB)
			requireSamePixels(t, im, decoded)
		})
	}
}

func TestEncodeDecode_Alpha(t *testing.T) {
	im := NewNoise(8, 8, 1, true)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, im, FormatPNG))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, shared.RGBA, decoded.Channels())
	require.Equal(t, im.Image().Pix, decoded.Image().Pix)
}

func TestEncode_Lossy(t *testing.T) {
	err := Encode(&bytes.Buffer{}, New(1, 1, false), FormatJPEG)
	require.ErrorIs(t, err, shared.ErrUnsupportedFormat)
}

func TestDecode_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, NewNoise(16, 16, 3, false).Image(), nil))

	im, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, FormatJPEG, im.Format())
	require.Equal(t, shared.RGB, im.Channels())
}

func TestDecode_Unknown(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	require.ErrorIs(t, err, shared.ErrUnsupportedFormat)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.png")

	im := NewNoise(10, 10, 7, false)
	require.NoError(t, Save(path, im))

	loaded, err := Load(path)
	require.NoError(t, err)
	requireSamePixels(t, im, loaded)

	require.Error(t, Save(filepath.Join(dir, "cover.jpg"), im))
	_, err = os.Stat(filepath.Join(dir, "cover.jpg"))
	require.True(t, os.IsNotExist(err))
}

func TestFormats(t *testing.T) {
	r := require.New(t)

	format, err := FormatFromPath("a/b/IMG.JPG")
	r.NoError(err)
	r.Equal(FormatJPEG, format)

	_, err = FormatFromPath("a.gif")
	r.ErrorIs(err, shared.ErrUnsupportedFormat)

	r.NoError(AcceptCarrier(FormatJPEG, false))
	r.ErrorIs(AcceptCarrier(FormatJPEG, true), shared.ErrUnsupportedFormat)
	r.NoError(AcceptCarrier(FormatPNG, true))
	r.ErrorIs(AcceptCarrier("gif", false), shared.ErrUnsupportedFormat)

	r.Equal("dir/cat_corrupted.png", StegoPath("dir/cat.jpg"))
}

func TestParseColor(t *testing.T) {
	req := require.New(t)

	red, green, blue, err := ParseColor("#102030")
	req.NoError(err)
	req.Equal([3]uint8{0x10, 0x20, 0x30}, [3]uint8{red, green, blue})

	red, green, blue, err = ParseColor("A0b1C2")
	req.NoError(err)
	req.Equal([3]uint8{0xA0, 0xB1, 0xC2}, [3]uint8{red, green, blue})

	_, _, _, err = ParseColor("#12345")
	req.ErrorContains(err, "#rrggbb")
	_, _, _, err = ParseColor("zzzzzz")
	req.Error(err)
	_, _, _, err = ParseColor("random")
	req.NoError(err)
	_, _, _, err = ParseColor("")
	req.NoError(err)

	im, err := NewSolid(2, 2, "#ff0000", false)
	req.NoError(err)
	val, err := im.Channel(1, 1, shared.Red)
	req.NoError(err)
	req.Equal(uint8(0xFF), val)
}

func requireSamePixels(t *testing.T, want, got *Image) {
	t.Helper()
	w, h := want.Bounds()
	gw, gh := got.Bounds()
	require.Equal(t, w, gw)
	require.Equal(t, h, gh)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for _, ch := range shared.RGB {
				a, err := want.Channel(x, y, ch)
				require.NoError(t, err)
				b, err := got.Channel(x, y, ch)
				require.NoError(t, err)
				require.Equal(t, a, b, "pixel (%d, %d) channel %v", x, y, ch)
			}
		}
	}
}
