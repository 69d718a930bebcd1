package raster

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spacemeshos/pixsteg/shared"
)

const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatWebP = "webp"
)

var (
	// carrierFormats are the containers a raster may be decoded from before embedding.
	carrierFormats = map[string]bool{
		FormatPNG:  true,
		FormatJPEG: true,
		FormatBMP:  true,
		FormatTIFF: true,
		FormatWebP: true,
	}

	// losslessFormats are the containers that keep every channel bit on re-encoding.
	losslessFormats = map[string]bool{
		FormatPNG:  true,
		FormatBMP:  true,
		FormatTIFF: true,
	}

	extensions = map[string]string{
		".png":  FormatPNG,
		".jpg":  FormatJPEG,
		".jpeg": FormatJPEG,
		".bmp":  FormatBMP,
		".tif":  FormatTIFF,
		".tiff": FormatTIFF,
		".webp": FormatWebP,
	}
)

// Decode reads an image in any registered format and wraps it into a raster.
func Decode(r io.Reader) (*Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if err == image.ErrFormat {
			return nil, fmt.Errorf("%w: %v", shared.ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img, format)
}

// Encode writes the raster in a lossless format: png, bmp or tiff.
func Encode(w io.Writer, im *Image, format string) error {
	switch format {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(w, im.img); err != nil {
			return fmt.Errorf("encode PNG: %w", err)
		}
	case FormatBMP:
		if err := bmp.Encode(w, im.img); err != nil {
			return fmt.Errorf("encode BMP: %w", err)
		}
	case FormatTIFF:
		if err := tiff.Encode(w, im.img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("%w: cannot encode %q losslessly: use png, bmp or tiff", shared.ErrUnsupportedFormat, format)
	}
	return nil
}

// FormatFromPath infers the container format from the file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: unknown extension %q", shared.ErrUnsupportedFormat, ext)
	}
	return format, nil
}

// AcceptCarrier checks that a raster decoded from format can carry a payload.
// Lossy containers are fine to embed into, since the result is re-encoded
// losslessly, but a payload can only be extracted from a lossless one.
func AcceptCarrier(format string, extract bool) error {
	if extract {
		if !losslessFormats[format] {
			return fmt.Errorf("%w: %q can't hold embedded data: use png, bmp or tiff", shared.ErrUnsupportedFormat, format)
		}
		return nil
	}
	if !carrierFormats[format] {
		return fmt.Errorf("%w: %q carriers are not supported", shared.ErrUnsupportedFormat, format)
	}
	return nil
}

// Load decodes the image at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	im, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return im, nil
}

// Save atomically writes the raster to path, in the format matching the extension.
func Save(path string, im *Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, im, format); err != nil {
		return err
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// StegoPath returns the default output path for a carrier: the input stem
// suffixed with "_corrupted", as a PNG next to the input.
func StegoPath(carrier string) string {
	return strings.TrimSuffix(carrier, filepath.Ext(carrier)) + "_corrupted.png"
}
