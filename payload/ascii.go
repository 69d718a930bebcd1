// Package payload converts caller data into the bit streams the codec embeds:
// plain ASCII text, or an envelope carrying a named, checksummed and
// optionally compressed blob.
package payload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spacemeshos/pixsteg/bitstream"
)

var ErrNotASCII = errors.New("ASCII only allowed")

// FromASCII returns the 8-bit codes of text, in order.
func FromASCII(text string) (*bitstream.Stream, error) {
	for i := 0; i < len(text); i++ {
		if text[i] > 0x7f {
			return nil, fmt.Errorf("%w: byte 0x%02x at offset %d", ErrNotASCII, text[i], i)
		}
	}
	return bitstream.FromBytes([]byte(text)), nil
}

// ToASCII decodes bits 8 at a time. A trailing group shorter than 8 bits is
// decoded as the number it spells.
func ToASCII(bits *bitstream.Stream) string {
	var sb strings.Builder
	sb.Grow(bits.Len()/8 + 1)
	for i := 0; i < bits.Len(); i += 8 {
		width := min(8, bits.Len()-i)
		sb.WriteByte(byte(bits.Uint(i, width)))
	}
	return sb.String()
}
