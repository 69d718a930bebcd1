// Package bitstream provides an ordered, finite sequence of bits backed by a
// packed byte buffer with an explicit length in bits. Bits are kept in the
// MSB-first order within each byte, so the stream built from the byte 'A'
// reads 01000001.
package bitstream

import (
	"fmt"
	"strings"
)

type Bit bool

const (
	Zero Bit = false
	One  Bit = true
)

// compactThreshold is the number of consumed bytes after which the front of
// the buffer is reclaimed.
const compactThreshold = 512

// Stream is a bit sequence supporting appends at the back and consumption
// from the front. The zero value is an empty stream ready to use.
//
// Bits beyond the logical end inside the last byte are always zero.
type Stream struct {
	buf []byte
	off int // absolute index of the first live bit
	end int // absolute index one past the last live bit
}

// New returns an empty Stream.
func New() *Stream {
	return new(Stream)
}

// FromBytes returns a Stream holding all 8 bits of every byte of data.
func FromBytes(data []byte) *Stream {
	s := New()
	s.AppendBytes(data)
	return s
}

// FromBits returns a Stream holding the given bits in order.
func FromBits(bits ...Bit) *Stream {
	s := New()
	for _, bit := range bits {
		s.AppendBit(bit)
	}
	return s
}

// Parse builds a Stream from a string of '0' and '1' characters.
func Parse(str string) (*Stream, error) {
	s := New()
	for i, c := range str {
		switch c {
		case '0':
			s.AppendBit(Zero)
		case '1':
			s.AppendBit(One)
		default:
			return nil, fmt.Errorf("invalid bit %q at position %d", c, i)
		}
	}
	return s, nil
}

// Len returns the number of bits in the stream.
func (s *Stream) Len() int {
	return s.end - s.off
}

// Empty reports whether the stream holds no bits.
func (s *Stream) Empty() bool {
	return s.end == s.off
}

// Bit returns the i-th bit of the stream. It panics if i is out of range.
func (s *Stream) Bit(i int) Bit {
	if i < 0 || i >= s.Len() {
		panic(fmt.Sprintf("bitstream: index %d out of range [0, %d)", i, s.Len()))
	}
	return s.at(s.off + i)
}

func (s *Stream) at(abs int) Bit {
	return s.buf[abs>>3]>>(7-uint(abs&7))&1 == 1
}

// Uint returns width bits starting at from, interpreted as a big-endian unsigned integer.
func (s *Stream) Uint(from, width int) uint64 {
	if from < 0 || width < 0 || from+width > s.Len() {
		panic(fmt.Sprintf("bitstream: range [%d, %d) out of range [0, %d)", from, from+width, s.Len()))
	}

	var val uint64
	for i := 0; i < width; i++ {
		val <<= 1
		if s.at(s.off + from + i) {
			val |= 1
		}
	}
	return val
}

// AppendBit appends a single bit at the back of the stream.
func (s *Stream) AppendBit(bit Bit) {
	if s.end>>3 == len(s.buf) {
		s.buf = append(s.buf, 0)
	}
	if bit {
		s.buf[s.end>>3] |= 1 << (7 - uint(s.end&7))
	}
	s.end++
}

// AppendUint appends the width least-significant bits of val, most significant first.
// Widths beyond 64 are left-padded with zero bits.
func (s *Stream) AppendUint(val uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		if i >= 64 {
			s.AppendBit(Zero)
			continue
		}
		s.AppendBit(val>>uint(i)&1 == 1)
	}
}

// AppendBytes appends all 8 bits of every byte of data.
func (s *Stream) AppendBytes(data []byte) {
	if s.end&7 == 0 {
		s.buf = append(s.buf[:s.end>>3], data...)
		s.end += len(data) * 8
		return
	}
	for _, b := range data {
		s.AppendUint(uint64(b), 8)
	}
}

// Append appends all bits of other. other is left untouched.
func (s *Stream) Append(other *Stream) {
	if other.off&7 == 0 {
		n := other.Len()
		whole := n / 8
		s.AppendBytes(other.buf[other.off>>3 : other.off>>3+whole])
		for i := whole * 8; i < n; i++ {
			s.AppendBit(other.at(other.off + i))
		}
		return
	}
	for i := other.off; i < other.end; i++ {
		s.AppendBit(other.at(i))
	}
}

// PadTo appends bit until the stream length is a multiple of multiple.
// A multiple below 1 leaves the stream untouched.
func (s *Stream) PadTo(multiple int, bit Bit) {
	if multiple < 1 {
		return
	}
	for s.Len()%multiple != 0 {
		s.AppendBit(bit)
	}
}

// Slice returns a copy of the bits in [from, to).
func (s *Stream) Slice(from, to int) *Stream {
	if from < 0 || to > s.Len() || from > to {
		panic(fmt.Sprintf("bitstream: invalid slice [%d, %d) of length %d", from, to, s.Len()))
	}

	out := New()
	start := s.off + from
	if start&7 == 0 {
		whole := (to - from) / 8
		out.AppendBytes(s.buf[start>>3 : start>>3+whole])
		start += whole * 8
	}
	for i := start; i < s.off+to; i++ {
		out.AppendBit(s.at(i))
	}
	return out
}

// Take removes up to n bits from the front of the stream and returns them.
func (s *Stream) Take(n int) *Stream {
	if n > s.Len() {
		n = s.Len()
	}
	if n <= 0 {
		return New()
	}

	out := s.Slice(0, n)
	s.skip(n)
	return out
}

// skip drops the first n bits, n <= Len().
func (s *Stream) skip(n int) {
	s.off += n
	s.compact()
}

// Truncate keeps the first n bits and discards the rest.
func (s *Stream) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= s.Len() {
		return
	}

	s.end = s.off + n
	s.buf = s.buf[:(s.end+7)>>3]
	if rem := s.end & 7; rem != 0 {
		s.buf[len(s.buf)-1] &= 0xFF << (8 - uint(rem))
	}
	s.compact()
}

// Bytes returns the stream packed into bytes, MSB first. A trailing partial
// byte is padded with zero bits.
func (s *Stream) Bytes() []byte {
	out := make([]byte, (s.Len()+7)/8)
	if s.off&7 == 0 {
		copy(out, s.buf[s.off>>3:])
		return out
	}
	for i := 0; i < s.Len(); i++ {
		if s.at(s.off + i) {
			out[i>>3] |= 1 << (7 - uint(i&7))
		}
	}
	return out
}

// Clone returns an independent copy of the stream.
func (s *Stream) Clone() *Stream {
	return s.Slice(0, s.Len())
}

// Equal reports whether both streams hold the same bits.
func (s *Stream) Equal(other *Stream) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.at(s.off+i) != other.at(other.off+i) {
			return false
		}
	}
	return true
}

// String renders the stream as a string of '0' and '1' characters.
func (s *Stream) String() string {
	var sb strings.Builder
	sb.Grow(s.Len())
	for i := s.off; i < s.end; i++ {
		if s.at(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// compact drops fully consumed bytes once they are at least compactThreshold
// and half of the buffer, so every byte is moved a bounded number of times.
func (s *Stream) compact() {
	shift := s.off >> 3
	if shift == 0 {
		return
	}
	if s.off == s.end {
		s.buf = s.buf[:0]
		s.off, s.end = 0, 0
		return
	}
	if shift < compactThreshold || shift*2 < len(s.buf) {
		return
	}

	n := copy(s.buf, s.buf[shift:])
	s.buf = s.buf[:n]
	s.off -= shift * 8
	s.end -= shift * 8
}
