package bitstream

import (
	"io"
)

// Reader consumes bits from the front of a Stream.
type Reader struct {
	stream *Stream
}

// NewReader returns a new instance of Reader. Reads consume s.
func NewReader(s *Stream) *Reader {
	return &Reader{stream: s}
}

// Len returns the number of unread bits.
func (br *Reader) Len() int {
	return br.stream.Len()
}

// Read removes up to numBits from the stream. It returns io.EOF only if no
// bit was left to read.
func (br *Reader) Read(numBits int) (*Stream, error) {
	if numBits > 0 && br.stream.Empty() {
		return nil, io.EOF
	}
	return br.stream.Take(numBits), nil
}

// ReadUint64BE reads the next numBits as an unsigned integer, most significant bit first.
// A stream holding fewer than numBits bits yields io.ErrUnexpectedEOF and
// leaves the stream untouched.
func (br *Reader) ReadUint64BE(numBits int) (uint64, error) {
	if numBits == 0 {
		return 0, nil
	}
	if br.stream.Empty() {
		return 0, io.EOF
	}
	if br.stream.Len() < numBits {
		return 0, io.ErrUnexpectedEOF
	}

	val := br.stream.Uint(0, numBits)
	br.stream.skip(numBits)
	return val, nil
}

// ReadByte reads the next 8 bits as a byte.
func (br *Reader) ReadByte() (byte, error) {
	val, err := br.ReadUint64BE(8)
	return byte(val), err
}

// ReadBit reads the next single bit.
func (br *Reader) ReadBit() (Bit, error) {
	if br.stream.Empty() {
		return Zero, io.EOF
	}
	bit := br.stream.Bit(0)
	br.stream.skip(1)
	return bit, nil
}
