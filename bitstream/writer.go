package bitstream

// Writer appends bits at the back of a Stream.
type Writer struct {
	stream *Stream
}

// NewWriter returns a new instance of Writer appending to s.
func NewWriter(s *Stream) *Writer {
	return &Writer{stream: s}
}

// Stream returns the underlying stream.
func (bw *Writer) Stream() *Stream {
	return bw.stream
}

// Write writes the first numBits of data, MSB first within every byte.
func (bw *Writer) Write(data []byte, numBits int) {
	for numBits >= 8 && len(data) > 0 {
		bw.stream.AppendUint(uint64(data[0]), 8)
		data = data[1:]
		numBits -= 8
	}

	if numBits > 0 && len(data) > 0 {
		bw.stream.AppendUint(uint64(data[0]>>(8-uint(numBits))), numBits)
	}
}

// WriteUint64BE writes the numBits least-significant bits of val, most significant first.
func (bw *Writer) WriteUint64BE(val uint64, numBits int) {
	bw.stream.AppendUint(val, numBits)
}

// WriteByte writes a single byte.
func (bw *Writer) WriteByte(b byte) error {
	bw.stream.AppendUint(uint64(b), 8)
	return nil
}

// WriteBit writes a single bit.
func (bw *Writer) WriteBit(bit Bit) {
	bw.stream.AppendBit(bit)
}

// Flush fills the pending byte with bit, so that the stream becomes byte aligned.
func (bw *Writer) Flush(bit Bit) {
	bw.stream.PadTo(8, bit)
}
