package payload

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/nullstyle/go-xdr/xdr3"
	"github.com/spacemeshos/sha256-simd"

	"github.com/spacemeshos/pixsteg/bitstream"
)

// Magic marks the start of an envelope: "PXSG".
const Magic uint32 = 0x50585347

const (
	EnvelopeVersion = 1

	// MaxDecompressedSize bounds the memory a compressed envelope may expand to.
	MaxDecompressedSize = 64 << 20
)

var (
	ErrNotEnvelope       = errors.New("not an envelope")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrEnvelopeVersion   = errors.New("unsupported envelope version")
	ErrEnvelopeTruncated = errors.New("truncated envelope")
)

// Envelope frames a blob before embedding. Its xdr encoding is what the
// codec carries.
type Envelope struct {
	Magic      uint32
	Version    uint32
	Name       string
	Compressed bool
	// Checksum is the SHA-256 of the uncompressed data.
	Checksum []byte
	Data     []byte
}

// Seal wraps data into an envelope and returns its bit stream. With compress,
// data is zstd-compressed unless that doesn't make it smaller.
func Seal(name string, data []byte, compress bool) (*bitstream.Stream, error) {
	sum := sha256.Sum256(data)
	env := Envelope{
		Magic:    Magic,
		Version:  EnvelopeVersion,
		Name:     name,
		Checksum: sum[:],
		Data:     data,
	}

	if compress {
		compressed, err := compressData(data)
		if err != nil {
			return nil, err
		}
		if len(compressed) < len(data) {
			env.Data = compressed
			env.Compressed = true
		}
	}

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &env); err != nil {
		return nil, fmt.Errorf("serialization failure: %v", err)
	}
	return bitstream.FromBytes(buf.Bytes()), nil
}

// IsEnvelope reports whether bits start with the envelope magic.
func IsEnvelope(bits *bitstream.Stream) bool {
	return bits.Len() >= 32 && bits.Uint(0, 32) == uint64(Magic)
}

// Open decodes an envelope from extracted bits, restoring and verifying its data.
func Open(bits *bitstream.Stream) (*Envelope, error) {
	if !IsEnvelope(bits) {
		return nil, ErrNotEnvelope
	}

	env := &Envelope{}
	if _, err := xdr.Unmarshal(bytes.NewReader(bits.Bytes()), env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvelopeTruncated, err)
	}
	if env.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: %d", ErrEnvelopeVersion, env.Version)
	}

	if env.Compressed {
		data, err := decompressData(env.Data)
		if err != nil {
			return nil, err
		}
		env.Data = data
		env.Compressed = false
	}

	sum := sha256.Sum256(env.Data)
	if !bytes.Equal(sum[:], env.Checksum) {
		return nil, fmt.Errorf("%w: %q", ErrChecksumMismatch, env.Name)
	}
	return env, nil
}

func compressData(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompressData(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(MaxDecompressedSize),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return out, nil
}
