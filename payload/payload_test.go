package payload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/pixsteg/bitstream"
)

func TestASCII(t *testing.T) {
	r := require.New(t)

	bits, err := FromASCII("A")
	r.NoError(err)
	r.Equal("01000001", bits.String())

	bits, err = FromASCII("Hello, LSB!")
	r.NoError(err)
	r.Equal("Hello, LSB!", ToASCII(bits))

	_, err = FromASCII("naïve")
	r.ErrorIs(err, ErrNotASCII)
}

func TestToASCII_PartialGroup(t *testing.T) {
	bits, err := bitstream.Parse("01000001" + "110")
	require.NoError(t, err)
	require.Equal(t, "A\x06", ToASCII(bits))
	require.Equal(t, "", ToASCII(bitstream.New()))
}

func TestEnvelope(t *testing.T) {
	data := []byte(strings.Repeat("compressible ", 100))

	for _, compress := range []bool{false, true} {
		bits, err := Seal("notes.txt", data, compress)
		require.NoError(t, err)
		require.True(t, IsEnvelope(bits))
		require.Zero(t, bits.Len()%8)

		env, err := Open(bits)
		require.NoError(t, err)
		require.Equal(t, "notes.txt", env.Name)
		require.Equal(t, data, env.Data)
		require.False(t, env.Compressed)
	}
}

func TestEnvelope_Compression(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 4096)

	plain, err := Seal("", data, false)
	require.NoError(t, err)
	compressed, err := Seal("", data, true)
	require.NoError(t, err)
	require.Less(t, compressed.Len(), plain.Len())

	// Incompressible data is stored as is.
	small := []byte{1, 2, 3}
	a, err := Seal("", small, true)
	require.NoError(t, err)
	b, err := Seal("", small, false)
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}

func TestEnvelope_Corrupted(t *testing.T) {
	bits, err := Seal("x", []byte("payload"), false)
	require.NoError(t, err)

	raw := bits.Bytes()
	raw[len(raw)-2] ^= 0xFF
	_, err = Open(bitstream.FromBytes(raw))
	require.ErrorIs(t, err, ErrChecksumMismatch)

	short := bits.Clone()
	short.Truncate(short.Len() - 64)
	_, err = Open(short)
	require.ErrorIs(t, err, ErrEnvelopeTruncated)

	plain, err := FromASCII("plain text")
	require.NoError(t, err)
	require.False(t, IsEnvelope(plain))
	_, err = Open(plain)
	require.ErrorIs(t, err, ErrNotEnvelope)
}
