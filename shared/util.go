package shared

import "math/bits"

// NumBits returns the minimal number of bits needed to represent val in binary.
// Zero still takes a single bit.
func NumBits(val uint64) int {
	if val == 0 {
		return 1
	}
	return bits.Len64(val)
}

// Uint64MulOverflow reports whether a * b overflows uint64.
func Uint64MulOverflow(a, b uint64) bool {
	if a == 0 || b == 0 {
		return false
	}
	hi, _ := bits.Mul64(a, b)
	return hi != 0
}
