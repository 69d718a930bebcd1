// Package grid implements the sparse pixel traversal shared by the embedder
// and the extractor. The visiting order is part of the bit layout: x is the
// outer loop and y the inner one, both stepping by the sparseness.
package grid

// Walk calls fn for every coordinate (x, y) with x in 0, s, 2s, ... < width
// and, for each x, y in 0, s, 2s, ... < height. Walking stops as soon as fn
// returns false. A sparseness below 1 visits nothing.
func Walk(width, height, sparseness int, fn func(x, y int) bool) {
	if sparseness < 1 {
		return
	}
	for x := 0; x < width; x += sparseness {
		for y := 0; y < height; y += sparseness {
			if !fn(x, y) {
				return
			}
		}
	}
}

// Visits returns the number of coordinates Walk visits.
func Visits(width, height, sparseness int) uint64 {
	if sparseness < 1 || width <= 0 || height <= 0 {
		return 0
	}
	return uint64(ceilDiv(width, sparseness)) * uint64(ceilDiv(height, sparseness))
}

// OnGrid reports whether (x, y) is a coordinate Walk visits.
func OnGrid(x, y, sparseness int) bool {
	return sparseness >= 1 && x >= 0 && y >= 0 && x%sparseness == 0 && y%sparseness == 0
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
