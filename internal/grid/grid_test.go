package grid

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalk_Order(t *testing.T) {
	var visited []image.Point
	Walk(25, 15, 10, func(x, y int) bool {
		visited = append(visited, image.Pt(x, y))
		return true
	})

	require.Equal(t, []image.Point{
		{0, 0}, {0, 10},
		{10, 0}, {10, 10},
		{20, 0}, {20, 10},
	}, visited)
	require.EqualValues(t, len(visited), Visits(25, 15, 10))
}

func TestWalk_Stop(t *testing.T) {
	var n int
	Walk(100, 100, 1, func(x, y int) bool {
		n++
		return n < 7
	})
	require.Equal(t, 7, n)
}

func TestWalk_InvalidSparseness(t *testing.T) {
	Walk(10, 10, 0, func(x, y int) bool {
		require.FailNow(t, "unexpected visit")
		return false
	})
	require.Zero(t, Visits(10, 10, 0))
	require.Zero(t, Visits(0, 10, 1))
}

func TestOnGrid(t *testing.T) {
	r := require.New(t)

	r.True(OnGrid(0, 0, 10))
	r.True(OnGrid(20, 90, 10))
	r.False(OnGrid(21, 90, 10))
	r.False(OnGrid(20, 9, 10))
	r.True(OnGrid(3, 7, 1))
	r.False(OnGrid(0, 0, 0))
}
