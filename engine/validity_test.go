package engine

// This contains no actual tests. It is just a helper for testing triangulation
// validity.

import (
	"math"
	"testing"

	"github.com/osuushi/triangulateio/meshio"
	"github.com/stretchr/testify/require"
)

// Helper to check that a zero-based output is a valid triangulation of the
// loops. The rules are:
// 1. Every triangle is counterclockwise and has nonzero area.
// 2. Every loop edge is an edge of some triangle.
// 3. The sum of the areas of all triangles is the area of the outer loop
//    minus the areas of the hole loops.
// 4. Every input vertex is used by some triangle.
func AssertValidTriangulation(t *testing.T, loops [][]meshio.Point, out *meshio.Buffer) {
	points := out.Points()
	used := make(map[int]bool)
	edges := make(map[edgeKey]bool)

	var area float64
	for i, tri := range out.Triangles() {
		a, b, c := tri.Corners[0], tri.Corners[1], tri.Corners[2]
		pa, pb, pc := points[a], points[b], points[c]
		signed := orient(pa.X, pa.Y, pb.X, pb.Y, pc.X, pc.Y) / 2
		require.Greater(t, signed, 0.0, "triangle %d is not counterclockwise: %v", i, tri.Corners)
		area += signed
		for _, v := range []int{a, b, c} {
			used[v] = true
		}
		edges[keyOf(a, b)] = true
		edges[keyOf(b, c)] = true
		edges[keyOf(c, a)] = true
	}

	expected := 0.0
	first := 0
	for l, loop := range loops {
		for i := range loop {
			a, b := first+i, first+circularIndex(i+1, len(loop))
			require.True(t, edges[keyOf(a, b)], "loop %d edge %d-%d is not in the triangulation", l, a, b)
			require.True(t, used[a], "vertex %d is not in the triangulation", a)
		}
		if l == 0 {
			expected += loopArea(loop)
		} else {
			expected -= loopArea(loop)
		}
		first += len(loop)
	}

	require.InDelta(t, expected, area, 1e-9*math.Max(1, expected), "sum of the areas of all triangles is the area of the domain")
}
