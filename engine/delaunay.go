package engine

import (
	"log/slog"
	"math"
)

// delaunay triangulates the vertices with the Bowyer-Watson algorithm and
// returns counterclockwise triangles over the input indices. Exact duplicate
// vertices are left out of the triangulation. Fewer than three distinct,
// non-collinear vertices is fatal.
//
// The vertices are first wrapped in a large enclosing triangle whose corners
// are removed at the end. Hull vertices lying almost on a line with a long
// hull edge can lose the thin triangles between them; callers that need an
// exact convex hull should not rely on this engine for it.
func delaunay(xs, ys []float64, logger *slog.Logger) [][3]int {
	n := len(xs)
	if n < 3 {
		fatalf("input must have at least three vertices, got %d", n)
	}

	seen := make(map[[2]float64]int, n)
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		key := [2]float64{xs[i], ys[i]}
		if first, ok := seen[key]; ok {
			logger.Warn("duplicate vertex ignored", "vertex", i, "duplicate_of", first)
			continue
		}
		seen[key] = i
		order = append(order, i)
	}
	if !spansArea(xs, ys, order) {
		fatalf("input vertices are all collinear or coincident")
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, i := range order {
		minX = math.Min(minX, xs[i])
		minY = math.Min(minY, ys[i])
		maxX = math.Max(maxX, xs[i])
		maxY = math.Max(maxY, ys[i])
	}
	size := math.Max(maxX-minX, maxY-minY)
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	// Enclosing triangle, counterclockwise, at indices n, n+1, n+2.
	px := append(append(make([]float64, 0, n+3), xs...), midX-20*size, midX+20*size, midX)
	py := append(append(make([]float64, 0, n+3), ys...), midY-10*size, midY-10*size, midY+20*size)

	triangles := [][3]int{{n, n + 1, n + 2}}
	for _, p := range order {
		triangles = insertVertex(px, py, triangles, p)
	}

	result := triangles[:0]
	for _, t := range triangles {
		if t[0] < n && t[1] < n && t[2] < n {
			result = append(result, t)
		}
	}
	logger.Debug("delaunay", "vertices", len(order), "triangles", len(result))
	return result
}

// insertVertex removes every triangle whose circumcircle strictly contains
// p and fans the boundary of the resulting cavity out to p.
func insertVertex(xs, ys []float64, triangles [][3]int, p int) [][3]int {
	type directedEdge struct {
		from, to int
	}
	var cavity []directedEdge
	count := make(map[edgeKey]int)

	kept := make([][3]int, 0, len(triangles)+2)
	for _, t := range triangles {
		a, b, c := t[0], t[1], t[2]
		if incircle(xs[a], ys[a], xs[b], ys[b], xs[c], ys[c], xs[p], ys[p]) > 0 {
			for i := 0; i < 3; i++ {
				from, to := t[i], t[circularIndex(i+1, 3)]
				cavity = append(cavity, directedEdge{from, to})
				count[keyOf(from, to)]++
			}
			continue
		}
		kept = append(kept, t)
	}

	// Edges seen once are on the cavity boundary. They keep the direction
	// they had in their counterclockwise triangle, so p is on their left.
	for _, e := range cavity {
		if count[keyOf(e.from, e.to)] == 1 {
			kept = append(kept, [3]int{e.from, e.to, p})
		}
	}
	return kept
}

// spansArea reports whether the indexed vertices include three that are not
// collinear.
func spansArea(xs, ys []float64, indices []int) bool {
	if len(indices) < 3 {
		return false
	}
	a, b := indices[0], indices[1]
	for _, c := range indices[2:] {
		if orient(xs[a], ys[a], xs[b], ys[b], xs[c], ys[c]) != 0 {
			return true
		}
	}
	return false
}
