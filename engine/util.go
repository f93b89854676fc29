package engine

// orient is twice the signed area of abc, positive when a, b, c wind
// counterclockwise.
func orient(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

// incircle is positive when d lies strictly inside the circumcircle of the
// counterclockwise triangle abc, zero when it lies on it.
func incircle(ax, ay, bx, by, cx, cy, dx, dy float64) float64 {
	adx, ady := ax-dx, ay-dy
	bdx, bdy := bx-dx, by-dy
	cdx, cdy := cx-dx, cy-dy
	ad := adx*adx + ady*ady
	bd := bdx*bdx + bdy*bdy
	cd := cdx*cdx + cdy*cdy
	return adx*(bdy*cd-bd*cdy) - ady*(bdx*cd-bd*cdx) + ad*(bdx*cdy-bdy*cdx)
}

// circumcenter of the triangle abc. The triangle must not be degenerate.
func circumcenter(ax, ay, bx, by, cx, cy float64) (float64, float64) {
	bx, by = bx-ax, by-ay
	cx, cy = cx-ax, cy-ay
	d := 2 * (bx*cy - by*cx)
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	return ax + (cy*b2-by*c2)/d, ay + (bx*c2-cx*b2)/d
}

// Corners are treated as a circular buffer. This gives the modular index
// given length n, but unlike the raw modulo operator, it only gives positive
// values.
func circularIndex(i, n int) int {
	return (i%n + n) % n
}

// edgeKey identifies an undirected edge by its two vertex indices, smaller
// first.
type edgeKey struct {
	a, b int
}

func keyOf(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// triangleStack is the work list for flood fills over triangle adjacency.
type triangleStack []int

func (s *triangleStack) Push(t int) {
	*s = append(*s, t)
}

func (s *triangleStack) Pop() int {
	if len(*s) == 0 {
		return -1
	}
	t := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return t
}

func (s *triangleStack) Empty() bool {
	return len(*s) == 0
}
