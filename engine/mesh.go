package engine

import (
	"github.com/osuushi/triangulateio/meshio"
)

// mesh is the engine's working representation, with zero-based indices
// throughout. It is read from the input buffer and written to the output
// buffer, converting the index base at both ends.
type mesh struct {
	xs, ys     []float64
	attrWidth  int
	attrs      []float64 // attrWidth per vertex
	markers    []int
	inputCount int // vertices read from the input; mid nodes come after

	triangles [][3]int
	neighbors [][3]int // across the edge opposite each corner, -1 for none
	midNodes  [][3]int // second-order nodes opposite each corner

	triAttrWidth int
	triAttrs     [][]float64

	segs     []segment
	segments map[edgeKey]int // index into segs
}

type segment struct {
	a, b, marker int
}

// newMesh reads the vertices, and the segments when poly is set, from in.
func newMesh(in *meshio.Buffer, poly bool, offset int) *mesh {
	n := in.NumberOfPoints
	m := &mesh{
		xs:         make([]float64, n),
		ys:         make([]float64, n),
		markers:    make([]int, n),
		attrWidth:  in.NumberOfPointAttributes,
		inputCount: n,
		segments:   make(map[edgeKey]int),
	}
	points := in.PointList.Data()
	for i := 0; i < n; i++ {
		m.xs[i] = points[meshio.PointStride*i]
		m.ys[i] = points[meshio.PointStride*i+1]
	}
	if markers := in.PointMarkerList.Data(); markers != nil {
		for i := 0; i < n; i++ {
			m.markers[i] = int(markers[i])
		}
	}
	if m.attrWidth > 0 {
		m.attrs = append([]float64(nil), in.PointAttributeList.Data()[:n*m.attrWidth]...)
	}

	if !poly {
		return m
	}
	segments := in.SegmentList.Data()
	segmentMarkers := in.SegmentMarkerList.Data()
	for i := 0; i < in.NumberOfSegments; i++ {
		a := int(segments[meshio.SegmentStride*i]) - offset
		b := int(segments[meshio.SegmentStride*i+1]) - offset
		if a < 0 || a >= n || b < 0 || b >= n {
			fatalf("segment %d joins vertices %d and %d, outside the %d input vertices", i, a+offset, b+offset, n)
		}
		if a == b {
			fatalf("segment %d starts and ends at vertex %d", i, a+offset)
		}
		marker := 0
		if segmentMarkers != nil {
			marker = int(segmentMarkers[i])
		}
		m.segments[keyOf(a, b)] = len(m.segs)
		m.segs = append(m.segs, segment{a, b, marker})
	}
	return m
}

// loadTriangles takes the triangulation from a refinement input instead of
// computing one. Only the three vertex corners of each triangle are used.
func (m *mesh) loadTriangles(in *meshio.Buffer, offset int) {
	nt, corners := in.NumberOfTriangles, in.NumberOfCorners
	if nt == 0 {
		fatalf("refinement needs input triangles")
	}
	if corners < 3 {
		fatalf("input triangles have %d corners", corners)
	}
	list := in.TriangleList.Data()
	m.triangles = make([][3]int, nt)
	for i := range m.triangles {
		var t [3]int
		for j := 0; j < 3; j++ {
			t[j] = int(list[corners*i+j]) - offset
			if t[j] < 0 || t[j] >= m.inputCount {
				fatalf("triangle %d names vertex %d, outside the %d input vertices", i, t[j]+offset, m.inputCount)
			}
		}
		if m.signedArea(t) < 0 {
			t[1], t[2] = t[2], t[1]
		}
		m.triangles[i] = t
	}

	m.triAttrWidth = in.NumberOfTriangleAttributes
	m.triAttrs = make([][]float64, nt)
	attrs := in.TriangleAttributeList.Data()
	for i := range m.triAttrs {
		m.triAttrs[i] = append([]float64(nil), attrs[m.triAttrWidth*i:m.triAttrWidth*(i+1)]...)
	}
}

func (m *mesh) signedArea(t [3]int) float64 {
	a, b, c := t[0], t[1], t[2]
	return orient(m.xs[a], m.ys[a], m.xs[b], m.ys[b], m.xs[c], m.ys[c]) / 2
}

// edge returns the two vertices of the edge opposite corner i.
func (m *mesh) edge(t, i int) (int, int) {
	tri := m.triangles[t]
	return tri[circularIndex(i+1, 3)], tri[circularIndex(i+2, 3)]
}

func (m *mesh) isSegment(a, b int) bool {
	_, ok := m.segments[keyOf(a, b)]
	return ok
}

func (m *mesh) buildNeighbors() {
	type side struct {
		t, i int
	}
	seen := make(map[edgeKey]side, 3*len(m.triangles))
	m.neighbors = make([][3]int, len(m.triangles))
	for t := range m.triangles {
		m.neighbors[t] = [3]int{-1, -1, -1}
		for i := 0; i < 3; i++ {
			key := keyOf(m.edge(t, i))
			if other, ok := seen[key]; ok {
				m.neighbors[t][i] = other.t
				m.neighbors[other.t][other.i] = t
				delete(seen, key)
				continue
			}
			seen[key] = side{t, i}
		}
	}
}

// locate returns a triangle containing (x, y), boundary included, or -1.
func (m *mesh) locate(x, y float64) int {
	for t, tri := range m.triangles {
		a, b, c := tri[0], tri[1], tri[2]
		if orient(m.xs[a], m.ys[a], m.xs[b], m.ys[b], x, y) >= 0 &&
			orient(m.xs[b], m.ys[b], m.xs[c], m.ys[c], x, y) >= 0 &&
			orient(m.xs[c], m.ys[c], m.xs[a], m.ys[a], x, y) >= 0 {
			return t
		}
	}
	return -1
}

// flood visits every triangle reachable from the seeds without crossing a
// segment, calling visit once for each.
func (m *mesh) flood(seeds []int, visit func(t int)) {
	visited := make([]bool, len(m.triangles))
	var stack triangleStack
	for _, t := range seeds {
		if t >= 0 && !visited[t] {
			visited[t] = true
			stack.Push(t)
		}
	}
	for !stack.Empty() {
		t := stack.Pop()
		visit(t)
		for i, nb := range m.neighbors[t] {
			if nb < 0 || visited[nb] || m.isSegment(m.edge(t, i)) {
				continue
			}
			visited[nb] = true
			stack.Push(nb)
		}
	}
}

// carve removes the triangles outside the segment-bounded domain: those
// reachable from a hull edge that is not a segment (unless convex), and
// those reachable from a hole point (unless noHoles). Hole points outside the
// triangulation are ignored.
func (m *mesh) carve(holes []meshio.Point, convex, noHoles bool) int {
	var seeds []int
	if !convex {
		for t := range m.triangles {
			for i, nb := range m.neighbors[t] {
				if nb < 0 && !m.isSegment(m.edge(t, i)) {
					seeds = append(seeds, t)
					break
				}
			}
		}
	}
	if !noHoles {
		for _, h := range holes {
			seeds = append(seeds, m.locate(h.X, h.Y))
		}
	}

	eaten := make([]bool, len(m.triangles))
	count := 0
	m.flood(seeds, func(t int) {
		eaten[t] = true
		count++
	})
	if count == 0 {
		return 0
	}

	kept := m.triangles[:0]
	for t, tri := range m.triangles {
		if !eaten[t] {
			kept = append(kept, tri)
		}
	}
	m.triangles = kept
	m.buildNeighbors()
	return count
}

// assignRegions gives every triangle one regional attribute, taken from the
// last region whose seed reaches it without crossing a segment, or 0.
func (m *mesh) assignRegions(regions []meshio.Region) {
	m.triAttrWidth = 1
	m.triAttrs = make([][]float64, len(m.triangles))
	for t := range m.triAttrs {
		m.triAttrs[t] = []float64{0}
	}
	for _, r := range regions {
		attribute := r.Attribute
		m.flood([]int{m.locate(r.X, r.Y)}, func(t int) {
			m.triAttrs[t][0] = attribute
		})
	}
}

// markBoundary gives unmarked vertices the marker of a segment they end, and
// unmarked vertices on the mesh boundary the marker 1.
func (m *mesh) markBoundary() {
	for _, s := range m.segs {
		for _, v := range []int{s.a, s.b} {
			if m.markers[v] == 0 {
				m.markers[v] = s.marker
			}
		}
	}
	for t, nbs := range m.neighbors {
		for i, nb := range nbs {
			if nb >= 0 {
				continue
			}
			a, b := m.edge(t, i)
			for _, v := range []int{a, b} {
				if m.markers[v] == 0 {
					m.markers[v] = 1
				}
			}
		}
	}
}

// edgeMarker is the segment's marker for segment edges, with 1 standing in
// for an unmarked boundary edge.
func (m *mesh) edgeMarker(t, i int) int {
	a, b := m.edge(t, i)
	marker := 0
	if s, ok := m.segments[keyOf(a, b)]; ok {
		marker = m.segs[s].marker
	}
	if marker == 0 && m.neighbors[t][i] < 0 {
		marker = 1
	}
	return marker
}

type meshEdge struct {
	t, i int // triangle and the corner the edge is opposite
}

// edgeList lists every edge once, in triangle order.
func (m *mesh) edgeList() []meshEdge {
	var edges []meshEdge
	for t, nbs := range m.neighbors {
		for i, nb := range nbs {
			if nb < 0 || t < nb {
				edges = append(edges, meshEdge{t, i})
			}
		}
	}
	return edges
}

// addMidNodes appends a vertex at the middle of every edge for second-order
// triangles. Mid nodes average their endpoints' attributes and take the
// edge's marker.
func (m *mesh) addMidNodes(markBoundary bool) {
	mids := make(map[edgeKey]int)
	m.midNodes = make([][3]int, len(m.triangles))
	for t := range m.triangles {
		for i := 0; i < 3; i++ {
			a, b := m.edge(t, i)
			key := keyOf(a, b)
			v, ok := mids[key]
			if !ok {
				v = len(m.xs)
				mids[key] = v
				m.xs = append(m.xs, (m.xs[a]+m.xs[b])/2)
				m.ys = append(m.ys, (m.ys[a]+m.ys[b])/2)
				for k := 0; k < m.attrWidth; k++ {
					m.attrs = append(m.attrs, (m.attrs[m.attrWidth*a+k]+m.attrs[m.attrWidth*b+k])/2)
				}
				marker := 0
				if markBoundary {
					marker = m.edgeMarker(t, i)
				}
				m.markers = append(m.markers, marker)
			}
			m.midNodes[t][i] = v
		}
	}
}
