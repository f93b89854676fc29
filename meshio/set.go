package meshio

import "math"

// Setters copy Go values into the flat arrays. Each field group follows the
// same rule unless its doc says otherwise: when the new record count differs
// from the stored count the group's arrays are released and reallocated at
// exactly the new size, and when it is the same the existing arrays are
// overwritten in place. All argument checks happen before anything is
// released or allocated.

// SetPoints stores coordinates and their markers, which must be the same
// length. Point attributes sized for a different point count are dropped.
func (b *Buffer) SetPoints(coords []Point, markers []int) error {
	const op = "SetPoints"
	if err := b.checkLive(op); err != nil {
		return err
	}
	if len(coords) != len(markers) {
		return shapeErrorf(op, "%d coordinates but %d markers", len(coords), len(markers))
	}
	if err := checkInt32s(op, "marker", markers); err != nil {
		return err
	}

	n := len(coords)
	if n != b.NumberOfPoints {
		b.PointAttributeList.Release()
		b.NumberOfPointAttributes = 0
	}
	b.PointList.ResizeExact(b.allocator, "pointlist", PointStride*n)
	b.PointMarkerList.ResizeExact(b.allocator, "pointmarkerlist", n)
	b.NumberOfPoints = n

	points := b.PointList.Data()
	pointMarkers := b.PointMarkerList.Data()
	for i, p := range coords {
		points[PointStride*i] = p.X
		points[PointStride*i+1] = p.Y
		pointMarkers[i] = int32(markers[i])
	}
	return nil
}

// SetPointAttributes stores one attribute vector per point. Every vector
// must have the width of the first one. The attribute array is always
// reallocated.
func (b *Buffer) SetPointAttributes(vectors [][]float64) error {
	const op = "SetPointAttributes"
	if err := b.checkLive(op); err != nil {
		return err
	}
	if len(vectors) != b.NumberOfPoints {
		return countErrorf(op, "%d attribute vectors for %d points", len(vectors), b.NumberOfPoints)
	}
	width, err := uniformWidth(op, vectors)
	if err != nil {
		return err
	}
	b.PointAttributeList.Allocate(b.allocator, "pointattributelist", width*len(vectors))
	b.NumberOfPointAttributes = width
	flattenInto(b.PointAttributeList.Data(), vectors, width)
	return nil
}

// SetTriangleAttributes is SetPointAttributes for triangles.
func (b *Buffer) SetTriangleAttributes(vectors [][]float64) error {
	const op = "SetTriangleAttributes"
	if err := b.checkLive(op); err != nil {
		return err
	}
	if len(vectors) != b.NumberOfTriangles {
		return countErrorf(op, "%d attribute vectors for %d triangles", len(vectors), b.NumberOfTriangles)
	}
	width, err := uniformWidth(op, vectors)
	if err != nil {
		return err
	}
	b.TriangleAttributeList.Allocate(b.allocator, "triangleattributelist", width*len(vectors))
	b.NumberOfTriangleAttributes = width
	flattenInto(b.TriangleAttributeList.Data(), vectors, width)
	return nil
}

// SetTriangles stores triangles as lists of point indices, three corners or
// six for second-order elements. This is how a refinement input is seeded
// without a previous output buffer. When the triangle count changes, the
// neighbor, attribute and area arrays no longer line up and are dropped.
func (b *Buffer) SetTriangles(corners [][]int) error {
	const op = "SetTriangles"
	if err := b.checkLive(op); err != nil {
		return err
	}
	width := 0
	if len(corners) > 0 {
		width = len(corners[0])
	}
	for i, c := range corners {
		if len(c) != width {
			return shapeErrorf(op, "triangle %d has %d corners, expected %d", i, len(c), width)
		}
		if err := checkInt32s(op, "corner", c); err != nil {
			return err
		}
	}
	if len(corners) > 0 && width < 3 {
		return shapeErrorf(op, "triangles need at least 3 corners, got %d", width)
	}

	n := len(corners)
	b.TriangleList.ResizeExact(b.allocator, "trianglelist", width*n)
	if n != b.NumberOfTriangles {
		b.NeighborList.Release()
		b.TriangleAttributeList.Release()
		b.TriangleAreaList.Release()
		b.NumberOfTriangleAttributes = 0
	}
	b.NumberOfTriangles = n
	b.NumberOfCorners = width
	if n == 0 {
		b.NumberOfCorners = 0
	}

	triangles := b.TriangleList.Data()
	for i, c := range corners {
		for j, k := range c {
			triangles[width*i+j] = int32(k)
		}
	}
	return nil
}

// SetTriangleAreas stores a maximum area per triangle, read by engines that
// refine under per-triangle area constraints.
func (b *Buffer) SetTriangleAreas(areas []float64) error {
	const op = "SetTriangleAreas"
	if err := b.checkLive(op); err != nil {
		return err
	}
	if len(areas) != b.NumberOfTriangles {
		return countErrorf(op, "%d areas for %d triangles", len(areas), b.NumberOfTriangles)
	}
	b.TriangleAreaList.ResizeExact(b.allocator, "trianglearealist", len(areas))
	copy(b.TriangleAreaList.Data(), areas)
	return nil
}

// SetSegments stores segments as point index pairs with optional markers. A
// nil markers slice leaves the marker array nil, which engines read as all
// zero.
//
// The segment array is provisioned for at least as many pairs as there are
// points, not just for len(pairs). Engines refining a mesh in place may
// split segments into the spare room; readers only ever look at the first
// NumberOfSegments pairs. A same-count call still reallocates when the
// point count has outgrown the spare room.
func (b *Buffer) SetSegments(pairs []Segment, markers []int) error {
	const op = "SetSegments"
	if err := b.checkLive(op); err != nil {
		return err
	}
	if markers != nil && len(markers) != len(pairs) {
		return shapeErrorf(op, "%d segments but %d markers", len(pairs), len(markers))
	}
	for _, s := range pairs {
		if err := checkInt32s(op, "segment endpoint", []int{s.A, s.B}); err != nil {
			return err
		}
	}
	if err := checkInt32s(op, "marker", markers); err != nil {
		return err
	}

	n := len(pairs)
	capacity := n
	if b.NumberOfPoints > capacity {
		capacity = b.NumberOfPoints
	}
	switch {
	case n == 0:
		b.SegmentList.Release()
	case n != b.NumberOfSegments || b.SegmentList.Len() < SegmentStride*capacity:
		b.SegmentList.Allocate(b.allocator, "segmentlist", SegmentStride*capacity)
	}
	if markers == nil {
		b.SegmentMarkerList.Release()
	} else {
		b.SegmentMarkerList.ResizeExact(b.allocator, "segmentmarkerlist", n)
	}
	b.NumberOfSegments = n

	segments := b.SegmentList.Data()
	for i, s := range pairs {
		segments[SegmentStride*i] = int32(s.A)
		segments[SegmentStride*i+1] = int32(s.B)
	}
	if markers != nil {
		segmentMarkers := b.SegmentMarkerList.Data()
		for i, m := range markers {
			segmentMarkers[i] = int32(m)
		}
	}
	return nil
}

// SetHoles stores one point inside each hole.
func (b *Buffer) SetHoles(coords []Point) error {
	const op = "SetHoles"
	if err := b.checkLive(op); err != nil {
		return err
	}
	b.HoleList.ResizeExact(b.allocator, "holelist", HoleStride*len(coords))
	b.NumberOfHoles = len(coords)
	holes := b.HoleList.Data()
	for i, p := range coords {
		holes[HoleStride*i] = p.X
		holes[HoleStride*i+1] = p.Y
	}
	return nil
}

// SetRegions stores region seeds as (x, y, attribute, max area).
func (b *Buffer) SetRegions(regions []Region) error {
	const op = "SetRegions"
	if err := b.checkLive(op); err != nil {
		return err
	}
	b.RegionList.ResizeExact(b.allocator, "regionlist", RegionStride*len(regions))
	b.NumberOfRegions = len(regions)
	data := b.RegionList.Data()
	for i, r := range regions {
		data[RegionStride*i] = r.X
		data[RegionStride*i+1] = r.Y
		data[RegionStride*i+2] = r.Attribute
		data[RegionStride*i+3] = r.MaxArea
	}
	return nil
}

// checkInt32s rejects values the engine's int arrays cannot hold.
func checkInt32s(op, what string, values []int) error {
	for _, v := range values {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return shapeErrorf(op, "%s %d does not fit in 32 bits", what, v)
		}
	}
	return nil
}

func uniformWidth(op string, vectors [][]float64) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}
	width := len(vectors[0])
	for i, v := range vectors {
		if len(v) != width {
			return 0, shapeErrorf(op, "vector %d has %d attributes, expected %d", i, len(v), width)
		}
	}
	return width, nil
}

func flattenInto(dst []float64, vectors [][]float64, width int) {
	for i, v := range vectors {
		copy(dst[width*i:width*(i+1)], v)
	}
}
