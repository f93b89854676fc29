package meshio

// Getters read the flat arrays back into Go values in index order. They
// never modify the buffer. Shapes that depend on how the buffer was produced
// (markers, neighbors) are decided by whether the array is nil, never by a
// stored flag.

type PointRecord struct {
	Point
	Marker int
}

type EdgeRecord struct {
	A, B   int
	Marker int
}

type SegmentRecord struct {
	Segment
	Marker int
}

type TriangleRecord struct {
	// Corners has NumberOfCorners entries. The first three are the vertices;
	// second-order meshes append the three mid-edge nodes.
	Corners []int
	// Neighbors is empty unless the engine computed neighbors, in which case
	// it has three entries, -1 marking a boundary.
	Neighbors  []int
	Attributes []float64
}

func (b *Buffer) NumPoints() int {
	return b.NumberOfPoints
}

func (b *Buffer) NumTriangles() int {
	return b.NumberOfTriangles
}

func (b *Buffer) NumEdges() int {
	return b.NumberOfEdges
}

// Points returns every point with its marker. Points without a marker array
// report marker 0.
func (b *Buffer) Points() []PointRecord {
	points := b.PointList.Data()
	markers := b.PointMarkerList.Data()
	result := make([]PointRecord, b.NumberOfPoints)
	for i := range result {
		result[i].X = points[PointStride*i]
		result[i].Y = points[PointStride*i+1]
		if markers != nil {
			result[i].Marker = int(markers[i])
		}
	}
	return result
}

// PointAttributes returns one vector of NumberOfPointAttributes values per
// point.
func (b *Buffer) PointAttributes() [][]float64 {
	return unflatten(b.PointAttributeList.Data(), b.NumberOfPoints, b.NumberOfPointAttributes)
}

func (b *Buffer) TriangleAttributes() [][]float64 {
	return unflatten(b.TriangleAttributeList.Data(), b.NumberOfTriangles, b.NumberOfTriangleAttributes)
}

// TriangleAreas returns the per-triangle area constraints, or nil when none
// are set.
func (b *Buffer) TriangleAreas() []float64 {
	if b.TriangleAreaList.IsNil() {
		return nil
	}
	return append([]float64(nil), b.TriangleAreaList.Data()[:b.NumberOfTriangles]...)
}

// Edges returns every edge with its marker. Voronoi edges have no markers and
// report 0; a second endpoint of -1 marks an infinite ray (see Norms).
func (b *Buffer) Edges() []EdgeRecord {
	edges := b.EdgeList.Data()
	markers := b.EdgeMarkerList.Data()
	result := make([]EdgeRecord, b.NumberOfEdges)
	for i := range result {
		result[i].A = int(edges[EdgeStride*i])
		result[i].B = int(edges[EdgeStride*i+1])
		if markers != nil {
			result[i].Marker = int(markers[i])
		}
	}
	return result
}

// Norms returns the direction of each Voronoi edge, which is only meaningful
// for rays. It is nil for buffers that are not Voronoi output.
func (b *Buffer) Norms() []Point {
	if b.NormList.IsNil() {
		return nil
	}
	return pairs(b.NormList.Data(), b.NumberOfEdges)
}

func (b *Buffer) Triangles() []TriangleRecord {
	corners := b.NumberOfCorners
	neighborWidth := 0
	if !b.NeighborList.IsNil() {
		neighborWidth = NeighborStride
	}
	attributeWidth := b.NumberOfTriangleAttributes

	triangles := b.TriangleList.Data()
	neighbors := b.NeighborList.Data()
	attributes := b.TriangleAttributeList.Data()

	result := make([]TriangleRecord, b.NumberOfTriangles)
	for i := range result {
		record := TriangleRecord{
			Corners:    make([]int, corners),
			Neighbors:  make([]int, neighborWidth),
			Attributes: make([]float64, attributeWidth),
		}
		for j := 0; j < corners; j++ {
			record.Corners[j] = int(triangles[corners*i+j])
		}
		for j := 0; j < neighborWidth; j++ {
			record.Neighbors[j] = int(neighbors[neighborWidth*i+j])
		}
		copy(record.Attributes, attributes[attributeWidth*i:attributeWidth*(i+1)])
		result[i] = record
	}
	return result
}

func (b *Buffer) Segments() []SegmentRecord {
	segments := b.SegmentList.Data()
	markers := b.SegmentMarkerList.Data()
	result := make([]SegmentRecord, b.NumberOfSegments)
	for i := range result {
		result[i].A = int(segments[SegmentStride*i])
		result[i].B = int(segments[SegmentStride*i+1])
		if markers != nil {
			result[i].Marker = int(markers[i])
		}
	}
	return result
}

func (b *Buffer) Holes() []Point {
	return pairs(b.HoleList.Data(), b.NumberOfHoles)
}

func (b *Buffer) Regions() []Region {
	data := b.RegionList.Data()
	result := make([]Region, b.NumberOfRegions)
	for i := range result {
		result[i] = Region{
			X:         data[RegionStride*i],
			Y:         data[RegionStride*i+1],
			Attribute: data[RegionStride*i+2],
			MaxArea:   data[RegionStride*i+3],
		}
	}
	return result
}

func pairs(data []float64, n int) []Point {
	result := make([]Point, n)
	for i := range result {
		result[i] = Point{data[2*i], data[2*i+1]}
	}
	return result
}

func unflatten(data []float64, n, width int) [][]float64 {
	result := make([][]float64, n)
	for i := range result {
		result[i] = append(make([]float64, 0, width), data[width*i:width*(i+1)]...)
	}
	return result
}
