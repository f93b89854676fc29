package engine

import (
	"github.com/osuushi/triangulateio/meshio"
)

// writeOutput replaces out's contents with the mesh. Indices are shifted by
// offset. In poly mode out's hole and region lists are pointed at in's
// arrays rather than copied, which is the engine contract meshio.Invoke
// repairs after the call.
func writeOutput(m *mesh, sw switches, offset int, in, out *meshio.Buffer) {
	al := out.Allocator()

	n := len(m.xs)
	out.PointList.Allocate(al, "pointlist", meshio.PointStride*n)
	points := out.PointList.Data()
	for i := 0; i < n; i++ {
		points[meshio.PointStride*i] = m.xs[i]
		points[meshio.PointStride*i+1] = m.ys[i]
	}
	out.PointAttributeList.Allocate(al, "pointattributelist", len(m.attrs))
	copy(out.PointAttributeList.Data(), m.attrs)
	if sw.noBoundaryMarkers {
		out.PointMarkerList.Release()
	} else {
		out.PointMarkerList.Allocate(al, "pointmarkerlist", n)
		markers := out.PointMarkerList.Data()
		for i, marker := range m.markers {
			markers[i] = int32(marker)
		}
	}
	out.NumberOfPoints = n
	out.NumberOfPointAttributes = m.attrWidth
	if n == 0 {
		out.NumberOfPointAttributes = 0
	}

	nt := len(m.triangles)
	corners := 3
	if m.midNodes != nil {
		corners = 6
	}
	out.TriangleList.Allocate(al, "trianglelist", corners*nt)
	list := out.TriangleList.Data()
	for t, tri := range m.triangles {
		for j := 0; j < 3; j++ {
			list[corners*t+j] = int32(tri[j] + offset)
			if corners == 6 {
				list[corners*t+3+j] = int32(m.midNodes[t][j] + offset)
			}
		}
	}
	out.NumberOfTriangles = nt
	out.NumberOfCorners = corners
	if nt == 0 {
		out.NumberOfCorners = 0
	}

	width := m.triAttrWidth
	if m.triAttrs == nil {
		width = 0
	}
	out.TriangleAttributeList.Allocate(al, "triangleattributelist", width*nt)
	triAttrs := out.TriangleAttributeList.Data()
	for t, attrs := range m.triAttrs {
		copy(triAttrs[width*t:width*(t+1)], attrs)
	}
	out.NumberOfTriangleAttributes = width
	if nt == 0 {
		out.NumberOfTriangleAttributes = 0
	}
	out.TriangleAreaList.Release()

	if sw.neighbors {
		out.NeighborList.Allocate(al, "neighborlist", meshio.NeighborStride*nt)
		neighbors := out.NeighborList.Data()
		for t, nbs := range m.neighbors {
			for i, nb := range nbs {
				if nb >= 0 {
					nb += offset
				}
				neighbors[meshio.NeighborStride*t+i] = int32(nb)
			}
		}
	} else {
		out.NeighborList.Release()
	}

	writeSegments(m, sw, offset, out)

	out.HoleList.Release()
	out.RegionList.Release()
	if sw.poly {
		out.HoleList.Alias(&in.HoleList)
		out.NumberOfHoles = in.NumberOfHoles
		out.RegionList.Alias(&in.RegionList)
		out.NumberOfRegions = in.NumberOfRegions
	} else {
		out.NumberOfHoles = 0
		out.NumberOfRegions = 0
	}

	out.NormList.Release()
	if !sw.edges {
		out.EdgeList.Release()
		out.EdgeMarkerList.Release()
		out.NumberOfEdges = 0
		return
	}
	edges := m.edgeList()
	out.EdgeList.Allocate(al, "edgelist", meshio.EdgeStride*len(edges))
	edgeList := out.EdgeList.Data()
	for k, e := range edges {
		a, b := m.edge(e.t, e.i)
		edgeList[meshio.EdgeStride*k] = int32(a + offset)
		edgeList[meshio.EdgeStride*k+1] = int32(b + offset)
	}
	if sw.noBoundaryMarkers {
		out.EdgeMarkerList.Release()
	} else {
		out.EdgeMarkerList.Allocate(al, "edgemarkerlist", len(edges))
		edgeMarkers := out.EdgeMarkerList.Data()
		for k, e := range edges {
			edgeMarkers[k] = int32(m.edgeMarker(e.t, e.i))
		}
	}
	out.NumberOfEdges = len(edges)
}

func writeSegments(m *mesh, sw switches, offset int, out *meshio.Buffer) {
	al := out.Allocator()
	if !sw.poly {
		out.SegmentList.Release()
		out.SegmentMarkerList.Release()
		out.NumberOfSegments = 0
		return
	}
	out.SegmentList.Allocate(al, "segmentlist", meshio.SegmentStride*len(m.segs))
	segments := out.SegmentList.Data()
	for i, s := range m.segs {
		segments[meshio.SegmentStride*i] = int32(s.a + offset)
		segments[meshio.SegmentStride*i+1] = int32(s.b + offset)
	}
	if sw.noBoundaryMarkers {
		out.SegmentMarkerList.Release()
	} else {
		out.SegmentMarkerList.Allocate(al, "segmentmarkerlist", len(m.segs))
		markers := out.SegmentMarkerList.Data()
		for i, s := range m.segs {
			markers[i] = int32(s.marker)
		}
	}
	out.NumberOfSegments = len(m.segs)
}

// writeVoronoi replaces vor's contents with the dual of the mesh: one point
// per triangle at its circumcenter, one edge per mesh edge. An edge between
// two triangles joins their circumcenters; a boundary edge becomes a ray from
// its triangle's circumcenter, with second endpoint -1 and its direction in
// the norm list.
func writeVoronoi(m *mesh, offset int, vor *meshio.Buffer) {
	al := vor.Allocator()

	nt := len(m.triangles)
	vor.PointList.Allocate(al, "pointlist", meshio.PointStride*nt)
	points := vor.PointList.Data()
	for t, tri := range m.triangles {
		a, b, c := tri[0], tri[1], tri[2]
		x, y := circumcenter(m.xs[a], m.ys[a], m.xs[b], m.ys[b], m.xs[c], m.ys[c])
		points[meshio.PointStride*t] = x
		points[meshio.PointStride*t+1] = y
	}
	vor.NumberOfPoints = nt
	vor.PointAttributeList.Release()
	vor.PointMarkerList.Release()
	vor.NumberOfPointAttributes = 0

	vor.TriangleList.Release()
	vor.TriangleAttributeList.Release()
	vor.TriangleAreaList.Release()
	vor.NeighborList.Release()
	vor.NumberOfTriangles = 0
	vor.NumberOfCorners = 0
	vor.NumberOfTriangleAttributes = 0
	vor.SegmentList.Release()
	vor.SegmentMarkerList.Release()
	vor.NumberOfSegments = 0

	edges := m.edgeList()
	vor.EdgeList.Allocate(al, "edgelist", meshio.EdgeStride*len(edges))
	vor.NormList.Allocate(al, "normlist", meshio.NormStride*len(edges))
	vor.EdgeMarkerList.Release()
	edgeList := vor.EdgeList.Data()
	norms := vor.NormList.Data()
	for k, e := range edges {
		edgeList[meshio.EdgeStride*k] = int32(e.t + offset)
		nb := m.neighbors[e.t][e.i]
		if nb >= 0 {
			edgeList[meshio.EdgeStride*k+1] = int32(nb + offset)
			continue
		}
		edgeList[meshio.EdgeStride*k+1] = -1
		// The triangle is counterclockwise, so its outside is to the right
		// of a to b.
		a, b := m.edge(e.t, e.i)
		norms[meshio.NormStride*k] = m.ys[b] - m.ys[a]
		norms[meshio.NormStride*k+1] = -(m.xs[b] - m.xs[a])
	}
	vor.NumberOfEdges = len(edges)
}
