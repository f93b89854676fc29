// Package meshio holds the mesh exchange buffer: a planar mesh stored as the
// flat typed arrays a meshing engine reads and writes, the conversions
// between those arrays and Go values, and the protocol for running an engine
// over an input, output and Voronoi buffer.
//
// The exported array fields are the engine-facing contract and follow the
// engine's field schema. Everything else should go through the setters and
// getters, which keep the counts and array lengths in step.
package meshio

import (
	"fmt"

	"github.com/osuushi/triangulateio/alloc"
	"github.com/pkg/errors"
)

// Strides, in scalars per record.
const (
	PointStride    = 2
	HoleStride     = 2
	SegmentStride  = 2
	EdgeStride     = 2
	NormStride     = 2
	NeighborStride = 3
	// A region is (x, y, attribute, max area). The wider eight-scalar layout
	// with extra per-region area slots is not supported.
	RegionStride = 4
)

type Point struct {
	X, Y float64
}

// Segment joins two point indices.
type Segment struct {
	A, B int
}

type Region struct {
	X, Y      float64
	Attribute float64
	MaxArea   float64
}

// Buffer is one mesh exchange buffer. The zero value is not usable; create
// buffers with New and release them with Destroy.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	PointList               alloc.Array[float64]
	PointAttributeList      alloc.Array[float64]
	PointMarkerList         alloc.Array[int32]
	NumberOfPoints          int
	NumberOfPointAttributes int

	TriangleList               alloc.Array[int32]
	TriangleAttributeList      alloc.Array[float64]
	TriangleAreaList           alloc.Array[float64]
	NeighborList               alloc.Array[int32]
	NumberOfTriangles          int
	NumberOfCorners            int
	NumberOfTriangleAttributes int

	SegmentList       alloc.Array[int32]
	SegmentMarkerList alloc.Array[int32]
	NumberOfSegments  int

	HoleList      alloc.Array[float64]
	NumberOfHoles int

	RegionList      alloc.Array[float64]
	NumberOfRegions int

	// Edges and norms are only ever written by an engine. Norms are used by
	// Voronoi output, edge markers by everything else.
	EdgeList       alloc.Array[int32]
	EdgeMarkerList alloc.Array[int32]
	NormList       alloc.Array[float64]
	NumberOfEdges  int

	allocator  alloc.Allocator
	generation int
	destroyed  bool
}

type Option func(*Buffer)

// WithAllocator makes the buffer allocate its arrays from al.
func WithAllocator(al alloc.Allocator) Option {
	return func(b *Buffer) {
		b.allocator = al
	}
}

// New returns an empty buffer: every array nil, every count zero.
func New(opts ...Option) *Buffer {
	b := &Buffer{allocator: alloc.Default}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Allocator is the allocator engines must use for storage they put in this
// buffer.
func (b *Buffer) Allocator() alloc.Allocator {
	return b.allocator
}

// Generation counts the invocations this buffer has received output from.
func (b *Buffer) Generation() int {
	return b.generation
}

func (b *Buffer) Destroyed() bool {
	return b.destroyed
}

// Destroy releases every array the buffer owns. Destroying a buffer twice is
// a programming error and panics. If an engine left this buffer sharing an
// array with another buffer and no fixup ran, the second of the two to be
// destroyed panics with a double free.
func (b *Buffer) Destroy() {
	if b.destroyed {
		panic(errors.New("meshio: buffer destroyed twice"))
	}
	b.PointList.Release()
	b.PointAttributeList.Release()
	b.PointMarkerList.Release()

	b.TriangleList.Release()
	b.TriangleAttributeList.Release()
	b.TriangleAreaList.Release()
	b.NeighborList.Release()

	b.SegmentList.Release()
	b.SegmentMarkerList.Release()

	b.HoleList.Release()
	b.RegionList.Release()

	b.EdgeList.Release()
	b.EdgeMarkerList.Release()
	b.NormList.Release()

	*b = Buffer{allocator: b.allocator, generation: b.generation, destroyed: true}
}

// Abandon marks the buffer destroyed without releasing anything. It is the
// way out after an engine panic, when the buffer may still share storage
// with another buffer and Destroy could free it twice. Whatever the buffer
// held is left to the allocator as a leak.
func (b *Buffer) Abandon() {
	*b = Buffer{allocator: b.allocator, generation: b.generation, destroyed: true}
}

func (b *Buffer) String() string {
	if b.destroyed {
		return "Buffer{destroyed}"
	}
	return fmt.Sprintf("Buffer{points: %d (attrs %d), triangles: %d (corners %d, attrs %d, neighbors %t), segments: %d, holes: %d, regions: %d, edges: %d}",
		b.NumberOfPoints, b.NumberOfPointAttributes,
		b.NumberOfTriangles, b.NumberOfCorners, b.NumberOfTriangleAttributes, !b.NeighborList.IsNil(),
		b.NumberOfSegments, b.NumberOfHoles, b.NumberOfRegions, b.NumberOfEdges)
}
