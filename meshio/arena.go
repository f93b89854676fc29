package meshio

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/osuushi/triangulateio/alloc"
	"github.com/osuushi/triangulateio/dbg"
)

var arenaIDs atomic.Uint64

// Handle is the caller's token for a buffer living in an Arena. The buffer
// itself never crosses the boundary; a handle is only good for the arena
// that issued it, and only until it is destroyed.
type Handle struct {
	arena uint64
	id    uint64
}

func (h Handle) IsZero() bool {
	return h == Handle{}
}

func (h Handle) String() string {
	if h.IsZero() {
		return "Handle(Ø)"
	}
	return fmt.Sprintf("Handle(%s#%d)", dbg.Name(h), h.id)
}

// Arena owns a set of buffers and exposes them by handle, one method per
// host-facing operation. Because the arena forgets a handle when it
// destroys its buffer, a second destroy is an argument error rather than a
// double free.
//
// The handle registry is safe for concurrent use; the buffers behind the
// handles are not, so a single handle must not be used from two goroutines
// at once.
type Arena struct {
	id        uint64
	allocator alloc.Allocator
	engine    Engine

	mu      sync.RWMutex
	buffers map[uint64]*Buffer
	nextID  uint64
}

type ArenaOption func(*Arena)

// WithArenaAllocator sets the allocator for every buffer the arena creates.
func WithArenaAllocator(al alloc.Allocator) ArenaOption {
	return func(a *Arena) {
		a.allocator = al
	}
}

// NewArena returns an arena that runs eng on Invoke.
func NewArena(eng Engine, opts ...ArenaOption) *Arena {
	a := &Arena{
		id:        arenaIDs.Add(1),
		allocator: alloc.Default,
		engine:    eng,
		buffers:   make(map[uint64]*Buffer),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Create makes a new empty buffer and returns its handle.
func (a *Arena) Create() Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	a.buffers[a.nextID] = New(WithAllocator(a.allocator))
	return Handle{arena: a.id, id: a.nextID}
}

// Destroy releases the buffer behind h. The handle is dead afterwards.
func (a *Arena) Destroy(h Handle) error {
	a.mu.Lock()
	b, err := a.lookupLocked("Destroy", h)
	if err != nil {
		a.mu.Unlock()
		return err
	}
	delete(a.buffers, h.id)
	a.mu.Unlock()

	b.Destroy()
	return nil
}

// Abandon forgets the buffer behind h without releasing its arrays. See
// Buffer.Abandon.
func (a *Arena) Abandon(h Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, err := a.lookupLocked("Abandon", h)
	if err != nil {
		return err
	}
	delete(a.buffers, h.id)
	b.Abandon()
	return nil
}

// Close destroys every buffer still alive in the arena.
func (a *Arena) Close() {
	a.mu.Lock()
	buffers := a.buffers
	a.buffers = make(map[uint64]*Buffer)
	a.mu.Unlock()

	for _, b := range buffers {
		b.Destroy()
	}
}

// Len is the number of live buffers.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.buffers)
}

func (a *Arena) lookup(op string, h Handle) (*Buffer, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lookupLocked(op, h)
}

func (a *Arena) lookupLocked(op string, h Handle) (*Buffer, error) {
	if h.arena != a.id {
		return nil, shapeErrorf(op, "%s does not belong to this arena", h)
	}
	b, ok := a.buffers[h.id]
	if !ok {
		return nil, shapeErrorf(op, "%s is not a live buffer", h)
	}
	return b, nil
}

func (a *Arena) SetPoints(h Handle, coords []Point, markers []int) error {
	b, err := a.lookup("SetPoints", h)
	if err != nil {
		return err
	}
	return b.SetPoints(coords, markers)
}

func (a *Arena) SetPointAttributes(h Handle, vectors [][]float64) error {
	b, err := a.lookup("SetPointAttributes", h)
	if err != nil {
		return err
	}
	return b.SetPointAttributes(vectors)
}

func (a *Arena) SetTriangleAttributes(h Handle, vectors [][]float64) error {
	b, err := a.lookup("SetTriangleAttributes", h)
	if err != nil {
		return err
	}
	return b.SetTriangleAttributes(vectors)
}

func (a *Arena) PointAttributes(h Handle) ([][]float64, error) {
	b, err := a.lookup("PointAttributes", h)
	if err != nil {
		return nil, err
	}
	return b.PointAttributes(), nil
}

func (a *Arena) TriangleAttributes(h Handle) ([][]float64, error) {
	b, err := a.lookup("TriangleAttributes", h)
	if err != nil {
		return nil, err
	}
	return b.TriangleAttributes(), nil
}

func (a *Arena) SetSegments(h Handle, pairs []Segment, markers []int) error {
	b, err := a.lookup("SetSegments", h)
	if err != nil {
		return err
	}
	return b.SetSegments(pairs, markers)
}

func (a *Arena) SetHoles(h Handle, coords []Point) error {
	b, err := a.lookup("SetHoles", h)
	if err != nil {
		return err
	}
	return b.SetHoles(coords)
}

func (a *Arena) SetRegions(h Handle, regions []Region) error {
	b, err := a.lookup("SetRegions", h)
	if err != nil {
		return err
	}
	return b.SetRegions(regions)
}

// Invoke runs the arena's engine over three of its buffers. See the
// package-level Invoke.
func (a *Arena) Invoke(switches string, in, out, vor Handle) error {
	const op = "Invoke"
	var buffers [3]*Buffer
	for i, h := range []Handle{in, out, vor} {
		b, err := a.lookup(op, h)
		if err != nil {
			return err
		}
		buffers[i] = b
	}
	return Invoke(a.engine, switches, buffers[0], buffers[1], buffers[2])
}

func (a *Arena) NumPoints(h Handle) (int, error) {
	b, err := a.lookup("NumPoints", h)
	if err != nil {
		return 0, err
	}
	return b.NumPoints(), nil
}

func (a *Arena) NumTriangles(h Handle) (int, error) {
	b, err := a.lookup("NumTriangles", h)
	if err != nil {
		return 0, err
	}
	return b.NumTriangles(), nil
}

func (a *Arena) Points(h Handle) ([]PointRecord, error) {
	b, err := a.lookup("Points", h)
	if err != nil {
		return nil, err
	}
	return b.Points(), nil
}

func (a *Arena) Edges(h Handle) ([]EdgeRecord, error) {
	b, err := a.lookup("Edges", h)
	if err != nil {
		return nil, err
	}
	return b.Edges(), nil
}

func (a *Arena) Triangles(h Handle) ([]TriangleRecord, error) {
	b, err := a.lookup("Triangles", h)
	if err != nil {
		return nil, err
	}
	return b.Triangles(), nil
}

func (a *Arena) Segments(h Handle) ([]SegmentRecord, error) {
	b, err := a.lookup("Segments", h)
	if err != nil {
		return nil, err
	}
	return b.Segments(), nil
}

func (a *Arena) Norms(h Handle) ([]Point, error) {
	b, err := a.lookup("Norms", h)
	if err != nil {
		return nil, err
	}
	return b.Norms(), nil
}

// Describe is the buffer's String.
func (a *Arena) Describe(h Handle) (string, error) {
	b, err := a.lookup("Describe", h)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// DrawPNG renders the buffer behind h as a PNG. See Buffer.DrawPNG.
func (a *Arena) DrawPNG(w io.Writer, h Handle, scale float64, firstIndex int) error {
	b, err := a.lookup("DrawPNG", h)
	if err != nil {
		return err
	}
	return b.DrawPNG(w, scale, firstIndex)
}
