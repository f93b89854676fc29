// Package triangulateio runs mesh sessions over the meshio exchange buffers.
//
// It wraps an Arena of buffers in the workflow of a meshing
// session: set the points, segments, holes and regions of the input, run an
// initial triangulation, refine it any number of times, and read any level
// back. Level 0 is the input, level 1 the first triangulation, and negative
// levels count back from the latest.
package triangulateio

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/osuushi/triangulateio/alloc"
	"github.com/osuushi/triangulateio/engine"
	"github.com/osuushi/triangulateio/meshio"
	"github.com/pkg/errors"
)

type Point = meshio.Point
type Segment = meshio.Segment
type Region = meshio.Region
type PointRecord = meshio.PointRecord
type EdgeRecord = meshio.EdgeRecord
type TriangleRecord = meshio.TriangleRecord

// DefaultMode is a zero-based quality triangulation of a planar straight
// line graph, with edges, run quietly.
const DefaultMode = "pzq27eQ"

var (
	ErrNoPoints        = errors.New("triangulateio: points must be set before triangulating")
	ErrNotTriangulated = errors.New("triangulateio: no triangulation to refine")
)

// Triangle is one meshing session. It is not safe for concurrent use.
type Triangle struct {
	arena   *meshio.Arena
	logger  *slog.Logger
	levels  []meshio.Handle
	voronoi meshio.Handle

	mode      string
	area      float64
	hasPoints bool
}

type options struct {
	engine    meshio.Engine
	allocator alloc.Allocator
	logger    *slog.Logger
	mode      string
}

type Option func(*options)

// WithEngine replaces the reference engine.
func WithEngine(eng meshio.Engine) Option {
	return func(o *options) {
		o.engine = eng
	}
}

func WithAllocator(al alloc.Allocator) Option {
	return func(o *options) {
		o.allocator = al
	}
}

// WithLogger sets the session's logger, which is also handed to the
// reference engine when no other engine is given.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMode sets the switches Triangulate uses when called with an empty mode.
func WithMode(mode string) Option {
	return func(o *options) {
		o.mode = mode
	}
}

func New(opts ...Option) *Triangle {
	o := options{
		allocator: alloc.Default,
		logger:    slog.Default(),
		mode:      DefaultMode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = engine.New(engine.WithLogger(o.logger))
	}

	arena := meshio.NewArena(o.engine, meshio.WithArenaAllocator(o.allocator))
	return &Triangle{
		arena:   arena,
		logger:  o.logger,
		levels:  []meshio.Handle{arena.Create()},
		voronoi: arena.Create(),
		mode:    o.mode,
	}
}

// SetPoints sets the input points. Markers are 1 for points on the outer
// boundary and 0 elsewhere. A marker list of the wrong length is padded with
// zeros or truncated, with a warning; a nil list marks every point 0.
func (t *Triangle) SetPoints(points []Point, markers []int) error {
	if markers != nil && len(markers) != len(points) {
		t.logger.Warn("marker list does not match point list",
			"points", len(points),
			"markers", len(markers),
		)
	}
	fitted := make([]int, len(points))
	copy(fitted, markers)
	if err := t.arena.SetPoints(t.levels[0], points, fitted); err != nil {
		return err
	}
	t.hasPoints = true
	return nil
}

// SetSegments sets the boundary contour as pairs of point indices,
// counterclockwise for an outer boundary and clockwise for an inner one.
// markers may be nil.
func (t *Triangle) SetSegments(segments []Segment, markers []int) error {
	return t.arena.SetSegments(t.levels[0], segments, markers)
}

// SetHoles sets one point inside each hole.
func (t *Triangle) SetHoles(holes []Point) error {
	return t.arena.SetHoles(t.levels[0], holes)
}

func (t *Triangle) SetRegions(regions []Region) error {
	return t.arena.SetRegions(t.levels[0], regions)
}

func (t *Triangle) SetPointAttributes(attributes [][]float64) error {
	return t.arena.SetPointAttributes(t.levels[0], attributes)
}

// SetTriangleAttributes sets attributes on the triangles of the first
// triangulation, ahead of a refinement.
func (t *Triangle) SetTriangleAttributes(attributes [][]float64) error {
	if len(t.levels) < 2 {
		return ErrNotTriangulated
	}
	return t.arena.SetTriangleAttributes(t.levels[1], attributes)
}

// Triangulate runs the initial triangulation. An empty mode uses the
// session's default, and a positive area adds a maximum triangle area.
// Triangulating again replaces level 1 and drops any refinements.
func (t *Triangle) Triangulate(area float64, mode string) error {
	if !t.hasPoints {
		return ErrNoPoints
	}
	if mode == "" {
		mode = t.mode
	}
	t.mode = mode
	t.area = area
	if area > 0 {
		mode += fmt.Sprintf("a%f", area)
	}

	for _, h := range t.levels[1:] {
		if err := t.arena.Destroy(h); err != nil {
			return err
		}
	}
	t.levels = t.levels[:1]
	return t.run(mode)
}

// Refine triangulates the latest level again with the area constraint
// divided by areaRatio, adding a new level.
func (t *Triangle) Refine(areaRatio float64) error {
	if len(t.levels) < 2 {
		return ErrNotTriangulated
	}
	if areaRatio <= 0 {
		return errors.Errorf("triangulateio: area ratio must be positive, got %g", areaRatio)
	}
	mode := t.mode + "cr"
	if t.area > 0 {
		t.area /= areaRatio
		mode += fmt.Sprintf("a%f", t.area)
	}
	return t.run(mode)
}

// run invokes the engine from the latest level into a new one. An engine
// failure comes back as an error. The half-written level may alias the
// input and is abandoned rather than destroyed; the Voronoi buffer never
// does and is destroyed.
func (t *Triangle) run(mode string) (err error) {
	in := t.levels[len(t.levels)-1]
	out := t.arena.Create()
	defer func() {
		recoveredErr := engine.Recover(recover())
		if recoveredErr == nil {
			return
		}
		_ = t.arena.Abandon(out)
		_ = t.arena.Destroy(t.voronoi)
		t.voronoi = t.arena.Create()
		err = errors.Wrapf(recoveredErr, "triangulateio: triangulating with %q", mode)
	}()

	if err := t.arena.Invoke(mode, in, out, t.voronoi); err != nil {
		_ = t.arena.Destroy(out)
		return err
	}
	t.levels = append(t.levels, out)
	t.logger.Debug("mesh level added", "level", len(t.levels)-1, "mode", mode)
	return nil
}

// Levels is the number of levels, input included.
func (t *Triangle) Levels() int {
	return len(t.levels)
}

func (t *Triangle) level(level int) (meshio.Handle, error) {
	i := level
	if i < 0 {
		i += len(t.levels)
	}
	if i < 0 || i >= len(t.levels) {
		return meshio.Handle{}, errors.Errorf("triangulateio: no level %d in %d levels", level, len(t.levels))
	}
	return t.levels[i], nil
}

func (t *Triangle) NumPoints(level int) (int, error) {
	h, err := t.level(level)
	if err != nil {
		return 0, err
	}
	return t.arena.NumPoints(h)
}

func (t *Triangle) NumTriangles(level int) (int, error) {
	h, err := t.level(level)
	if err != nil {
		return 0, err
	}
	return t.arena.NumTriangles(h)
}

// Points returns the points of a level with their markers, 1 on the boundary
// and 0 inside.
func (t *Triangle) Points(level int) ([]PointRecord, error) {
	h, err := t.level(level)
	if err != nil {
		return nil, err
	}
	return t.arena.Points(h)
}

// Edges are only present when the mode asked for them with e.
func (t *Triangle) Edges(level int) ([]EdgeRecord, error) {
	h, err := t.level(level)
	if err != nil {
		return nil, err
	}
	return t.arena.Edges(h)
}

func (t *Triangle) Triangles(level int) ([]TriangleRecord, error) {
	h, err := t.level(level)
	if err != nil {
		return nil, err
	}
	return t.arena.Triangles(h)
}

func (t *Triangle) PointAttributes(level int) ([][]float64, error) {
	h, err := t.level(level)
	if err != nil {
		return nil, err
	}
	return t.arena.PointAttributes(h)
}

func (t *Triangle) TriangleAttributes(level int) ([][]float64, error) {
	h, err := t.level(level)
	if err != nil {
		return nil, err
	}
	return t.arena.TriangleAttributes(h)
}

// Voronoi is the diagram from the latest call whose mode included v.
type Voronoi struct {
	Points []PointRecord
	// Edges join two points, or start a ray when B is -1.
	Edges []EdgeRecord
	// Norms give each ray's direction, parallel to Edges.
	Norms []Point
}

func (t *Triangle) Voronoi() (*Voronoi, error) {
	points, err := t.arena.Points(t.voronoi)
	if err != nil {
		return nil, err
	}
	edges, err := t.arena.Edges(t.voronoi)
	if err != nil {
		return nil, err
	}
	norms, err := t.arena.Norms(t.voronoi)
	if err != nil {
		return nil, err
	}
	return &Voronoi{Points: points, Edges: edges, Norms: norms}, nil
}

// PlotMesh writes a PNG of a level at scale pixels per unit.
func (t *Triangle) PlotMesh(w io.Writer, level int, scale float64) error {
	h, err := t.level(level)
	if err != nil {
		return err
	}
	firstIndex := 1
	if strings.ContainsRune(t.mode, 'z') {
		firstIndex = 0
	}
	return t.arena.DrawPNG(w, h, scale, firstIndex)
}

// Close releases every buffer in the session. Any later call fails with an
// argument error.
func (t *Triangle) Close() {
	t.arena.Close()
}
