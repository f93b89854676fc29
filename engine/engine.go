// Package engine is a reference triangulation engine behind the
// meshio.Engine interface. It reads the Triangle switch string and fills the
// output buffers the way an external Triangle build would, including the
// habit of pointing the output's hole and region lists at the input's arrays
// in poly mode.
//
// The engine computes a Delaunay triangulation of the input vertices, or
// reuses the input triangles when refining. It never inserts Steiner points,
// so quality and area constraints are accepted and ignored, and segments
// that are not already Delaunay edges are not recovered.
package engine

import (
	"context"
	"log/slog"

	"github.com/osuushi/triangulateio/meshio"
)

// Reference is the reference engine. The zero value is not usable; call New.
type Reference struct {
	logger *slog.Logger
}

var _ meshio.Engine = (*Reference)(nil)

type Option func(*Reference)

// WithLogger sets the logger for progress and warnings. The Q switch silences
// it for a single call, and V enables debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reference) {
		r.logger = logger
	}
}

func New(opts ...Option) *Reference {
	r := &Reference{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Triangulate implements meshio.Engine. Input it cannot work with, such as
// fewer than three vertices or a segment naming a missing vertex, makes it
// panic with a Failure.
func (r *Reference) Triangulate(switchString string, in, out, vor *meshio.Buffer) {
	sw := parseSwitches(switchString)
	logger := r.callLogger(sw)
	offset := 1
	if sw.zeroBased {
		offset = 0
	}

	m := newMesh(in, sw.poly, offset)
	if sw.refine {
		m.loadTriangles(in, offset)
	} else {
		m.triangles = delaunay(m.xs, m.ys, logger)
	}
	m.buildNeighbors()

	if sw.poly && !sw.refine {
		if eaten := m.carve(in.Holes(), sw.convex, sw.noHoles); eaten > 0 {
			logger.Debug("carved triangles", "count", eaten)
		}
		if sw.regionAttributes {
			m.assignRegions(in.Regions())
		}
	}
	if !sw.noBoundaryMarkers {
		m.markBoundary()
	}
	if sw.order == 2 {
		m.addMidNodes(!sw.noBoundaryMarkers)
	}

	writeOutput(m, sw, offset, in, out)
	if sw.voronoi {
		writeVoronoi(m, offset, vor)
	}
	logger.Info("triangulated",
		"switches", switchString,
		"vertices", len(m.xs),
		"triangles", len(m.triangles),
		"segments", len(m.segs),
	)
}

func (r *Reference) callLogger(sw switches) *slog.Logger {
	if sw.quiet {
		return slog.New(discardHandler{})
	}
	if sw.verbose {
		return slog.New(verboseHandler{r.logger.Handler()})
	}
	return r.logger
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// verboseHandler passes debug records through regardless of the wrapped
// handler's level.
type verboseHandler struct {
	slog.Handler
}

func (verboseHandler) Enabled(context.Context, slog.Level) bool { return true }

func (v verboseHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return verboseHandler{v.Handler.WithAttrs(attrs)}
}

func (v verboseHandler) WithGroup(name string) slog.Handler {
	return verboseHandler{v.Handler.WithGroup(name)}
}
