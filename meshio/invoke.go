package meshio

import "github.com/osuushi/triangulateio/alloc"

// Engine is a meshing backend. Triangulate reads in, writes out and vor, and
// may rewrite in while refining. Storage placed in out or vor must come from
// that buffer's Allocator, and whatever the buffer held before must be
// released first so that reused output buffers do not leak.
//
// An engine may leave out's hole and region arrays sharing in's storage
// instead of copying them; Invoke repairs that before returning. Failures
// inside the engine are panics and are not recovered here.
type Engine interface {
	Triangulate(switches string, in, out, vor *Buffer)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(switches string, in, out, vor *Buffer)

func (f EngineFunc) Triangulate(switches string, in, out, vor *Buffer) {
	f(switches, in, out, vor)
}

// Invoke runs one engine call. Arguments are checked before the engine is
// touched, so a rejected call changes nothing. The switches are passed
// through unread.
//
// Invoke is not exception-safe: if the engine panics, in may be partially
// rewritten, and out may still share hole and region storage with in.
// Callers that recover from such a panic should Abandon out rather than
// destroy both in and out.
func Invoke(eng Engine, switches string, in, out, vor *Buffer) error {
	const op = "Invoke"
	if eng == nil {
		return shapeErrorf(op, "nil engine")
	}
	for _, role := range []struct {
		name string
		b    *Buffer
	}{{"input", in}, {"output", out}, {"voronoi", vor}} {
		if role.b == nil {
			return shapeErrorf(op, "nil %s buffer", role.name)
		}
		if role.b.destroyed {
			return shapeErrorf(op, "%s buffer has been destroyed", role.name)
		}
	}
	if in == out || in == vor || out == vor {
		return shapeErrorf(op, "input, output and voronoi buffers must be distinct")
	}

	eng.Triangulate(switches, in, out, vor)
	fixupAliases(in, out)
	out.generation++
	return nil
}

// fixupAliases gives out its own copies of in's holes and regions. Engines
// following the Triangle contract point out's hole and region lists at in's
// arrays; destroying both buffers would then free the same storage twice.
// An engine that copied instead owns its arrays, and those are released.
func fixupAliases(in, out *Buffer) {
	detachCopy(&out.HoleList, &in.HoleList, out.allocator, "holelist", HoleStride*in.NumberOfHoles)
	out.NumberOfHoles = in.NumberOfHoles

	detachCopy(&out.RegionList, &in.RegionList, out.allocator, "regionlist", RegionStride*in.NumberOfRegions)
	out.NumberOfRegions = in.NumberOfRegions
}

func detachCopy(dst, src *alloc.Array[float64], al alloc.Allocator, label string, n int) {
	if dst.Aliases(src) {
		dst.Forget()
	}
	if n == 0 {
		dst.Release()
		return
	}
	dst.CopyFrom(al, label, src.Data()[:n])
}
