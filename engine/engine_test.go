package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/osuushi/triangulateio/alloc"
	"github.com/osuushi/triangulateio/meshio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare(t *testing.T, opts ...meshio.Option) *meshio.Buffer {
	in := meshio.New(opts...)
	require.NoError(t, in.SetPoints([]meshio.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, []int{0, 0, 0, 0}))
	return in
}

func run(t *testing.T, switches string, in *meshio.Buffer, opts ...meshio.Option) (out, vor *meshio.Buffer) {
	out, vor = meshio.New(opts...), meshio.New(opts...)
	require.NoError(t, meshio.Invoke(New(WithLogger(quietLogger)), switches, in, out, vor))
	return out, vor
}

func TestTriangulateSquare(t *testing.T) {
	in := unitSquare(t)
	out, vor := run(t, "zneQ", in)

	assert.Equal(t, 4, out.NumPoints())
	for _, p := range out.Points() {
		assert.Equal(t, 1, p.Marker, "hull vertex %v", p.Point)
	}

	triangles := out.Triangles()
	require.Len(t, triangles, 2)
	boundary := 0
	for i, tri := range triangles {
		require.Len(t, tri.Corners, 3)
		require.Len(t, tri.Neighbors, 3)
		for _, nb := range tri.Neighbors {
			if nb == -1 {
				boundary++
			} else {
				assert.Equal(t, 1-i, nb)
			}
		}
	}
	assert.Equal(t, 4, boundary)

	edges := out.Edges()
	require.Len(t, edges, 5)
	markers := map[int]int{}
	for _, e := range edges {
		assert.Less(t, e.A, 4)
		assert.Less(t, e.B, 4)
		markers[e.Marker]++
	}
	assert.Equal(t, map[int]int{1: 4, 0: 1}, markers)

	assert.Equal(t, 0, out.NumberOfSegments)
	assert.True(t, out.HoleList.IsNil())
	assert.Equal(t, 0, vor.NumPoints())
}

func TestTriangulateSquareWithHole(t *testing.T) {
	for _, tc := range []struct {
		switches  string
		neighbors int
	}{
		{"zneQ", 3},
		{"zeQ", 0},
	} {
		for _, inFirst := range []bool{true, false} {
			t.Run(fmt.Sprintf("%s/in destroyed first %v", tc.switches, inFirst), func(t *testing.T) {
				tracker := alloc.NewTracker()
				in := meshio.New(meshio.WithAllocator(tracker))
				require.NoError(t, in.SetPoints([]meshio.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, []int{1, 1, 1, 1}))
				require.NoError(t, in.SetHoles([]meshio.Point{{X: 0.5, Y: 0.5}}))
				out, vor := run(t, tc.switches, in, meshio.WithAllocator(tracker))

				triangles := out.Triangles()
				require.Len(t, triangles, 2)
				for _, tri := range triangles {
					assert.Len(t, tri.Neighbors, tc.neighbors)
				}
				edges := out.Edges()
				require.NotEmpty(t, edges)
				for _, e := range edges {
					assert.Less(t, e.A, 4)
					assert.Less(t, e.B, 4)
				}
				assert.Equal(t, []meshio.Point{{X: 0.5, Y: 0.5}}, out.Holes())
				assert.False(t, out.HoleList.Aliases(&in.HoleList))

				if inFirst {
					in.Destroy()
					out.Destroy()
				} else {
					out.Destroy()
					in.Destroy()
				}
				vor.Destroy()
				assert.Equal(t, 0, tracker.Live(), "leaked %v", tracker.LiveLabels())
			})
		}
	}
}

func TestTriangulateOneBased(t *testing.T) {
	out, _ := run(t, "neQ", unitSquare(t))
	for _, tri := range out.Triangles() {
		for _, c := range tri.Corners {
			assert.GreaterOrEqual(t, c, 1)
			assert.LessOrEqual(t, c, 4)
		}
		for _, nb := range tri.Neighbors {
			assert.Contains(t, []int{-1, 1, 2}, nb)
		}
	}
	for _, e := range out.Edges() {
		assert.GreaterOrEqual(t, e.A, 1)
		assert.GreaterOrEqual(t, e.B, 1)
	}
}

func TestTriangulateNoBoundaryMarkers(t *testing.T) {
	out, _ := run(t, "zeBQ", unitSquare(t))
	assert.True(t, out.PointMarkerList.IsNil())
	assert.True(t, out.EdgeMarkerList.IsNil())
	assert.Equal(t, 5, out.NumEdges())
	for _, p := range out.Points() {
		assert.Equal(t, 0, p.Marker)
	}
}

func TestTriangulateSecondOrder(t *testing.T) {
	out, _ := run(t, "zo2Q", unitSquare(t))
	assert.Equal(t, 9, out.NumPoints())
	assert.Equal(t, 6, out.NumberOfCorners)

	points := out.Points()
	for _, tri := range out.Triangles() {
		require.Len(t, tri.Corners, 6)
		for i := 0; i < 3; i++ {
			a := points[tri.Corners[circularIndex(i+1, 3)]]
			b := points[tri.Corners[circularIndex(i+2, 3)]]
			mid := points[tri.Corners[3+i]]
			assert.InDelta(t, (a.X+b.X)/2, mid.X, 1e-12)
			assert.InDelta(t, (a.Y+b.Y)/2, mid.Y, 1e-12)
		}
	}
}

func TestTriangulateVoronoi(t *testing.T) {
	_, vor := run(t, "zvQ", unitSquare(t))

	require.Equal(t, 2, vor.NumPoints())
	for _, p := range vor.Points() {
		assert.InDelta(t, 0.5, p.X, 1e-12)
		assert.InDelta(t, 0.5, p.Y, 1e-12)
	}

	edges := vor.Edges()
	norms := vor.Norms()
	require.Len(t, edges, 5)
	require.Len(t, norms, 5)
	var rays []meshio.Point
	for i, e := range edges {
		if e.B == -1 {
			rays = append(rays, norms[i])
			continue
		}
		assert.Equal(t, meshio.Point{}, norms[i])
	}
	assert.ElementsMatch(t, []meshio.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}, rays)
	assert.Equal(t, 0, vor.NumTriangles())
}

func TestTriangulateConvexHull(t *testing.T) {
	t.Run("poly without segments carves everything", func(t *testing.T) {
		out, _ := run(t, "pzQ", unitSquare(t))
		assert.Equal(t, 0, out.NumTriangles())
		assert.Equal(t, 0, out.NumberOfCorners)
		assert.True(t, out.TriangleList.IsNil())
	})

	t.Run("convex keeps the hull", func(t *testing.T) {
		out, _ := run(t, "pzcQ", unitSquare(t))
		assert.Equal(t, 2, out.NumTriangles())
	})
}

func TestTriangulateFixtures(t *testing.T) {
	for _, name := range []string{"hexagon", "kite", "ring", "octagon_window"} {
		t.Run(name, func(t *testing.T) {
			loops := LoadFixture(name)
			in := fixtureInput(loops)
			out, _ := run(t, "pzneQ", in)
			AssertValidTriangulation(t, loops, out)

			assert.Equal(t, in.NumberOfSegments, out.NumberOfSegments)
			first := 0
			for l, loop := range loops {
				for i := range loop {
					assert.Equal(t, l+1, out.Points()[first+i].Marker)
				}
				first += len(loop)
			}
		})
	}
}

func TestTriangulateRing(t *testing.T) {
	tracker := alloc.NewTracker()
	loops := LoadFixture("ring")
	in := fixtureInput(loops)

	t.Run("holes are carved", func(t *testing.T) {
		out, vor := meshio.New(meshio.WithAllocator(tracker)), meshio.New(meshio.WithAllocator(tracker))
		require.NoError(t, meshio.Invoke(New(WithLogger(quietLogger)), "pzneQ", in, out, vor))

		assert.Equal(t, 8, out.NumTriangles())
		assert.Equal(t, 16, out.NumEdges())
		assert.Equal(t, in.Holes(), out.Holes())
		assert.False(t, out.HoleList.Aliases(&in.HoleList))

		for _, e := range out.Edges() {
			switch {
			case e.A < 4 && e.B < 4:
				assert.Equal(t, 1, e.Marker)
			case e.A >= 4 && e.B >= 4:
				assert.Equal(t, 2, e.Marker)
			default:
				assert.Equal(t, 0, e.Marker)
			}
		}

		out.Destroy()
		vor.Destroy()
		assert.Equal(t, 0, tracker.Live())
	})

	t.Run("engine aliases holes", func(t *testing.T) {
		out, vor := meshio.New(), meshio.New()
		New(WithLogger(quietLogger)).Triangulate("pzQ", in, out, vor)
		assert.True(t, out.HoleList.Aliases(&in.HoleList))
		out.HoleList.Forget()
		out.Destroy()
		vor.Destroy()
	})

	t.Run("holes ignored", func(t *testing.T) {
		out, _ := run(t, "pzOQ", in)
		assert.Equal(t, 10, out.NumTriangles())
	})
}

func TestTriangulateRegions(t *testing.T) {
	// A diamond split by its short diagonal.
	in := meshio.New()
	require.NoError(t, in.SetPoints([]meshio.Point{{X: 0, Y: 0}, {X: 2, Y: -1}, {X: 4, Y: 0}, {X: 2, Y: 1}}, []int{0, 0, 0, 0}))
	require.NoError(t, in.SetSegments([]meshio.Segment{{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}, {A: 3, B: 0}, {A: 1, B: 3}}, nil))
	require.NoError(t, in.SetRegions([]meshio.Region{{X: 1, Y: 0, Attribute: 1}, {X: 3, Y: 0, Attribute: 2}}))

	out, _ := run(t, "pzAQ", in)
	triangles := out.Triangles()
	require.Len(t, triangles, 2)
	for _, tri := range triangles {
		require.Len(t, tri.Attributes, 1)
		if containsInt(tri.Corners, 0) {
			assert.Equal(t, 1.0, tri.Attributes[0])
		} else {
			assert.Equal(t, 2.0, tri.Attributes[0])
		}
	}
	assert.Equal(t, in.Regions(), out.Regions())
	assert.False(t, out.RegionList.Aliases(&in.RegionList))
}

func TestTriangulateRefine(t *testing.T) {
	in := unitSquare(t)
	// Clockwise on purpose.
	require.NoError(t, in.SetTriangles([][]int{{0, 2, 1}, {0, 3, 2}}))
	require.NoError(t, in.SetTriangleAttributes([][]float64{{5}, {6}}))

	out, _ := run(t, "rzQ", in)
	points := out.Points()
	triangles := out.Triangles()
	require.Len(t, triangles, 2)
	for i, tri := range triangles {
		a, b, c := points[tri.Corners[0]], points[tri.Corners[1]], points[tri.Corners[2]]
		assert.Greater(t, orient(a.X, a.Y, b.X, b.Y, c.X, c.Y), 0.0)
		assert.Equal(t, []float64{float64(5 + i)}, tri.Attributes)
	}
}

func TestTriangulateFailures(t *testing.T) {
	eng := New(WithLogger(quietLogger))

	t.Run("segment outside the vertices", func(t *testing.T) {
		in := unitSquare(t)
		require.NoError(t, in.SetSegments([]meshio.Segment{{A: 0, B: 9}}, nil))
		assert.PanicsWithError(t, "segment 0 joins vertices 0 and 9, outside the 4 input vertices", func() {
			eng.Triangulate("pzQ", in, meshio.New(), meshio.New())
		})
	})

	t.Run("refine without triangles", func(t *testing.T) {
		assert.PanicsWithError(t, "refinement needs input triangles", func() {
			eng.Triangulate("rzQ", unitSquare(t), meshio.New(), meshio.New())
		})
	})

	t.Run("recovered", func(t *testing.T) {
		in := meshio.New()
		err := func() (err error) {
			defer func() {
				if recoveredErr := Recover(recover()); recoveredErr != nil {
					err = recoveredErr
				}
			}()
			eng.Triangulate("zQ", in, meshio.New(), meshio.New())
			return nil
		}()
		assert.EqualError(t, err, "input must have at least three vertices, got 0")
	})
}

func TestTriangulateLogging(t *testing.T) {
	var buf bytes.Buffer
	eng := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	eng.Triangulate("zQ", unitSquare(t), meshio.New(), meshio.New())
	assert.Zero(t, buf.Len())

	eng.Triangulate("z", unitSquare(t), meshio.New(), meshio.New())
	assert.Contains(t, buf.String(), "msg=triangulated")
	assert.NotContains(t, buf.String(), "msg=delaunay")

	buf.Reset()
	eng.Triangulate("zV", unitSquare(t), meshio.New(), meshio.New())
	assert.Contains(t, buf.String(), "msg=delaunay")
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func TestNormsAreUnitForUnitEdges(t *testing.T) {
	_, vor := run(t, "zvQ", unitSquare(t))
	for i, e := range vor.Edges() {
		if e.B != -1 {
			continue
		}
		n := vor.Norms()[i]
		assert.InDelta(t, 1.0, math.Hypot(n.X, n.Y), 1e-12)
	}
}
