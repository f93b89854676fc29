package engine

import (
	"embed"
	"log"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/osuushi/triangulateio/meshio"
)

// This file parses the svg fixtures into loops of points. This is not a full
// (or even correct) svg parser. It finds every polygon in the file and
// converts each into a CCW loop; the first is the outer boundary and the
// rest are holes. If anything goes wrong, it panics.
//
// Fixtures are available by name in the fixtures/ directory, sans extension.

//go:embed fixtures
var fixtures embed.FS

func LoadFixture(name string) [][]meshio.Point {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}

	defer fixture.Close()
	rootEl, err := svgparser.Parse(fixture, true)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}

	polygons := rootEl.FindAll("polygon")
	if len(polygons) == 0 {
		log.Fatalf("No polygons found in fixture %q", name)
	}

	loops := make([][]meshio.Point, 0, len(polygons))
	for _, polygonEl := range polygons {
		pointStrings := strings.Split(polygonEl.Attributes["points"], " ")
		loop := make([]meshio.Point, 0, len(pointStrings))
		for _, pointString := range pointStrings {
			if pointString == "" {
				continue
			}

			coords := strings.Split(pointString, ",")
			if len(coords) != 2 {
				log.Fatalf("Invalid point string %q", pointString)
			}
			x, err := strconv.ParseFloat(coords[0], 64)
			if err != nil {
				log.Fatalf("Invalid x value %q: %v", coords[0], err)
			}
			y, err := strconv.ParseFloat(coords[1], 64)
			if err != nil {
				log.Fatalf("Invalid y value %q: %v", coords[1], err)
			}
			loop = append(loop, meshio.Point{X: x, Y: y})
		}

		// Ensure that the loop is CCW
		if loopArea(loop) < 0 {
			for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
				loop[i], loop[j] = loop[j], loop[i]
			}
		}
		loops = append(loops, loop)
	}
	return loops
}

// loopArea is the signed area of a closed loop, positive when CCW.
func loopArea(loop []meshio.Point) float64 {
	var sum float64
	for i, p := range loop {
		q := loop[circularIndex(i+1, len(loop))]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// fixtureInput builds a poly input from the loops: every loop edge is a
// segment marked with its loop's one-based number, and every loop after the
// first gets a hole at its vertex centroid. Hole loops in the fixtures are
// convex, so the centroid is inside.
func fixtureInput(loops [][]meshio.Point) *meshio.Buffer {
	var points []meshio.Point
	var segments []meshio.Segment
	var markers []int
	var holes []meshio.Point
	for l, loop := range loops {
		first := len(points)
		var cx, cy float64
		for i, p := range loop {
			points = append(points, p)
			segments = append(segments, meshio.Segment{A: first + i, B: first + circularIndex(i+1, len(loop))})
			markers = append(markers, l+1)
			cx += p.X
			cy += p.Y
		}
		if l > 0 {
			holes = append(holes, meshio.Point{X: cx / float64(len(loop)), Y: cy / float64(len(loop))})
		}
	}

	in := meshio.New()
	mustSet(in.SetPoints(points, make([]int, len(points))))
	mustSet(in.SetSegments(segments, markers))
	mustSet(in.SetHoles(holes))
	return in
}

func mustSet(err error) {
	if err != nil {
		log.Fatalf("Could not build fixture input: %v", err)
	}
}
