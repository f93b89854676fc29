package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/osuushi/triangulateio"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// meshInput is everything that goes into the input level of a session.
type meshInput struct {
	Points          [][]float64 `yaml:"points"`
	Markers         []int       `yaml:"markers"`
	Segments        [][]int     `yaml:"segments"`
	SegmentMarkers  []int       `yaml:"segment_markers"`
	Holes           [][]float64 `yaml:"holes"`
	Regions         [][]float64 `yaml:"regions"`
	PointAttributes [][]float64 `yaml:"point_attributes"`
}

func readYAML(r io.Reader) (*meshInput, error) {
	var input meshInput
	if err := yaml.NewDecoder(r).Decode(&input); err != nil {
		return nil, errors.Wrap(err, "decoding mesh input")
	}
	if len(input.Points) == 0 {
		return nil, errors.New("mesh input has no points")
	}
	for name, tuples := range map[string][][]float64{"points": input.Points, "holes": input.Holes} {
		if err := checkWidth(name, len(tuples), func(i int) int { return len(tuples[i]) }, 2); err != nil {
			return nil, err
		}
	}
	if err := checkWidth("segments", len(input.Segments), func(i int) int { return len(input.Segments[i]) }, 2); err != nil {
		return nil, err
	}
	if err := checkWidth("regions", len(input.Regions), func(i int) int { return len(input.Regions[i]) }, 4); err != nil {
		return nil, err
	}
	return &input, nil
}

func checkWidth(name string, n int, width func(int) int, want int) error {
	for i := 0; i < n; i++ {
		if w := width(i); w != want {
			return errors.Errorf("%s entry %d has %d values, expected %d", name, i, w, want)
		}
	}
	return nil
}

// readPolygons reads newline separated points in the form "x y", with each
// polygon separated by an extra newline. Polygons should be simple and wind
// counterclockwise. A clockwise polygon is a hole. Every polygon edge becomes
// a segment marked with the polygon's one-based number.
func readPolygons(in io.Reader) (*meshInput, error) {
	var polygons [][][]float64
	// Scan lines
	scanner := bufio.NewScanner(in)
	var points [][]float64
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		// If it's empty, and we collected any points, this is the end of the polygon
		if text == "" {
			if len(points) > 0 {
				polygons = append(polygons, points)
				points = nil
			}
			continue
		}

		point, err := parsePoint(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		points = append(points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading polygons")
	}

	// Handle trailing polygon if any
	if len(points) > 0 {
		polygons = append(polygons, points)
	}
	if len(polygons) == 0 {
		return nil, errors.New("no polygons in input")
	}

	var input meshInput
	for p, polygon := range polygons {
		if len(polygon) < 3 {
			return nil, errors.Errorf("polygon %d has %d points", p+1, len(polygon))
		}
		first := len(input.Points)
		for i, point := range polygon {
			input.Points = append(input.Points, point)
			input.Segments = append(input.Segments, []int{first + i, first + (i+1)%len(polygon)})
			input.SegmentMarkers = append(input.SegmentMarkers, p+1)
		}
		if signedArea(polygon) < 0 {
			input.Holes = append(input.Holes, pointInside(polygon))
		}
	}
	return &input, nil
}

func parsePoint(line string) ([]float64, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return nil, errors.Errorf("expected \"x y\", got %q", line)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, errors.Wrap(err, "x")
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, errors.Wrap(err, "y")
	}
	return []float64{x, y}, nil
}

func signedArea(polygon [][]float64) float64 {
	var sum float64
	for i, p := range polygon {
		q := polygon[(i+1)%len(polygon)]
		sum += p[0]*q[1] - q[0]*p[1]
	}
	return sum / 2
}

// pointInside returns a point just inside a clockwise polygon, next to the
// middle of its longest edge, where the inside is to the right.
func pointInside(polygon [][]float64) []float64 {
	best, bestLength := 0, 0.0
	for i, p := range polygon {
		q := polygon[(i+1)%len(polygon)]
		dx, dy := q[0]-p[0], q[1]-p[1]
		if length := dx*dx + dy*dy; length > bestLength {
			best, bestLength = i, length
		}
	}
	p, q := polygon[best], polygon[(best+1)%len(polygon)]
	dx, dy := q[0]-p[0], q[1]-p[1]
	const inset = 1e-3
	return []float64{(p[0]+q[0])/2 + inset*dy, (p[1]+q[1])/2 - inset*dx}
}

// apply loads the input into a session's input level.
func (input *meshInput) apply(session *triangulateio.Triangle) error {
	points := make([]triangulateio.Point, len(input.Points))
	for i, p := range input.Points {
		points[i] = triangulateio.Point{X: p[0], Y: p[1]}
	}
	if err := session.SetPoints(points, input.Markers); err != nil {
		return err
	}

	if len(input.Segments) > 0 {
		segments := make([]triangulateio.Segment, len(input.Segments))
		for i, s := range input.Segments {
			segments[i] = triangulateio.Segment{A: s[0], B: s[1]}
		}
		if err := session.SetSegments(segments, input.SegmentMarkers); err != nil {
			return err
		}
	}

	holes := make([]triangulateio.Point, len(input.Holes))
	for i, h := range input.Holes {
		holes[i] = triangulateio.Point{X: h[0], Y: h[1]}
	}
	if err := session.SetHoles(holes); err != nil {
		return err
	}

	regions := make([]triangulateio.Region, len(input.Regions))
	for i, r := range input.Regions {
		regions[i] = triangulateio.Region{X: r[0], Y: r[1], Attribute: r[2], MaxArea: r[3]}
	}
	if err := session.SetRegions(regions); err != nil {
		return err
	}

	if len(input.PointAttributes) > 0 {
		return session.SetPointAttributes(input.PointAttributes)
	}
	return nil
}
