package meshio

import (
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

// Padding around the mesh, in pixels.
const drawPadding = 20

// Largest image side DrawPNG will render.
const maxDrawSide = 1 << 14

func pointBounds(points []PointRecord) (minX, minY, maxX, maxY float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

// Draw renders the triangles, segments and points at scale pixels per unit,
// with the origin at the bottom left. firstIndex is the index of the first
// point in the buffer's index arrays: 0 for engines run with zero-based
// numbering, 1 otherwise. Draw does not check its scale; DrawPNG does.
func (b *Buffer) Draw(scale float64, firstIndex int) *gg.Context {
	points := b.Points()
	minX, minY, maxX, maxY := pointBounds(points)

	width := int(scale*(maxX-minX)) + drawPadding*2
	height := int(scale*(maxY-minY)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip so the origin is at the bottom left, then pad, scale and move the
	// minimum corner to the origin.
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	at := func(index int) (Point, bool) {
		i := index - firstIndex
		if i < 0 || i >= len(points) {
			return Point{}, false
		}
		return points[i].Point, true
	}

	c.SetLineWidth(1)
	for _, tri := range b.Triangles() {
		a, okA := at(tri.Corners[0])
		p, okB := at(tri.Corners[1])
		q, okC := at(tri.Corners[2])
		if !okA || !okB || !okC {
			continue
		}
		c.MoveTo(a.X, a.Y)
		c.LineTo(p.X, p.Y)
		c.LineTo(q.X, q.Y)
		c.ClosePath()
	}
	c.SetRGB(0, 0.5, 0)
	c.FillPreserve()
	c.SetRGB(0, 1, 1)
	c.Stroke()

	c.SetLineWidth(2)
	for _, s := range b.Segments() {
		p, okA := at(s.A)
		q, okB := at(s.B)
		if !okA || !okB {
			continue
		}
		c.MoveTo(p.X, p.Y)
		c.LineTo(q.X, q.Y)
	}
	c.SetRGB(1, 0.3, 0.3)
	c.Stroke()

	for _, p := range points {
		c.DrawCircle(p.X, p.Y, 2/scale)
	}
	c.SetRGB(1, 1, 1)
	c.Fill()
	return c
}

// DrawPNG writes Draw's image to w as a PNG.
func (b *Buffer) DrawPNG(w io.Writer, scale float64, firstIndex int) error {
	if err := b.checkLive("DrawPNG"); err != nil {
		return err
	}
	if !(scale > 0) || math.IsInf(scale, 1) {
		return shapeErrorf("DrawPNG", "scale must be positive and finite, got %g", scale)
	}
	minX, minY, maxX, maxY := pointBounds(b.Points())
	width := scale*(maxX-minX) + drawPadding*2
	height := scale*(maxY-minY) + drawPadding*2
	if !(width <= maxDrawSide) || !(height <= maxDrawSide) {
		return shapeErrorf("DrawPNG", "image of %gx%g pixels is larger than %d on a side", width, height, maxDrawSide)
	}
	return errors.Wrap(b.Draw(scale, firstIndex).EncodePNG(w), "meshio: encoding png")
}
