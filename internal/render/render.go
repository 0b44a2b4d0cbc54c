package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"slices"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
)

// ErrNothingToRender is returned when every geometry is absent or empty
var ErrNothingToRender = errors.New("no valid geometries to render")

// Renderer renders geometries to PNG images
type Renderer struct {
	Width      int
	Height     int
	Padding    int
	Background color.Color
	LineColor  color.Color
	FillColor  color.Color
	PointColor color.Color
	// Highlight, when non-negative, draws that geometry in HighlightColor
	Highlight      int
	HighlightColor color.Color
}

// New creates a renderer with the default palette
func New(width, height, padding int) *Renderer {
	return &Renderer{
		Width:          width,
		Height:         height,
		Padding:        padding,
		Background:     color.RGBA{30, 30, 30, 255},  // Dark gray
		LineColor:      color.RGBA{255, 165, 0, 255}, // Orange
		FillColor:      color.RGBA{255, 165, 0, 80},  // Semi-transparent orange
		PointColor:     color.RGBA{0, 200, 255, 255}, // Cyan
		Highlight:      -1,
		HighlightColor: color.RGBA{220, 50, 90, 255},
	}
}

type transform func(geometry.Coord) (int, int)

// Render draws geoms, skipping absent elements, fitted to the image
func (r *Renderer) Render(geoms []geometry.Geometry) (*image.RGBA, error) {
	minX, minY, maxX, maxY, ok := geometry.Bounds(geoms...)
	if !ok {
		return nil, ErrNothingToRender
	}

	// Add small buffer
	buffer := math.Max(maxX-minX, maxY-minY) * 0.05
	if buffer == 0 {
		buffer = 1
	}
	minX -= buffer
	minY -= buffer
	maxX += buffer
	maxY += buffer

	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)

	dataWidth := maxX - minX
	dataHeight := maxY - minY
	drawWidth := float64(r.Width - 2*r.Padding)
	drawHeight := float64(r.Height - 2*r.Padding)

	scale := math.Min(drawWidth/dataWidth, drawHeight/dataHeight)
	offsetX := float64(r.Padding) + (drawWidth-dataWidth*scale)/2
	offsetY := float64(r.Padding) + (drawHeight-dataHeight*scale)/2

	tf := func(c geometry.Coord) (int, int) {
		x := int(offsetX + (c.X-minX)*scale)
		y := int(float64(r.Height) - offsetY - (c.Y-minY)*scale) // Flip Y
		return x, y
	}

	for i, g := range geoms {
		p := r.palette()
		if i == r.Highlight {
			p = palette{line: r.HighlightColor, fill: r.HighlightColor, point: r.HighlightColor}
		}
		r.renderGeometry(img, g, tf, p)
	}
	return img, nil
}

// RenderPNG renders geoms and encodes the image as PNG
func (r *Renderer) RenderPNG(geoms []geometry.Geometry) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WritePNG(&buf, geoms); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG renders geoms as PNG to w
func (r *Renderer) WritePNG(w io.Writer, geoms []geometry.Geometry) error {
	img, err := r.Render(geoms)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

type palette struct {
	line, fill, point color.Color
}

func (r *Renderer) palette() palette {
	return palette{line: r.LineColor, fill: r.FillColor, point: r.PointColor}
}

func (r *Renderer) renderGeometry(img *image.RGBA, g geometry.Geometry, tf transform, p palette) {
	switch g := g.(type) {
	case geometry.Point:
		r.drawPoint(img, g.Coord, tf, p.point)
	case geometry.MultiPoint:
		for _, pt := range g {
			r.drawPoint(img, pt.Coord, tf, p.point)
		}
	case geometry.LineString:
		r.drawLineString(img, g, tf, p.line)
	case geometry.MultiLineString:
		for _, line := range g {
			r.drawLineString(img, line, tf, p.line)
		}
	case geometry.Line:
		r.drawLineString(img, []geometry.Coord{g.Start, g.End}, tf, p.line)
	case geometry.Polygon:
		r.drawPolygon(img, g, tf, p)
	case geometry.MultiPolygon:
		for _, poly := range g {
			r.drawPolygon(img, poly, tf, p)
		}
	case geometry.GeometryCollection:
		for _, member := range g {
			r.renderGeometry(img, member, tf, p)
		}
	}
}

func (r *Renderer) drawPoint(img *image.RGBA, c geometry.Coord, tf transform, col color.Color) {
	if !c.IsFinite() {
		return
	}
	x, y := tf(c)
	radius := 3
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				r.set(img, x+dx, y+dy, col)
			}
		}
	}
}

func (r *Renderer) drawLineString(img *image.RGBA, coords []geometry.Coord, tf transform, col color.Color) {
	for i := 0; i+1 < len(coords); i++ {
		if !coords[i].IsFinite() || !coords[i+1].IsFinite() {
			continue
		}
		x1, y1 := tf(coords[i])
		x2, y2 := tf(coords[i+1])
		r.drawLine(img, x1, y1, x2, y2, col)
	}
}

func (r *Renderer) drawPolygon(img *image.RGBA, poly geometry.Polygon, tf transform, p palette) {
	// Draw fill for exterior ring (simple scanline fill)
	if len(poly.Exterior) > 2 {
		r.fillRing(img, poly.Exterior, tf, p.fill)
	}

	// Draw outline for all rings
	for _, ring := range poly.Rings() {
		r.drawLineString(img, ring, tf, p.line)
		// Close the ring
		if n := len(ring); n > 2 && ring[0].IsFinite() && ring[n-1].IsFinite() {
			x1, y1 := tf(ring[n-1])
			x2, y2 := tf(ring[0])
			r.drawLine(img, x1, y1, x2, y2, p.line)
		}
	}
}

func (r *Renderer) fillRing(img *image.RGBA, ring []geometry.Coord, tf transform, col color.Color) {
	type pixel struct{ x, y int }

	pts := make([]pixel, 0, len(ring))
	minY, maxY := r.Height, 0
	for _, c := range ring {
		if !c.IsFinite() {
			continue
		}
		x, y := tf(c)
		pts = append(pts, pixel{x, y})
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	if len(pts) < 3 {
		return
	}
	minY = max(minY, 0)
	maxY = min(maxY, r.Height-1)

	// Scanline fill
	var xs []int
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if (a.y <= y && y < b.y) || (b.y <= y && y < a.y) {
				xs = append(xs, a.x+(y-a.y)*(b.x-a.x)/(b.y-a.y))
			}
		}
		slices.Sort(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(xs[i], 0); x <= min(xs[i+1], r.Width-1); x++ {
				blend(img, x, y, col)
			}
		}
	}
}

// Bresenham's line algorithm
func (r *Renderer) drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 >= x2 {
		sx = -1
	}
	if y1 >= y2 {
		sy = -1
	}
	err := dx - dy

	for {
		r.set(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *Renderer) set(img *image.RGBA, x, y int, c color.Color) {
	if x >= 0 && x < r.Width && y >= 0 && y < r.Height {
		img.Set(x, y, c)
	}
}

// blend composites a translucent fill over the existing pixel
func blend(img *image.RGBA, x, y int, c color.Color) {
	draw.Draw(img, image.Rect(x, y, x+1, y+1), image.NewUniform(c), image.Point{}, draw.Over)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
