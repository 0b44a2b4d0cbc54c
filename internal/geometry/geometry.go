package geometry

import "math"

// Kind identifies the variant of a Geometry value
type Kind int

const (
	KindPoint Kind = iota + 1
	KindMultiPoint
	KindLineString
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
	KindLine
	KindGeometryCollection
)

var kindNames = map[Kind]string{
	KindPoint:              "Point",
	KindMultiPoint:         "MultiPoint",
	KindLineString:         "LineString",
	KindMultiLineString:    "MultiLineString",
	KindPolygon:            "Polygon",
	KindMultiPolygon:       "MultiPolygon",
	KindLine:               "Line",
	KindGeometryCollection: "GeometryCollection",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Kinds returns every kind the value model knows about, in declaration order
func Kinds() []Kind {
	return []Kind{
		KindPoint, KindMultiPoint, KindLineString, KindMultiLineString,
		KindPolygon, KindMultiPolygon, KindLine, KindGeometryCollection,
	}
}

// Geometry is one of the value types in this package. A nil Geometry
// marks an absent value.
type Geometry interface {
	Kind() Kind
	geometry()
}

// Coord is a 2D coordinate
type Coord struct {
	X, Y float64
}

// IsEmpty reports whether the coordinate is the NaN pair used for empty points
func (c Coord) IsEmpty() bool {
	return math.IsNaN(c.X) && math.IsNaN(c.Y)
}

// IsFinite reports whether both ordinates are finite numbers
func (c Coord) IsFinite() bool {
	return !math.IsNaN(c.X) && !math.IsNaN(c.Y) && !math.IsInf(c.X, 0) && !math.IsInf(c.Y, 0)
}

// Point is a single coordinate used as a standalone geometry
type Point struct {
	Coord
}

// NewPoint creates a point from raw x and y values
func NewPoint(x, y float64) Point {
	return Point{Coord{X: x, Y: y}}
}

// MultiPoint is an ordered set of points
type MultiPoint []Point

// LineString is a path; coordinate order is path order
type LineString []Coord

// MultiLineString is an ordered set of line strings
type MultiLineString []LineString

// Polygon is an exterior ring with zero or more interior rings (holes)
type Polygon struct {
	Exterior  LineString
	Interiors []LineString
}

// Rings returns the exterior followed by the interiors
func (p Polygon) Rings() []LineString {
	rings := make([]LineString, 0, len(p.Interiors)+1)
	rings = append(rings, p.Exterior)
	return append(rings, p.Interiors...)
}

// MultiPolygon is an ordered set of polygons
type MultiPolygon []Polygon

// Line is a single segment
type Line struct {
	Start, End Coord
}

// GeometryCollection is a heterogeneous set of geometries
type GeometryCollection []Geometry

func (Point) Kind() Kind              { return KindPoint }
func (MultiPoint) Kind() Kind         { return KindMultiPoint }
func (LineString) Kind() Kind         { return KindLineString }
func (MultiLineString) Kind() Kind    { return KindMultiLineString }
func (Polygon) Kind() Kind            { return KindPolygon }
func (MultiPolygon) Kind() Kind       { return KindMultiPolygon }
func (Line) Kind() Kind               { return KindLine }
func (GeometryCollection) Kind() Kind { return KindGeometryCollection }

func (Point) geometry()              {}
func (MultiPoint) geometry()         {}
func (LineString) geometry()         {}
func (MultiLineString) geometry()    {}
func (Polygon) geometry()            {}
func (MultiPolygon) geometry()       {}
func (Line) geometry()               {}
func (GeometryCollection) geometry() {}

// Walk calls fn for every coordinate of g in storage order
func Walk(g Geometry, fn func(Coord)) {
	switch g := g.(type) {
	case Point:
		fn(g.Coord)
	case MultiPoint:
		for _, p := range g {
			fn(p.Coord)
		}
	case LineString:
		for _, c := range g {
			fn(c)
		}
	case MultiLineString:
		for _, line := range g {
			Walk(line, fn)
		}
	case Polygon:
		for _, ring := range g.Rings() {
			Walk(ring, fn)
		}
	case MultiPolygon:
		for _, poly := range g {
			Walk(poly, fn)
		}
	case Line:
		fn(g.Start)
		fn(g.End)
	case GeometryCollection:
		for _, member := range g {
			Walk(member, fn)
		}
	}
}

// NumCoords counts the coordinates stored in g
func NumCoords(g Geometry) int {
	n := 0
	Walk(g, func(Coord) { n++ })
	return n
}

// Bounds returns the bounding box of the finite coordinates in geoms.
// ok is false when there are none.
func Bounds(geoms ...Geometry) (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64

	for _, g := range geoms {
		Walk(g, func(c Coord) {
			if !c.IsFinite() {
				return
			}
			ok = true
			minX = math.Min(minX, c.X)
			minY = math.Min(minY, c.Y)
			maxX = math.Max(maxX, c.X)
			maxY = math.Max(maxY, c.Y)
		})
	}
	return
}
