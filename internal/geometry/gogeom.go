package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
)

// ErrLayout is returned when a go-geom value carries Z or M ordinates
var ErrLayout = errors.New("geometry: only the XY layout is supported")

// ToGeom converts g to its go-geom equivalent. Absent values convert to nil.
func ToGeom(g Geometry) (geom.T, error) {
	switch g := g.(type) {
	case nil:
		return nil, nil
	case Point:
		if g.IsEmpty() {
			return geom.NewPointEmpty(geom.XY), nil
		}
		return geom.NewPointFlat(geom.XY, []float64{g.X, g.Y}), nil
	case MultiPoint:
		coords := make([]geom.Coord, len(g))
		for i, p := range g {
			coords[i] = toCoord(p.Coord)
		}
		return geom.NewMultiPoint(geom.XY).SetCoords(coords)
	case LineString:
		return geom.NewLineString(geom.XY).SetCoords(toCoords(g))
	case MultiLineString:
		coords := make([][]geom.Coord, len(g))
		for i, line := range g {
			coords[i] = toCoords(line)
		}
		return geom.NewMultiLineString(geom.XY).SetCoords(coords)
	case Polygon:
		return geom.NewPolygon(geom.XY).SetCoords(ringCoords(g))
	case MultiPolygon:
		coords := make([][][]geom.Coord, len(g))
		for i, poly := range g {
			coords[i] = ringCoords(poly)
		}
		return geom.NewMultiPolygon(geom.XY).SetCoords(coords)
	case Line:
		return geom.NewLineString(geom.XY).SetCoords([]geom.Coord{toCoord(g.Start), toCoord(g.End)})
	case GeometryCollection:
		gc := geom.NewGeometryCollection()
		for i, member := range g {
			t, err := ToGeom(member)
			if err != nil {
				return nil, fmt.Errorf("collection member %d: %w", i, err)
			}
			if t == nil {
				continue
			}
			if err := gc.Push(t); err != nil {
				return nil, fmt.Errorf("collection member %d: %w", i, err)
			}
		}
		return gc, nil
	default:
		return nil, fmt.Errorf("geometry: cannot convert %T", g)
	}
}

// FromGeom converts a go-geom value into the value model. Only the XY layout
// is accepted; a nil input yields an absent geometry.
func FromGeom(t geom.T) (Geometry, error) {
	if t == nil {
		return nil, nil
	}
	if _, ok := t.(*geom.GeometryCollection); !ok && t.Layout() != geom.XY {
		return nil, fmt.Errorf("%w: got %v", ErrLayout, t.Layout())
	}

	switch t := t.(type) {
	case *geom.Point:
		if t.Empty() {
			return NewPoint(math.NaN(), math.NaN()), nil
		}
		return Point{fromCoord(t.Coords())}, nil
	case *geom.MultiPoint:
		coords := t.Coords()
		mp := make(MultiPoint, len(coords))
		for i, c := range coords {
			mp[i] = Point{fromCoord(c)}
		}
		return mp, nil
	case *geom.LineString:
		return fromCoords(t.Coords()), nil
	case *geom.LinearRing:
		return fromCoords(t.Coords()), nil
	case *geom.MultiLineString:
		coords := t.Coords()
		mls := make(MultiLineString, len(coords))
		for i, line := range coords {
			mls[i] = fromCoords(line)
		}
		return mls, nil
	case *geom.Polygon:
		return polygonFromRings(t.Coords()), nil
	case *geom.MultiPolygon:
		coords := t.Coords()
		mp := make(MultiPolygon, len(coords))
		for i, rings := range coords {
			mp[i] = polygonFromRings(rings)
		}
		return mp, nil
	case *geom.GeometryCollection:
		members := t.Geoms()
		gc := make(GeometryCollection, 0, len(members))
		for i, member := range members {
			g, err := FromGeom(member)
			if err != nil {
				return nil, fmt.Errorf("collection member %d: %w", i, err)
			}
			gc = append(gc, g)
		}
		return gc, nil
	default:
		return nil, fmt.Errorf("geometry: unsupported go-geom type %T", t)
	}
}

func toCoord(c Coord) geom.Coord {
	return geom.Coord{c.X, c.Y}
}

func toCoords(line LineString) []geom.Coord {
	coords := make([]geom.Coord, len(line))
	for i, c := range line {
		coords[i] = toCoord(c)
	}
	return coords
}

func ringCoords(p Polygon) [][]geom.Coord {
	rings := p.Rings()
	coords := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		coords[i] = toCoords(ring)
	}
	return coords
}

func fromCoord(c geom.Coord) Coord {
	return Coord{X: c[0], Y: c[1]}
}

func fromCoords(coords []geom.Coord) LineString {
	line := make(LineString, len(coords))
	for i, c := range coords {
		line[i] = fromCoord(c)
	}
	return line
}

func polygonFromRings(rings [][]geom.Coord) Polygon {
	if len(rings) == 0 {
		return Polygon{Exterior: LineString{}}
	}
	poly := Polygon{Exterior: fromCoords(rings[0])}
	for _, ring := range rings[1:] {
		poly.Interiors = append(poly.Interiors, fromCoords(ring))
	}
	return poly
}
