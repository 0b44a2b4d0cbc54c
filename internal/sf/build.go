package sf

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
)

// Build decodes a tagged node into a geometry value. The branch is chosen
// by the node's tag alone. Null nodes, untagged nodes and tags outside the
// six supported kinds yield an absent (nil) geometry without error.
//
// Structural problems fail with *ShapeError, and polygons without rings
// with *EmptyRingsError.
func Build(n *Node) (geometry.Geometry, error) {
	g, err := build(n)
	var unsupported *UnsupportedKindError
	if errors.As(err, &unsupported) {
		return nil, nil
	}
	return g, err
}

func build(n *Node) (geometry.Geometry, error) {
	if n == nil {
		return nil, nil
	}

	switch n.Tag() {
	case TagPoint:
		return buildPoint(n)
	case TagMultiPoint:
		points, err := decodeCoords(n, nil)
		if err != nil {
			return nil, err
		}
		return geometry.MultiPoint(toPoints(points)), nil
	case TagLineString:
		coords, err := decodeCoords(n, nil)
		if err != nil {
			return nil, err
		}
		return geometry.LineString(coords), nil
	case TagMultiLineString:
		return buildMultiLineString(n)
	case TagPolygon:
		return buildPolygon(n, nil)
	case TagMultiPolygon:
		return buildMultiPolygon(n)
	default:
		return nil, &UnsupportedKindError{Index: -1, Class: n.Class()}
	}
}

func buildPoint(n *Node) (geometry.Geometry, error) {
	coords, err := decodeCoords(n, nil)
	if err != nil {
		return nil, err
	}
	if len(coords) != 1 {
		return nil, &ShapeError{
			Index: -1,
			Dim:   n.Dim(),
			Want:  "1 row",
			Got:   fmt.Sprintf("%d rows", len(coords)),
		}
	}
	return geometry.Point{Coord: coords[0]}, nil
}

func buildMultiLineString(n *Node) (geometry.Geometry, error) {
	items, err := listItems(n, nil)
	if err != nil {
		return nil, err
	}

	lines := make(geometry.MultiLineString, len(items))
	for i, item := range items {
		coords, err := decodeCoords(item, []int{i})
		if err != nil {
			return nil, err
		}
		lines[i] = coords
	}
	return lines, nil
}

// buildPolygon reads ring 0 as the exterior and the rest as interiors
func buildPolygon(n *Node, path []int) (geometry.Polygon, error) {
	items, err := listItems(n, path)
	if err != nil {
		return geometry.Polygon{}, err
	}
	if len(items) == 0 {
		return geometry.Polygon{}, &EmptyRingsError{Index: -1, Path: slices.Clone(path)}
	}

	exterior, err := decodeCoords(items[0], childPath(path, 0))
	if err != nil {
		return geometry.Polygon{}, err
	}

	poly := geometry.Polygon{Exterior: exterior}
	for i, item := range items[1:] {
		ring, err := decodeCoords(item, childPath(path, i+1))
		if err != nil {
			return geometry.Polygon{}, err
		}
		poly.Interiors = append(poly.Interiors, ring)
	}
	return poly, nil
}

func buildMultiPolygon(n *Node) (geometry.Geometry, error) {
	items, err := listItems(n, nil)
	if err != nil {
		return nil, err
	}

	polys := make(geometry.MultiPolygon, len(items))
	for i, item := range items {
		poly, err := buildPolygon(item, []int{i})
		if err != nil {
			return nil, err
		}
		polys[i] = poly
	}
	return polys, nil
}

func listItems(n *Node, path []int) ([]*Node, error) {
	if n.Type() != ListNode {
		return nil, &ShapeError{
			Index: -1,
			Path:  slices.Clone(path),
			Dim:   n.Dim(),
			Want:  "list",
			Got:   describe(n),
		}
	}
	return n.items, nil
}
