package sf

import (
	"fmt"
	"slices"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
)

// offset returns the position of (row, col) in a column-major buffer
func offset(row, col, rows int) int {
	return col*rows + row
}

// DecodeCoords decodes a rows×2 matrix node into rows coordinates, x taken
// from column 0 and y from column 1
func DecodeCoords(n *Node) ([]geometry.Coord, error) {
	return decodeCoords(n, nil)
}

// DecodePoints is DecodeCoords with each coordinate wrapped as a point
func DecodePoints(n *Node) ([]geometry.Point, error) {
	coords, err := decodeCoords(n, nil)
	if err != nil {
		return nil, err
	}
	return toPoints(coords), nil
}

func decodeCoords(n *Node, path []int) ([]geometry.Coord, error) {
	if n.Type() != MatrixNode {
		return nil, &ShapeError{Index: -1, Path: slices.Clone(path), Want: "matrix", Got: describe(n)}
	}
	if len(n.dim) != 2 {
		return nil, &ShapeError{
			Index: -1,
			Path:  slices.Clone(path),
			Dim:   slices.Clone(n.dim),
			Want:  "2 dimensions",
			Got:   fmt.Sprintf("%d dimensions", len(n.dim)),
		}
	}

	rows, cols := n.dim[0], n.dim[1]
	if cols != 2 {
		return nil, &ShapeError{
			Index: -1,
			Path:  slices.Clone(path),
			Dim:   slices.Clone(n.dim),
			Want:  "2 columns",
			Got:   fmt.Sprintf("%d columns", cols),
		}
	}
	if rows < 0 || len(n.data) != rows*cols {
		return nil, &ShapeError{
			Index: -1,
			Path:  slices.Clone(path),
			Dim:   slices.Clone(n.dim),
			Want:  fmt.Sprintf("%d values for dim %v", max(rows, 0)*cols, n.dim),
			Got:   fmt.Sprintf("%d values", len(n.data)),
		}
	}

	coords := make([]geometry.Coord, rows)
	for i := range coords {
		coords[i] = geometry.Coord{
			X: n.data[offset(i, 0, rows)],
			Y: n.data[offset(i, 1, rows)],
		}
	}
	return coords, nil
}

func toPoints(coords []geometry.Coord) []geometry.Point {
	points := make([]geometry.Point, len(coords))
	for i, c := range coords {
		points[i] = geometry.Point{Coord: c}
	}
	return points
}

// encodeMatrix lays coords out as a rows×2 column-major matrix node tagged t
func encodeMatrix(t Tag, coords []geometry.Coord) *Node {
	rows := len(coords)
	data := make([]float64, rows*2)
	for i, c := range coords {
		data[offset(i, 0, rows)] = c.X
		data[offset(i, 1, rows)] = c.Y
	}
	return newMatrix(Class(t), []int{rows, 2}, data)
}
