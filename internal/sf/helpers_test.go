package sf

import "github.com/kartoza/kartoza-sfgeo/internal/geometry"

func matrix(t Tag, rows int, data ...float64) *Node {
	return NewMatrix(Class(t), []int{rows, 2}, data)
}

func list(t Tag, items ...*Node) *Node {
	return NewList(Class(t), items)
}

// ring lays out coords column-major as a LINESTRING-tagged matrix
func ring(coords ...geometry.Coord) *Node {
	return encodeMatrix(TagLineString, coords)
}

func square(x, y, size float64) []geometry.Coord {
	return []geometry.Coord{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y},
	}
}
