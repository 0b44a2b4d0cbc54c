package sf

import (
	"errors"
	"fmt"
	"slices"

	"gorgonia.org/tensor"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
)

// ErrEmptyMatrix is returned when a zero-row matrix is converted to a
// dense tensor, which cannot have a zero extent
var ErrEmptyMatrix = errors.New("sf: empty coordinate matrix has no dense form")

// MatrixFromDense builds a matrix node from a row-major rows×2 float64
// tensor. The dense input is held to the same 2-dimension, 2-column rule
// as the decoder.
func MatrixFromDense(class []string, d *tensor.Dense) (*Node, error) {
	if d == nil {
		return nil, &ShapeError{Index: -1, Want: "dense matrix", Got: "nil"}
	}
	shape := d.Shape()
	if d.Dims() != 2 {
		return nil, &ShapeError{
			Index: -1,
			Dim:   slices.Clone([]int(shape)),
			Want:  "2 dimensions",
			Got:   fmt.Sprintf("%d dimensions", d.Dims()),
		}
	}
	if shape[1] != 2 {
		return nil, &ShapeError{
			Index: -1,
			Dim:   slices.Clone([]int(shape)),
			Want:  "2 columns",
			Got:   fmt.Sprintf("%d columns", shape[1]),
		}
	}
	if d.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("sf: dense matrix has dtype %v, want float64", d.Dtype())
	}

	rows := shape[0]
	coords := make([]geometry.Coord, rows)
	for i := range coords {
		x, err := d.At(i, 0)
		if err != nil {
			return nil, fmt.Errorf("sf: failed to read row %d: %w", i, err)
		}
		y, err := d.At(i, 1)
		if err != nil {
			return nil, fmt.Errorf("sf: failed to read row %d: %w", i, err)
		}
		coords[i] = geometry.Coord{X: x.(float64), Y: y.(float64)}
	}

	n := encodeMatrix(TagUnknown, coords)
	n.class = slices.Clone(class)
	return n, nil
}

// Dense returns the matrix as a row-major rows×2 float64 tensor
func (n *Node) Dense() (*tensor.Dense, error) {
	coords, err := decodeCoords(n, nil)
	if err != nil {
		return nil, err
	}
	if len(coords) == 0 {
		return nil, ErrEmptyMatrix
	}

	backing := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		backing = append(backing, c.X, c.Y)
	}
	return tensor.New(
		tensor.WithShape(len(coords), 2),
		tensor.WithBacking(backing),
	), nil
}
