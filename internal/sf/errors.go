package sf

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ShapeError reports a node whose structure violates the coordinate matrix
// contract: wrong dimensionality, a column count other than 2, a buffer that
// does not match its extent, or a matrix where a list was expected (and
// the reverse).
type ShapeError struct {
	Index int   // element position within a vector, -1 outside one
	Path  []int // child positions from the element root to the offending node
	Dim   []int // declared extent of the offending node, if it is a matrix
	Want  string
	Got   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: want %s, got %s", location(e.Index, e.Path), e.Want, e.Got)
}

// EmptyRingsError reports a polygon list node with no rings
type EmptyRingsError struct {
	Index int
	Path  []int
}

func (e *EmptyRingsError) Error() string {
	return fmt.Sprintf("%s: polygon has no rings, an exterior ring is required", location(e.Index, e.Path))
}

// NotAGeometryVectorError reports a value that is not a tagged geometry vector
type NotAGeometryVectorError struct {
	Class []string
}

func (e *NotAGeometryVectorError) Error() string {
	if len(e.Class) == 0 {
		return "sf: not a geometry vector: no class"
	}
	return fmt.Sprintf("sf: not a geometry vector: class %q", e.Class[0])
}

// UnsupportedKindError reports a node whose tag is outside the supported
// geometry kinds. Build treats it as an absent geometry rather than failing.
type UnsupportedKindError struct {
	Index int
	Class []string
}

func (e *UnsupportedKindError) Error() string {
	if len(e.Class) < 2 {
		return fmt.Sprintf("%s: untagged node", location(e.Index, nil))
	}
	return fmt.Sprintf("%s: unsupported geometry kind %q", location(e.Index, nil), e.Class[1])
}

func location(index int, path []int) string {
	parts := []string{"sf"}
	if index >= 0 {
		parts = append(parts, fmt.Sprintf("element %d", index))
	}
	if len(path) > 0 {
		steps := make([]string, len(path))
		for i, p := range path {
			steps[i] = fmt.Sprint(p)
		}
		parts = append(parts, "child "+strings.Join(steps, "/"))
	}
	return strings.Join(parts, ": ")
}

// withIndex stamps the vector position onto a structural error
func withIndex(err error, index int) error {
	var shape *ShapeError
	if errors.As(err, &shape) {
		shape.Index = index
		return err
	}
	var rings *EmptyRingsError
	if errors.As(err, &rings) {
		rings.Index = index
		return err
	}
	var unsupported *UnsupportedKindError
	if errors.As(err, &unsupported) {
		unsupported.Index = index
	}
	return err
}

func childPath(path []int, i int) []int {
	return append(slices.Clone(path), i)
}

// failureReason labels an error for metrics
func failureReason(err error) string {
	var shape *ShapeError
	var rings *EmptyRingsError
	switch {
	case errors.As(err, &shape):
		return "shape"
	case errors.As(err, &rings):
		return "empty_rings"
	default:
		return "other"
	}
}
