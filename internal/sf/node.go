package sf

import (
	"fmt"
	"math"
	"slices"
)

// NodeType distinguishes matrix nodes from list nodes
type NodeType int

const (
	NullNode NodeType = iota
	MatrixNode
	ListNode
)

func (t NodeType) String() string {
	switch t {
	case MatrixNode:
		return "matrix"
	case ListNode:
		return "list"
	default:
		return "null"
	}
}

// Node is a value in the tagged nested-array representation. A matrix node
// holds a column-major float buffer with its declared extent; a list node
// holds ordered children. A nil *Node is the null node.
//
// Nodes are immutable: constructors and accessors copy their slices.
type Node struct {
	typ   NodeType
	class []string
	dim   []int
	data  []float64
	items []*Node
}

// NewMatrix creates a matrix node. dim is the declared extent (rows, cols
// for a well-formed coordinate matrix) and data is read column-major.
func NewMatrix(class []string, dim []int, data []float64) *Node {
	return newMatrix(slices.Clone(class), slices.Clone(dim), slices.Clone(data))
}

// NewList creates a list node from ordered children. Nil children are null nodes.
func NewList(class []string, items []*Node) *Node {
	return newList(slices.Clone(class), slices.Clone(items))
}

func newMatrix(class []string, dim []int, data []float64) *Node {
	if data == nil {
		data = []float64{}
	}
	return &Node{typ: MatrixNode, class: class, dim: dim, data: data}
}

func newList(class []string, items []*Node) *Node {
	if items == nil {
		items = []*Node{}
	}
	return &Node{typ: ListNode, class: class, items: items}
}

// IsNull reports whether n is the null node
func (n *Node) IsNull() bool { return n == nil }

// Type returns the node type; NullNode for a nil node
func (n *Node) Type() NodeType {
	if n == nil {
		return NullNode
	}
	return n.typ
}

// Class returns a copy of the class stack
func (n *Node) Class() []string {
	if n == nil {
		return nil
	}
	return slices.Clone(n.class)
}

// Tag returns the geometry tag, read from the second class entry
func (n *Node) Tag() Tag {
	if n == nil || len(n.class) < 2 {
		return TagUnknown
	}
	return ParseTag(n.class[1])
}

// Dim returns a copy of the declared matrix extent
func (n *Node) Dim() []int {
	if n == nil {
		return nil
	}
	return slices.Clone(n.dim)
}

// Data returns a copy of the column-major matrix buffer
func (n *Node) Data() []float64 {
	if n == nil || n.typ != MatrixNode {
		return nil
	}
	return slices.Clone(n.data)
}

// Len returns the number of children of a list node or rows of a matrix node
func (n *Node) Len() int {
	switch {
	case n == nil:
		return 0
	case n.typ == ListNode:
		return len(n.items)
	case len(n.dim) > 0:
		return n.dim[0]
	default:
		return len(n.data)
	}
}

// Item returns child i of a list node
func (n *Node) Item(i int) *Node {
	if n == nil || n.typ != ListNode || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// Items returns a copy of the children of a list node
func (n *Node) Items() []*Node {
	if n == nil || n.typ != ListNode {
		return nil
	}
	return slices.Clone(n.items)
}

func (n *Node) String() string {
	switch n.Type() {
	case MatrixNode:
		return fmt.Sprintf("%s matrix %v", n.label(), n.dim)
	case ListNode:
		return fmt.Sprintf("%s list[%d]", n.label(), len(n.items))
	default:
		return "NULL"
	}
}

func (n *Node) label() string {
	if t := n.Tag(); t != TagUnknown {
		return t.String()
	}
	return "untagged"
}

// describe names the shape of n for error messages
func describe(n *Node) string {
	switch n.Type() {
	case MatrixNode:
		return fmt.Sprintf("matrix with dim %v", n.dim)
	case ListNode:
		return fmt.Sprintf("list of %d", len(n.items))
	default:
		return "null"
	}
}

// Equal reports whether a and b have the same type, class, extent and
// children, with coordinates compared bit for bit
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.typ != b.typ || !slices.Equal(a.class, b.class) {
		return false
	}

	switch a.typ {
	case MatrixNode:
		if !slices.Equal(a.dim, b.dim) || len(a.data) != len(b.data) {
			return false
		}
		for i := range a.data {
			if math.Float64bits(a.data[i]) != math.Float64bits(b.data[i]) {
				return false
			}
		}
	case ListNode:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
	}
	return true
}
