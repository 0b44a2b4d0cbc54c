package sf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

type wireMatrix struct {
	Class []string `json:"class"`
	Dim   []int    `json:"dim"`
	Data  floats   `json:"data"`
}

type wireList struct {
	Class []string `json:"class"`
	Items []*Node  `json:"items"`
}

type wireNode struct {
	Class []string `json:"class"`
	Dim   []int    `json:"dim"`
	Data  *floats  `json:"data"`
	Items *[]*Node `json:"items"`
}

// MarshalJSON writes a matrix as {"class","dim","data"} with column-major
// data and a list as {"class","items"}
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Type() {
	case MatrixNode:
		return json.Marshal(wireMatrix{Class: n.class, Dim: n.dim, Data: n.data})
	case ListNode:
		return json.Marshal(wireList{Class: n.class, Items: n.items})
	default:
		return []byte("null"), nil
	}
}

func (n *Node) UnmarshalJSON(b []byte) error {
	var w wireNode
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	switch {
	case w.Items != nil:
		*n = *newList(w.Class, *w.Items)
	case w.Data != nil:
		dim := w.Dim
		if dim == nil {
			dim = []int{len(*w.Data)}
		}
		*n = *newMatrix(w.Class, dim, *w.Data)
	default:
		return fmt.Errorf("sf: node has neither data nor items")
	}
	return nil
}

// floats is a coordinate buffer whose JSON form keeps non-finite values:
// math.NaN() is null, any other NaN is "NaN:<hex bits>" so its payload
// survives, and the infinities are the strings "Inf" and "-Inf"
type floats []float64

const nanBitsPrefix = "NaN:"

var canonicalNaN = math.Float64bits(math.NaN())

func (f floats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		switch {
		case math.IsNaN(v) && math.Float64bits(v) == canonicalNaN:
			buf.WriteString("null")
		case math.IsNaN(v):
			buf.WriteString(strconv.Quote(nanBitsPrefix + strconv.FormatUint(math.Float64bits(v), 16)))
		case math.IsInf(v, 1):
			buf.WriteString(`"Inf"`)
		case math.IsInf(v, -1):
			buf.WriteString(`"-Inf"`)
		default:
			buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (f *floats) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := make(floats, len(raw))
	for i, r := range raw {
		switch s := string(bytes.TrimSpace(r)); s {
		case "null":
			out[i] = math.NaN()
		case `"Inf"`:
			out[i] = math.Inf(1)
		case `"-Inf"`:
			out[i] = math.Inf(-1)
		case strings.HasPrefix(s, `"`+nanBitsPrefix):
			v, err := parseNaNBits(s)
			if err != nil {
				return fmt.Errorf("sf: coordinate %d: %w", i, err)
			}
			out[i] = v
		default:
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("sf: coordinate %d: invalid number %s", i, s)
			}
			out[i] = v
		}
	}
	*f = out
	return nil
}

// parseNaNBits reads a quoted "NaN:<hex bits>" value
func parseNaNBits(quoted string) (float64, error) {
	s, err := strconv.Unquote(quoted)
	if err != nil {
		return 0, fmt.Errorf("invalid NaN %s", quoted)
	}
	bits, err := strconv.ParseUint(strings.TrimPrefix(s, nanBitsPrefix), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid NaN %s", quoted)
	}
	v := math.Float64frombits(bits)
	if !math.IsNaN(v) {
		return 0, fmt.Errorf("%s is not a NaN", quoted)
	}
	return v, nil
}

// ClassStack is a bare class stack, e.g. the class of a stored document
type ClassStack []string

func (c ClassStack) Class() []string { return c }

// Document is a serialized geometry column: its class and one node per
// element, null where absent
type Document struct {
	Class      ClassStack `json:"class,omitempty"`
	Geometries []*Node    `json:"geometries"`
}

// ReadDocument decodes a document. A bare JSON array is read as the
// geometries of a document without a class.
func ReadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var nodes []*Node
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("failed to parse node array: %w", err)
		}
		return &Document{Geometries: nodes}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &doc, nil
}

// WriteDocument encodes doc as indented JSON
func WriteDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
