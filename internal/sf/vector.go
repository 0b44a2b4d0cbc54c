package sf

import (
	"slices"
	"strings"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
)

const (
	// VectorPrefix marks a container class produced by this package
	VectorPrefix = "sfgeo_"
	// HandleClass is the second class entry of every element handle
	HandleClass = "geom"

	// KindGeometryCollection classifies a vector holding more than one kind
	KindGeometryCollection = "geometrycollection"
	// KindUnknown classifies a vector that is empty or entirely absent
	KindUnknown = "unknown"

	vectorBaseClass = "sfgeo"
	listClass       = "list"
)

// Classed is anything carrying a class stack
type Classed interface {
	Class() []string
}

// Handle wraps a decoded geometry with its element class, [kind, "geom"]
type Handle struct {
	class []string
	geom  geometry.Geometry
}

// NewHandle tags g with its lower-case kind name. An absent geometry has no handle.
func NewHandle(g geometry.Geometry) *Handle {
	if g == nil {
		return nil
	}
	return &Handle{class: []string{kindName(g.Kind()), HandleClass}, geom: g}
}

func (h *Handle) Class() []string {
	if h == nil {
		return nil
	}
	return slices.Clone(h.class)
}

// Kind returns the element tag, e.g. "polygon"
func (h *Handle) Kind() string {
	if h == nil {
		return ""
	}
	return h.class[0]
}

func (h *Handle) Geometry() geometry.Geometry {
	if h == nil {
		return nil
	}
	return h.geom
}

// Vector is an ordered sequence of optional handles with a container class
// computed once, at construction
type Vector struct {
	class   []string
	handles []*Handle
}

// NewVector builds a vector from handles and classifies it
func NewVector(handles []*Handle) *Vector {
	return &Vector{
		class:   VectorClass(Classify(handles)),
		handles: slices.Clone(handles),
	}
}

// AsVector builds a vector whose container class is the given kind rather
// than the classified one
func AsVector(handles []*Handle, kind string) (*Vector, error) {
	kind = strings.ToLower(kind)
	if !isVectorKind(kind) {
		return nil, &NotAGeometryVectorError{Class: VectorClass(kind)}
	}
	return &Vector{class: VectorClass(kind), handles: slices.Clone(handles)}, nil
}

// VectorClass returns the container class stack for an element kind
func VectorClass(kind string) []string {
	return []string{VectorPrefix + strings.ToUpper(kind), vectorBaseClass, listClass}
}

func (v *Vector) Class() []string {
	if v == nil {
		return nil
	}
	return slices.Clone(v.class)
}

// Kind returns the lower-case element kind of the vector
func (v *Vector) Kind() string {
	kind, _ := ElementKind(v)
	return kind
}

func (v *Vector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.handles)
}

// At returns element i, nil when absent
func (v *Vector) At(i int) *Handle {
	return v.handles[i]
}

func (v *Vector) Handles() []*Handle {
	return slices.Clone(v.handles)
}

// Geometries returns the elements as geometry values, nil where absent
func (v *Vector) Geometries() []geometry.Geometry {
	geoms := make([]geometry.Geometry, len(v.handles))
	for i, h := range v.handles {
		geoms[i] = h.Geometry()
	}
	return geoms
}

// Nodes serializes every element back to the tagged form
func (v *Vector) Nodes() []*Node {
	return SerializeVector(v.Geometries())
}

// Classify collects the element tags of the non-absent handles. One distinct
// tag classifies the vector as that tag, several as geometrycollection,
// none as unknown. Elements of a kind outside the six tagged kinds count
// as geometrycollection.
func Classify(handles []*Handle) string {
	seen := make(map[string]struct{})
	var only string
	for _, h := range handles {
		if h == nil {
			continue
		}
		only = h.Kind()
		// kinds without a tagged form only fit a mixed container
		if !isTaggedKind(only) {
			only = KindGeometryCollection
		}
		seen[only] = struct{}{}
	}

	switch len(seen) {
	case 0:
		return KindUnknown
	case 1:
		return only
	default:
		return KindGeometryCollection
	}
}

// IsVector reports whether x carries a geometry vector container class
func IsVector(x Classed) bool {
	_, ok := vectorKind(x)
	return ok
}

// RequireVector returns a *NotAGeometryVectorError unless x is a geometry vector
func RequireVector(x Classed) error {
	if _, ok := vectorKind(x); !ok {
		return &NotAGeometryVectorError{Class: classOf(x)}
	}
	return nil
}

// ElementKind returns the lower-case element kind named by the container
// class of x, e.g. "point" for sfgeo_POINT
func ElementKind(x Classed) (string, error) {
	kind, ok := vectorKind(x)
	if !ok {
		return "", &NotAGeometryVectorError{Class: classOf(x)}
	}
	return kind, nil
}

func vectorKind(x Classed) (string, bool) {
	class := classOf(x)
	if len(class) == 0 || !strings.HasPrefix(class[0], VectorPrefix) {
		return "", false
	}
	suffix := strings.TrimPrefix(class[0], VectorPrefix)
	// container tags are written upper-case and matched exactly
	if suffix != strings.ToUpper(suffix) {
		return "", false
	}
	kind := strings.ToLower(suffix)
	if !isVectorKind(kind) {
		return "", false
	}
	return kind, true
}

func classOf(x Classed) []string {
	if x == nil {
		return nil
	}
	return x.Class()
}

// isVectorKind reports whether kind may name a container: one of the six
// tagged kinds, geometrycollection or unknown
func isVectorKind(kind string) bool {
	return kind == KindUnknown || kind == KindGeometryCollection || isTaggedKind(kind)
}

// isTaggedKind reports whether kind has a tagged node form
func isTaggedKind(kind string) bool {
	for _, k := range geometry.Kinds() {
		if TagOf(k) != TagUnknown && kindName(k) == kind {
			return true
		}
	}
	return false
}

func kindName(k geometry.Kind) string {
	return strings.ToLower(k.String())
}

// SFCClass returns the class of a serialized geometry column holding geoms:
// sfc_<KIND> for a single kind, sfc_GEOMETRYCOLLECTION for mixed kinds and
// sfc_GEOMETRY when every element is absent
func SFCClass(geoms []geometry.Geometry) []string {
	cls := ""
	for _, g := range geoms {
		if g == nil {
			continue
		}
		name := strings.ToUpper(g.Kind().String())
		if cls == "" {
			cls = name
		} else if cls != name {
			cls = "GEOMETRYCOLLECTION"
			break
		}
	}
	if cls == "" {
		cls = "GEOMETRY"
	}
	return []string{"sfc_" + cls, "sfc"}
}
