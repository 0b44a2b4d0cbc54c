package sf

import "github.com/kartoza/kartoza-sfgeo/internal/geometry"

// Tag is the geometry kind carried in a node's class stack
type Tag int

const (
	TagUnknown Tag = iota
	TagPoint
	TagMultiPoint
	TagLineString
	TagMultiLineString
	TagPolygon
	TagMultiPolygon
)

var tagNames = [...]string{
	TagUnknown:         "",
	TagPoint:           "POINT",
	TagMultiPoint:      "MULTIPOINT",
	TagLineString:      "LINESTRING",
	TagMultiLineString: "MULTILINESTRING",
	TagPolygon:         "POLYGON",
	TagMultiPolygon:    "MULTIPOLYGON",
}

const (
	// DimXY is the outermost class entry: the coordinate dimensionality
	DimXY = "XY"
	// GeometryClass is the innermost class entry of a tagged geometry
	GeometryClass = "sfg"
)

// ParseTag maps an exact, case-sensitive tag string to a Tag
func ParseTag(s string) Tag {
	for t, name := range tagNames {
		if name != "" && name == s {
			return Tag(t)
		}
	}
	return TagUnknown
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return ""
	}
	return tagNames[t]
}

// Kind returns the geometry kind the tag decodes to
func (t Tag) Kind() geometry.Kind {
	switch t {
	case TagPoint:
		return geometry.KindPoint
	case TagMultiPoint:
		return geometry.KindMultiPoint
	case TagLineString:
		return geometry.KindLineString
	case TagMultiLineString:
		return geometry.KindMultiLineString
	case TagPolygon:
		return geometry.KindPolygon
	case TagMultiPolygon:
		return geometry.KindMultiPolygon
	}
	return 0
}

// TagOf returns the tag for a geometry kind, or TagUnknown for kinds the
// tagged form cannot represent
func TagOf(k geometry.Kind) Tag {
	switch k {
	case geometry.KindPoint:
		return TagPoint
	case geometry.KindMultiPoint:
		return TagMultiPoint
	case geometry.KindLineString:
		return TagLineString
	case geometry.KindMultiLineString:
		return TagMultiLineString
	case geometry.KindPolygon:
		return TagPolygon
	case geometry.KindMultiPolygon:
		return TagMultiPolygon
	}
	return TagUnknown
}

// Class returns the class stack written on a serialized geometry of tag t
func Class(t Tag) []string {
	return []string{DimXY, t.String(), GeometryClass}
}
