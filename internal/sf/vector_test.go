package sf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
)

func handles(geoms ...geometry.Geometry) []*Handle {
	hs := make([]*Handle, len(geoms))
	for i, g := range geoms {
		hs[i] = NewHandle(g)
	}
	return hs
}

func TestClassify(t *testing.T) {
	p := geometry.NewPoint(1, 2)
	ls := geometry.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}}

	tests := []struct {
		name    string
		handles []*Handle
		want    string
	}{
		{"homogeneous", handles(p, p, p), "point"},
		{"mixed", handles(p, ls), KindGeometryCollection},
		{"nulls ignored", handles(p, nil, p), "point"},
		{"all null", handles(nil, nil), KindUnknown},
		{"empty", nil, KindUnknown},
		{"multipolygon", handles(geometry.MultiPolygon{}), "multipolygon"},
		{"untagged kind", handles(geometry.Line{}), KindGeometryCollection},
		{"untagged kind with points", handles(p, geometry.Line{}), KindGeometryCollection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.handles))
		})
	}
}

func TestHandle(t *testing.T) {
	h := NewHandle(geometry.Polygon{Exterior: square(0, 0, 1)})
	assert.Equal(t, []string{"polygon", "geom"}, h.Class())
	assert.Equal(t, "polygon", h.Kind())
	assert.Equal(t, geometry.KindPolygon, h.Geometry().Kind())

	var absent *Handle
	assert.Nil(t, NewHandle(nil))
	assert.Nil(t, absent.Geometry())
	assert.Empty(t, absent.Kind())
}

func TestNewVector(t *testing.T) {
	v := NewVector(handles(geometry.NewPoint(1, 2), nil))

	assert.Equal(t, []string{"sfgeo_POINT", "sfgeo", "list"}, v.Class())
	assert.Equal(t, "point", v.Kind())
	assert.Equal(t, 2, v.Len())
	assert.Nil(t, v.At(1))
	assert.Equal(t, []geometry.Geometry{geometry.NewPoint(1, 2), nil}, v.Geometries())

	nodes := v.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, TagPoint, nodes[0].Tag())
	assert.Nil(t, nodes[1])

	// the class is fixed at construction
	v.Class()[0] = "changed"
	assert.Equal(t, "sfgeo_POINT", v.Class()[0])

	empty := NewVector(nil)
	assert.Equal(t, "sfgeo_UNKNOWN", empty.Class()[0])
	assert.Equal(t, KindUnknown, empty.Kind())
}

func TestAsVector(t *testing.T) {
	v, err := AsVector(handles(geometry.NewPoint(1, 2)), "GeometryCollection")
	require.NoError(t, err)
	assert.Equal(t, "sfgeo_GEOMETRYCOLLECTION", v.Class()[0])
	assert.Equal(t, KindGeometryCollection, v.Kind())

	_, err = AsVector(nil, "circle")
	var notVector *NotAGeometryVectorError
	require.ErrorAs(t, err, &notVector)
	assert.Equal(t, "sfgeo_CIRCLE", notVector.Class[0])

	_, err = AsVector(nil, "line")
	require.ErrorAs(t, err, &notVector)
	assert.Equal(t, "sfgeo_LINE", notVector.Class[0])
}

func TestNewVectorUntaggedKind(t *testing.T) {
	v := NewVector(handles(geometry.Line{End: geometry.Coord{X: 1, Y: 1}}))
	assert.Equal(t, []string{"sfgeo_GEOMETRYCOLLECTION", "sfgeo", "list"}, v.Class())
	assert.True(t, IsVector(v))
}

func TestVectorChecks(t *testing.T) {
	tests := []struct {
		name     string
		value    Classed
		isVector bool
		kind     string
	}{
		{"point vector", NewVector(handles(geometry.NewPoint(0, 0))), true, "point"},
		{"stored class", ClassStack{"sfgeo_MULTILINESTRING", "sfgeo", "list"}, true, "multilinestring"},
		{"mixed", ClassStack{"sfgeo_GEOMETRYCOLLECTION"}, true, "geometrycollection"},
		{"unknown", ClassStack{"sfgeo_UNKNOWN"}, true, "unknown"},
		{"geometry node", matrix(TagPoint, 1, 0, 0), false, ""},
		{"handle", NewHandle(geometry.NewPoint(0, 0)), false, ""},
		{"foreign prefix", ClassStack{"sfc_POINT", "sfc"}, false, ""},
		{"unknown kind", ClassStack{"sfgeo_CIRCLE"}, false, ""},
		{"untagged kind", ClassStack{"sfgeo_LINE", "sfgeo", "list"}, false, ""},
		{"lower-case tag", ClassStack{"sfgeo_point", "sfgeo", "list"}, false, ""},
		{"mixed-case tag", ClassStack{"sfgeo_Polygon"}, false, ""},
		{"empty class", ClassStack{}, false, ""},
		{"nil", nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isVector, IsVector(tt.value))

			kind, err := ElementKind(tt.value)
			if !tt.isVector {
				var notVector *NotAGeometryVectorError
				assert.ErrorAs(t, err, &notVector)
				assert.ErrorAs(t, RequireVector(tt.value), &notVector)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.NoError(t, RequireVector(tt.value))
		})
	}
}

func TestNotAGeometryVectorMessage(t *testing.T) {
	err := RequireVector(ClassStack{"sfc_POINT", "sfc"})
	assert.EqualError(t, err, `sf: not a geometry vector: class "sfc_POINT"`)

	err = RequireVector(ClassStack{})
	assert.EqualError(t, err, "sf: not a geometry vector: no class")
}

func TestSFCClass(t *testing.T) {
	p := geometry.NewPoint(0, 0)
	poly := geometry.Polygon{Exterior: square(0, 0, 1)}

	assert.Equal(t, []string{"sfc_POINT", "sfc"}, SFCClass([]geometry.Geometry{p, nil, p}))
	assert.Equal(t, []string{"sfc_GEOMETRYCOLLECTION", "sfc"}, SFCClass([]geometry.Geometry{p, poly}))
	assert.Equal(t, []string{"sfc_GEOMETRY", "sfc"}, SFCClass([]geometry.Geometry{nil}))
	assert.Equal(t, []string{"sfc_MULTIPOLYGON", "sfc"}, SFCClass([]geometry.Geometry{geometry.MultiPolygon{}}))
}
