package sf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
)

func TestBuildLineStringColumnMajor(t *testing.T) {
	n := matrix(TagLineString, 3, 0, 1, 2, 10, 11, 12)

	g, err := Build(n)
	require.NoError(t, err)
	assert.Equal(t, geometry.LineString{{X: 0, Y: 10}, {X: 1, Y: 11}, {X: 2, Y: 12}}, g)
}

func TestBuildKinds(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want geometry.Geometry
	}{
		{
			name: "point",
			node: matrix(TagPoint, 1, 3.5, -2),
			want: geometry.NewPoint(3.5, -2),
		},
		{
			name: "multipoint",
			node: matrix(TagMultiPoint, 2, 1, 2, 3, 4),
			want: geometry.MultiPoint{geometry.NewPoint(1, 3), geometry.NewPoint(2, 4)},
		},
		{
			name: "empty linestring",
			node: matrix(TagLineString, 0),
			want: geometry.LineString{},
		},
		{
			name: "multilinestring",
			node: list(TagMultiLineString,
				matrix(TagLineString, 2, 0, 1, 0, 1),
				matrix(TagLineString, 1, 5, 6),
			),
			want: geometry.MultiLineString{
				{{X: 0, Y: 0}, {X: 1, Y: 1}},
				{{X: 5, Y: 6}},
			},
		},
		{
			name: "polygon with hole",
			node: list(TagPolygon, ring(square(0, 0, 10)...), ring(square(2, 2, 1)...)),
			want: geometry.Polygon{
				Exterior:  square(0, 0, 10),
				Interiors: []geometry.LineString{square(2, 2, 1)},
			},
		},
		{
			name: "multipolygon",
			node: list(TagMultiPolygon,
				list(TagPolygon, ring(square(0, 0, 1)...)),
				list(TagPolygon, ring(square(5, 5, 1)...)),
			),
			want: geometry.MultiPolygon{
				{Exterior: square(0, 0, 1)},
				{Exterior: square(5, 5, 1)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}
}

func TestBuildPolygonSquare(t *testing.T) {
	n := list(TagPolygon, matrix(TagLineString, 4, 0, 1, 1, 0, 0, 0, 1, 1))

	g, err := Build(n)
	require.NoError(t, err)

	poly, ok := g.(geometry.Polygon)
	require.True(t, ok)
	assert.Equal(t, geometry.LineString{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, poly.Exterior)
	assert.Empty(t, poly.Interiors)

	back := Serialize(poly)
	assert.Equal(t, 1, back.Len())
}

func TestBuildAbsent(t *testing.T) {
	tests := []struct {
		name string
		node *Node
	}{
		{"null", nil},
		{"untagged", NewMatrix(nil, []int{1, 2}, []float64{1, 2})},
		{"unsupported tag", NewMatrix([]string{"XY", "CIRCULARSTRING", "sfg"}, []int{1, 2}, []float64{1, 2})},
		{"lower-case tag", NewMatrix([]string{"XY", "point", "sfg"}, []int{1, 2}, []float64{1, 2})},
		{"only dimension tag", NewMatrix([]string{"XY"}, []int{1, 2}, []float64{1, 2})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.node)
			require.NoError(t, err)
			assert.Nil(t, g)
		})
	}
}

func TestBuildColumnCount(t *testing.T) {
	for _, rows := range []int{0, 1, 3} {
		for _, cols := range []int{1, 3} {
			n := NewMatrix(Class(TagMultiPoint), []int{rows, cols}, make([]float64, rows*cols))

			_, err := Build(n)
			var shape *ShapeError
			require.ErrorAs(t, err, &shape, "rows=%d cols=%d", rows, cols)
			assert.Equal(t, "2 columns", shape.Want)
			assert.Equal(t, []int{rows, cols}, shape.Dim)
		}
	}
}

func TestBuildShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		node     *Node
		wantPath []int
		want     string
	}{
		{
			name: "one dimension",
			node: NewMatrix(Class(TagLineString), []int{4}, []float64{1, 2, 3, 4}),
			want: "2 dimensions",
		},
		{
			name: "short buffer",
			node: NewMatrix(Class(TagLineString), []int{3, 2}, []float64{1, 2, 3}),
			want: "6 values for dim [3 2]",
		},
		{
			name: "point with two rows",
			node: matrix(TagPoint, 2, 1, 2, 3, 4),
			want: "1 row",
		},
		{
			name: "polygon given as matrix",
			node: matrix(TagPolygon, 1, 1, 2),
			want: "list",
		},
		{
			name: "linestring given as list",
			node: list(TagLineString),
			want: "matrix",
		},
		{
			name:     "bad multilinestring child",
			node:     list(TagMultiLineString, matrix(TagLineString, 1, 1, 2), list(TagLineString)),
			wantPath: []int{1},
			want:     "matrix",
		},
		{
			name: "bad interior ring",
			node: list(TagMultiPolygon,
				list(TagPolygon, ring(square(0, 0, 1)...)),
				list(TagPolygon, ring(square(0, 0, 1)...), NewMatrix(Class(TagLineString), []int{1, 3}, []float64{1, 2, 3})),
			),
			wantPath: []int{1, 1},
			want:     "2 columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.node)
			var shape *ShapeError
			require.ErrorAs(t, err, &shape)
			assert.Equal(t, tt.want, shape.Want)
			assert.Equal(t, tt.wantPath, shape.Path)
			assert.Equal(t, -1, shape.Index)
		})
	}
}

func TestBuildEmptyRings(t *testing.T) {
	_, err := Build(list(TagPolygon))
	var rings *EmptyRingsError
	require.ErrorAs(t, err, &rings)
	assert.Nil(t, rings.Path)

	_, err = Build(list(TagMultiPolygon, list(TagPolygon, ring(square(0, 0, 1)...)), list(TagPolygon)))
	require.ErrorAs(t, err, &rings)
	assert.Equal(t, []int{1}, rings.Path)
	assert.Contains(t, err.Error(), "child 1")
}

func TestBuildKeepsNonFinite(t *testing.T) {
	g, err := Build(matrix(TagPoint, 1, math.NaN(), math.Inf(1)))
	require.NoError(t, err)

	p := g.(geometry.Point)
	assert.True(t, math.IsNaN(p.X))
	assert.True(t, math.IsInf(p.Y, 1))
}

func TestDecodeCoords(t *testing.T) {
	coords, err := DecodeCoords(NewMatrix(nil, []int{2, 2}, []float64{1, 2, 3, 4}))
	require.NoError(t, err)
	assert.Equal(t, []geometry.Coord{{X: 1, Y: 3}, {X: 2, Y: 4}}, coords)

	points, err := DecodePoints(NewMatrix(nil, []int{2, 2}, []float64{1, 2, 3, 4}))
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{geometry.NewPoint(1, 3), geometry.NewPoint(2, 4)}, points)

	_, err = DecodeCoords(nil)
	var shape *ShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, "null", shape.Got)
}
