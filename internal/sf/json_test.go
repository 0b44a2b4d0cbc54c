package sf

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalNode(t *testing.T) {
	b, err := json.Marshal(matrix(TagPoint, 1, 1.5, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":["XY","POINT","sfg"],"dim":[1,2],"data":[1.5,2]}`, string(b))

	b, err = json.Marshal(list(TagMultiPolygon))
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":["XY","MULTIPOLYGON","sfg"],"items":[]}`, string(b))

	b, err = json.Marshal([]*Node{nil, list(TagPolygon, matrix(TagLineString, 0))})
	require.NoError(t, err)
	assert.JSONEq(t, `[null,{"class":["XY","POLYGON","sfg"],"items":[{"class":["XY","LINESTRING","sfg"],"dim":[0,2],"data":[]}]}]`, string(b))
}

func TestMarshalNonFinite(t *testing.T) {
	n := matrix(TagLineString, 2, math.NaN(), math.Inf(1), math.Inf(-1), 0.1)

	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"data":[null,"Inf","-Inf",0.1]`)

	var back Node
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, Equal(n, &back))
}

func TestMarshalNaNPayload(t *testing.T) {
	// R's NA_real_ is a NaN with payload 1954
	na := math.Float64frombits(0x7FF00000000007A2)
	n := matrix(TagPoint, 1, na, 1)

	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"data":["NaN:7ff00000000007a2",1]`)

	var back Node
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, Equal(n, &back))
	assert.Equal(t, uint64(0x7FF00000000007A2), math.Float64bits(back.Data()[0]))

	var bad Node
	assert.Error(t, json.Unmarshal([]byte(`{"class":["XY","POINT","sfg"],"dim":[1,2],"data":["NaN:3ff0000000000000",1]}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"class":["XY","POINT","sfg"],"dim":[1,2],"data":["NaN:zz",1]}`), &bad))
}

func TestUnmarshalNode(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"class":["XY","LINESTRING","sfg"],"dim":[3,2],"data":[0,1,2,10,11,12]}`), &n))
	assert.Equal(t, MatrixNode, n.Type())
	assert.Equal(t, TagLineString, n.Tag())

	coords, err := DecodeCoords(&n)
	require.NoError(t, err)
	assert.Len(t, coords, 3)

	var l Node
	require.NoError(t, json.Unmarshal([]byte(`{"class":["XY","POLYGON","sfg"],"items":[]}`), &l))
	assert.Equal(t, ListNode, l.Type())
	assert.Equal(t, 0, l.Len())

	var bad Node
	assert.Error(t, json.Unmarshal([]byte(`{"class":["XY","POINT","sfg"]}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"class":["XY","POINT","sfg"],"dim":[1,2],"data":["x",1]}`), &bad))
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := &Document{
		Class: ClassStack{"sfc_POLYGON", "sfc"},
		Geometries: []*Node{
			list(TagPolygon, ring(square(0, 0, 1)...)),
			nil,
			list(TagPolygon, ring(square(5, 5, 2)...), ring(square(6, 6, 0.5)...)),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))

	back, err := ReadDocument(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Class, back.Class)
	require.Len(t, back.Geometries, 3)
	for i := range doc.Geometries {
		assert.True(t, Equal(doc.Geometries[i], back.Geometries[i]), "geometry %d", i)
	}
}

func TestReadDocumentBareArray(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(`
		[{"class":["XY","POINT","sfg"],"dim":[1,2],"data":[1,2]}, null]
	`))
	require.NoError(t, err)
	assert.Nil(t, doc.Class)
	require.Len(t, doc.Geometries, 2)
	assert.Equal(t, TagPoint, doc.Geometries[0].Tag())
	assert.Nil(t, doc.Geometries[1])
}

func TestReadDocumentErrors(t *testing.T) {
	_, err := ReadDocument(strings.NewReader(`{"geometries": [`))
	assert.Error(t, err)

	_, err = ReadDocument(strings.NewReader(`[1, 2]`))
	assert.Error(t, err)
}
