package sf

import (
	"time"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
	"github.com/kartoza/kartoza-sfgeo/internal/metrics"
)

// Serialize lowers a geometry value into a tagged node. Absent geometries
// and kinds the tagged form cannot represent (lines, collections) become
// the null node.
func Serialize(g geometry.Geometry) *Node {
	switch g := g.(type) {
	case geometry.Point:
		return encodeMatrix(TagPoint, []geometry.Coord{g.Coord})
	case geometry.MultiPoint:
		coords := make([]geometry.Coord, len(g))
		for i, p := range g {
			coords[i] = p.Coord
		}
		return encodeMatrix(TagMultiPoint, coords)
	case geometry.LineString:
		return encodeMatrix(TagLineString, g)
	case geometry.MultiLineString:
		items := make([]*Node, len(g))
		for i, line := range g {
			items[i] = encodeMatrix(TagLineString, line)
		}
		return newList(Class(TagMultiLineString), items)
	case geometry.Polygon:
		return serializePolygon(g)
	case geometry.MultiPolygon:
		items := make([]*Node, len(g))
		for i, poly := range g {
			items[i] = serializePolygon(poly)
		}
		return newList(Class(TagMultiPolygon), items)
	default:
		return nil
	}
}

func serializePolygon(p geometry.Polygon) *Node {
	rings := p.Rings()
	items := make([]*Node, len(rings))
	for i, ring := range rings {
		items[i] = encodeMatrix(TagLineString, ring)
	}
	return newList(Class(TagPolygon), items)
}

// SerializeVector serializes each element in order. The result has the
// same length as geoms, with null nodes at absent positions.
func SerializeVector(geoms []geometry.Geometry) []*Node {
	start := time.Now()
	nodes := make([]*Node, len(geoms))
	for i, g := range geoms {
		nodes[i] = Serialize(g)
		if nodes[i] == nil {
			metrics.AbsentTotal.WithLabelValues("encode").Inc()
			continue
		}
		metrics.ElementsTotal.WithLabelValues("encode", kindName(g.Kind())).Inc()
	}
	metrics.VectorDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())
	return nodes
}
