package geometry

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkbhex"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// ErrUnknownFormat is returned by Parse for text that is not WKT, hex WKB or GeoJSON
var ErrUnknownFormat = errors.New("geometry: unknown geometry format")

// Format selects a text encoding for FormatGeometry
type Format int

const (
	FormatWKT Format = iota
	FormatGeoJSON
	FormatWKB
)

func (f Format) String() string {
	switch f {
	case FormatGeoJSON:
		return "geojson"
	case FormatWKB:
		return "wkb"
	default:
		return "wkt"
	}
}

// ParseFormat parses a format name as accepted on the command line
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wkt":
		return FormatWKT, nil
	case "geojson", "json":
		return FormatGeoJSON, nil
	case "wkb", "hex":
		return FormatWKB, nil
	default:
		return FormatWKT, fmt.Errorf("unknown format %q (want wkt, geojson or wkb)", s)
	}
}

// Parse parses hex (E)WKB, GeoJSON or WKT. Empty input and NULL yield an
// absent geometry.
func Parse(val string) (Geometry, error) {
	val = strings.TrimSpace(val)
	if val == "" || strings.EqualFold(val, "NULL") {
		return nil, nil
	}

	var (
		t   geom.T
		err error
	)
	switch {
	case isHexString(val):
		t, err = ewkbhex.Decode(val)
	case strings.HasPrefix(val, "{"):
		err = geojson.Unmarshal([]byte(val), &t)
	case isWKT(val):
		t, err = wkt.Unmarshal(val)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}
	return FromGeom(t)
}

// ParseWKB decodes binary WKB as returned by ST_AsBinary
func ParseWKB(data []byte) (Geometry, error) {
	if data == nil {
		return nil, nil
	}
	t, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return FromGeom(t)
}

// FormatGeometry writes g in the requested text encoding. Absent geometries are
// written as NULL (null for GeoJSON).
func FormatGeometry(g Geometry, f Format) (string, error) {
	if g == nil {
		if f == FormatGeoJSON {
			return "null", nil
		}
		return "NULL", nil
	}

	t, err := ToGeom(g)
	if err != nil {
		return "", err
	}

	switch f {
	case FormatGeoJSON:
		data, err := geojson.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatWKB:
		return wkbhex.Encode(t, binary.LittleEndian)
	default:
		return wkt.Marshal(t)
	}
}

// LineError records a line that could not be parsed
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ParseLines reads one geometry per line. Blank lines and lines starting
// with # are skipped; unparseable lines keep their position as an absent
// geometry and are reported in errs.
func ParseLines(r io.Reader) (geoms []Geometry, errs []*LineError, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		g, perr := Parse(line)
		if perr != nil {
			errs = append(errs, &LineError{Line: lineNo, Err: perr})
		}
		geoms = append(geoms, g)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return geoms, errs, nil
}

func isHexString(s string) bool {
	if len(s) < 2 || len(s)%2 != 0 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

func isWKT(val string) bool {
	upper := strings.ToUpper(val)
	return strings.HasPrefix(upper, "POINT") ||
		strings.HasPrefix(upper, "LINESTRING") ||
		strings.HasPrefix(upper, "POLYGON") ||
		strings.HasPrefix(upper, "MULTI") ||
		strings.HasPrefix(upper, "GEOMETRY")
}
