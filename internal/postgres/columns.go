package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
)

// ProgressCallback is called with progress updates while rows are loaded
type ProgressCallback func(current, total int, message string)

// GeometryColumn describes a PostGIS geometry column
type GeometryColumn struct {
	Schema   string
	Table    string
	Column   string
	GeomType string
	SRID     int
}

// QualifiedName returns schema.table.column
func (c GeometryColumn) QualifiedName() string {
	return c.Schema + "." + c.Table + "." + c.Column
}

// Loader reads geometry columns from a PostGIS database
type Loader struct {
	db       *sql.DB
	progress ProgressCallback
	logger   *slog.Logger
}

// NewLoader creates a loader over an open connection
func NewLoader(db *sql.DB) *Loader {
	return &Loader{db: db, logger: slog.Default()}
}

// SetProgressCallback sets a callback function for progress updates
func (l *Loader) SetProgressCallback(cb ProgressCallback) {
	l.progress = cb
}

func (l *Loader) reportProgress(current, total int, message string) {
	if l.progress != nil {
		l.progress(current, total, message)
	}
}

// CheckPostGIS checks if PostGIS is installed
func (l *Loader) CheckPostGIS(ctx context.Context) (bool, error) {
	var exists bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_extension WHERE extname = 'postgis'
		)
	`).Scan(&exists)
	return exists, err
}

// Version gets the PostgreSQL version
func (l *Loader) Version(ctx context.Context) (string, error) {
	var version string
	err := l.db.QueryRowContext(ctx, "SELECT version()").Scan(&version)
	return version, err
}

// GeometryColumns lists every registered geometry column
func (l *Loader) GeometryColumns(ctx context.Context) ([]GeometryColumn, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT f_table_schema, f_table_name, f_geometry_column, type, srid
		FROM geometry_columns
		WHERE f_table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY f_table_schema, f_table_name, f_geometry_column
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list geometry columns: %w", err)
	}
	defer rows.Close()

	var columns []GeometryColumn
	for rows.Next() {
		var c GeometryColumn
		if err := rows.Scan(&c.Schema, &c.Table, &c.Column, &c.GeomType, &c.SRID); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// RowError reports a stored geometry that could not be decoded
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Load reads table.column as 2D WKB, one geometry per row in storage
// order. NULL values and rows that fail to decode become absent
// geometries; decode failures are returned alongside. limit <= 0 reads
// every row.
func (l *Loader) Load(ctx context.Context, table, column string, limit int) ([]geometry.Geometry, []*RowError, error) {
	query, err := geometryQuery(table, column, limit)
	if err != nil {
		return nil, nil, err
	}

	total := -1
	if err := l.db.QueryRowContext(ctx, countQuery(query)).Scan(&total); err != nil {
		l.logger.Debug("row count unavailable", "table", table, "error", err)
	}

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	var geoms []geometry.Geometry
	var failures []*RowError
	for rows.Next() {
		var wkb []byte
		if err := rows.Scan(&wkb); err != nil {
			return nil, nil, err
		}

		var g geometry.Geometry
		if wkb != nil {
			if g, err = geometry.ParseWKB(wkb); err != nil {
				failures = append(failures, &RowError{Row: len(geoms), Err: err})
				g = nil
			}
		}
		geoms = append(geoms, g)
		l.reportProgress(len(geoms), total, table)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	l.logger.Debug("loaded geometry column", "table", table, "column", column, "rows", len(geoms), "failures", len(failures))
	return geoms, failures, nil
}

// geometryQuery builds the select for a possibly schema-qualified table.
// Geometries are forced to 2D since only XY coordinates are decoded.
func geometryQuery(table, column string, limit int) (string, error) {
	if column == "" {
		return "", fmt.Errorf("no geometry column given")
	}
	name, err := quoteTable(table)
	if err != nil {
		return "", err
	}

	col := pq.QuoteIdentifier(column)
	query := fmt.Sprintf("SELECT ST_AsBinary(ST_Force2D(%s)) FROM %s", col, name)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return query, nil
}

func countQuery(query string) string {
	return "SELECT COUNT(*) FROM (" + query + ") AS counted"
}

// quoteTable quotes "table" or "schema.table"
func quoteTable(table string) (string, error) {
	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	for i, p := range parts {
		if p == "" {
			return "", fmt.Errorf("invalid table name %q", table)
		}
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, "."), nil
}
