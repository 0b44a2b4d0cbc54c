package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
	"github.com/kartoza/kartoza-sfgeo/internal/postgres"
)

// columnFlags select a PostGIS geometry column
type columnFlags struct {
	service string
	table   string
	column  string
	limit   int
}

// target returns the service or URL to connect to, falling back to config
func (f *columnFlags) target() (string, error) {
	if f.service != "" {
		return f.service, nil
	}
	if cfg.Postgres.Service != "" {
		return cfg.Postgres.Service, nil
	}
	return "", fmt.Errorf("no database given: use --service or set postgres.service")
}

// loadColumn reads the selected column. Rows that fail to decode are
// logged and kept as absent geometries.
func (f *columnFlags) loadColumn(ctx context.Context, progress postgres.ProgressCallback) ([]geometry.Geometry, error) {
	if f.table == "" || f.column == "" {
		return nil, fmt.Errorf("--table and --column are required")
	}
	target, err := f.target()
	if err != nil {
		return nil, err
	}

	db, err := postgres.Open(ctx, target)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	loader := postgres.NewLoader(db)
	loader.SetProgressCallback(progress)

	geoms, rowErrs, err := loader.Load(ctx, f.table, f.column, f.limit)
	if err != nil {
		return nil, err
	}
	for _, rowErr := range rowErrs {
		slog.Warn("stored geometry could not be decoded", "table", f.table, "row", rowErr.Row, "error", rowErr.Err)
	}
	return geoms, nil
}
