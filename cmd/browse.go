package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
	"github.com/kartoza/kartoza-sfgeo/internal/logging"
	"github.com/kartoza/kartoza-sfgeo/internal/sf"
	"github.com/kartoza/kartoza-sfgeo/internal/tui"
)

var (
	browseCodec   codecFlags
	browseColumn  columnFlags
	browseFormat  string
	browsePreview bool
)

var browseCmd = &cobra.Command{
	Use:   "browse [FILE]",
	Short: "Browse a geometry vector interactively",
	Long: `Open an interactive browser over a node document, or over a PostGIS
geometry column selected with --table and --column. Each element shows its
class, node and text form; --preview draws the selected element in
terminals that speak the kitty graphics protocol.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// the browser owns the terminal
		slog.SetDefault(logging.Discard())

		opts, err := browseCodec.options(cmd)
		if err != nil {
			return err
		}

		format, err := geometry.ParseFormat(browseFormat)
		if err != nil {
			return err
		}

		var src tui.Source
		switch {
		case len(args) == 1:
			path := args[0]
			src = tui.Source{
				Name: path,
				Load: func(ctx context.Context, progress tui.ProgressFunc) (*sf.Vector, *sf.Report, error) {
					return readVector(path, opts)
				},
			}
		case browseColumn.table != "":
			src = tui.Source{
				Name: browseColumn.table + "." + browseColumn.column,
				Load: func(ctx context.Context, progress tui.ProgressFunc) (*sf.Vector, *sf.Report, error) {
					geoms, err := browseColumn.loadColumn(ctx, func(current, total int, message string) {
						progress(current, total, message)
					})
					if err != nil {
						return nil, nil, err
					}
					return sf.BuildVector(sf.SerializeVector(geoms), opts)
				},
			}
		default:
			return fmt.Errorf("give a FILE or --table and --column")
		}

		return tui.Run(cmd.Context(), src, tui.Options{
			Format:  format,
			Preview: browsePreview,
			Width:   cfg.Render.Width,
			Height:  cfg.Render.Height,
			Padding: cfg.Render.Padding,
		})
	},
}

func init() {
	browseCodec.register(browseCmd)
	flags := browseCmd.Flags()
	flags.StringVarP(&browseColumn.service, "service", "s", "", "pg_service.conf entry or postgres:// URL (default from config)")
	flags.StringVarP(&browseColumn.table, "table", "t", "", "table, optionally schema-qualified")
	flags.StringVarP(&browseColumn.column, "column", "c", "", "geometry column")
	flags.IntVar(&browseColumn.limit, "limit", 0, "read at most this many rows")
	flags.StringVarP(&browseFormat, "format", "f", "wkt", "initial detail format: wkt, geojson or wkb")
	flags.BoolVar(&browsePreview, "preview", false, "draw the selected element in the terminal")
}
