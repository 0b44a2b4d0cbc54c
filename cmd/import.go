package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sfgeo/internal/postgres"
	"github.com/kartoza/kartoza-sfgeo/internal/sf"
)

var (
	importColumn columnFlags
	importList   bool
	importOutput string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a PostGIS geometry column as a node document",
	Long: `Connect to PostGIS through a pg_service.conf entry (or a postgres:// URL)
and write a geometry column as a JSON node document. --list prints the
geometry columns registered in the database instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if importList {
			target, err := importColumn.target()
			if err != nil {
				return err
			}
			db, err := postgres.Open(ctx, target)
			if err != nil {
				return err
			}
			defer db.Close()

			columns, err := postgres.NewLoader(db).GeometryColumns(ctx)
			if err != nil {
				return err
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("COLUMN", "TYPE", "SRID")
			for _, c := range columns {
				t.Row(c.QualifiedName(), c.GeomType, strconv.Itoa(c.SRID))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		}

		geoms, err := importColumn.loadColumn(ctx, nil)
		if err != nil {
			return err
		}

		doc := &sf.Document{
			Class:      sf.ClassStack(sf.SFCClass(geoms)),
			Geometries: sf.SerializeVector(geoms),
		}

		w, err := createOutput(cmd, importOutput)
		if err != nil {
			return err
		}
		if err := sf.WriteDocument(w, doc); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}

		if importOutput != "" && importOutput != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d geometries from %s.%s to %s\n",
				len(geoms), importColumn.table, importColumn.column, importOutput)
		}
		return nil
	},
}

func init() {
	flags := importCmd.Flags()
	flags.StringVarP(&importColumn.service, "service", "s", "", "pg_service.conf entry or postgres:// URL (default from config)")
	flags.StringVarP(&importColumn.table, "table", "t", "", "table, optionally schema-qualified")
	flags.StringVarP(&importColumn.column, "column", "c", "", "geometry column")
	flags.IntVar(&importColumn.limit, "limit", 0, "read at most this many rows")
	flags.BoolVar(&importList, "list", false, "list geometry columns and exit")
	flags.StringVarP(&importOutput, "output", "o", "", "output file (default stdout)")
}
