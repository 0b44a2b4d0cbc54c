package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
	"github.com/kartoza/kartoza-sfgeo/internal/sf"
)

var encodeOutput string

var encodeCmd = &cobra.Command{
	Use:   "encode FILE",
	Short: "Encode geometries into a node document",
	Long: `Read one geometry per line (WKT, hex WKB/EWKB or GeoJSON) and write them as
a JSON node document. Blank lines and # comments are skipped and NULL is
stored as absent. Lines that cannot
be parsed are reported and stored as absent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		geoms, lineErrs, err := geometry.ParseLines(r)
		if err != nil {
			return err
		}
		for _, lineErr := range lineErrs {
			slog.Warn("skipping unparseable line", "error", lineErr)
		}

		doc := &sf.Document{
			Class:      sf.ClassStack(sf.SFCClass(geoms)),
			Geometries: sf.SerializeVector(geoms),
		}

		w, err := createOutput(cmd, encodeOutput)
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

		if encodeOutput != "" && encodeOutput != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d geometries to %s\n", len(geoms), encodeOutput)
		}
		return nil
	},
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "output file (default stdout)")
}
