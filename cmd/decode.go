package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sfgeo/internal/geometry"
)

var (
	decodeCodec  codecFlags
	decodeFormat string
)

var decodeCmd = &cobra.Command{
	Use:   "decode FILE",
	Short: "Decode a node document into geometries",
	Long: `Decode a JSON node document (or "-" for stdin) into a geometry vector
and print its container class, every element in the chosen format and a
summary of absent and failed elements.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := decodeCodec.options(cmd)
		if err != nil {
			return err
		}
		format, err := geometry.ParseFormat(decodeFormat)
		if err != nil {
			return err
		}

		v, report, err := readVector(args[0], opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Class: %s\n", strings.Join(v.Class(), ", "))
		for i, h := range v.Handles() {
			text, err := geometry.FormatGeometry(h.Geometry(), format)
			if err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			fmt.Fprintf(out, "[%d] %s\n", i, text)
		}
		printReport(out, report)
		return nil
	},
}

func init() {
	decodeCodec.register(decodeCmd)
	decodeCmd.Flags().StringVarP(&decodeFormat, "format", "f", "wkt", "output format: wkt, geojson or wkb")
}
