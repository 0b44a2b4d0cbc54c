package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sfgeo/internal/sf"
)

var (
	classifyCodec codecFlags
	classifyAs    string
)

var classifyCmd = &cobra.Command{
	Use:   "classify FILE",
	Short: "Print the container class of a node document",
	Long: `Decode a node document and print the container class its elements
classify to, the element kind and the class recorded in the document.
--as overrides the classified kind, as long as it names a geometry kind.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := classifyCodec.options(cmd)
		if err != nil {
			return err
		}

		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		v, report, err := sf.BuildVector(doc.Geometries, opts)
		if err != nil {
			return err
		}
		if classifyAs != "" {
			if v, err = sf.AsVector(v.Handles(), classifyAs); err != nil {
				return err
			}
		}

		kind, err := sf.ElementKind(v)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Class: %s\n", strings.Join(v.Class(), ", "))
		fmt.Fprintf(out, "Kind: %s\n", kind)
		if len(doc.Class) > 0 {
			fmt.Fprintf(out, "Document Class: %s\n", strings.Join(doc.Class, ", "))
		}
		fmt.Fprintf(out, "Elements: %d\n", v.Len())
		printReport(out, report)
		return nil
	},
}

func init() {
	classifyCodec.register(classifyCmd)
	classifyCmd.Flags().StringVar(&classifyAs, "as", "", "force the container kind, e.g. polygon")
}
