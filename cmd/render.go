package cmd

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sfgeo/internal/config"
	"github.com/kartoza/kartoza-sfgeo/internal/render"
)

var (
	renderCodec     codecFlags
	renderOutput    string
	renderShow      bool
	renderWidth     int
	renderHeight    int
	renderHighlight int
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render a node document to PNG",
	Long: `Decode a node document and draw every present element into a PNG.
Without -o the image is written to ~/.config/kartoza-sfgeo/previews.
--show also draws the image in terminals that speak the kitty graphics
protocol.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := renderCodec.options(cmd)
		if err != nil {
			return err
		}

		v, _, err := readVector(args[0], opts)
		if err != nil {
			return err
		}

		width, height := cfg.Render.Width, cfg.Render.Height
		if cmd.Flags().Changed("width") {
			width = renderWidth
		}
		if cmd.Flags().Changed("height") {
			height = renderHeight
		}
		if width <= 2*cfg.Render.Padding || height <= 2*cfg.Render.Padding {
			return fmt.Errorf("image size %dx%d leaves no room inside padding %d", width, height, cfg.Render.Padding)
		}

		r := render.New(width, height, cfg.Render.Padding)
		r.Highlight = renderHighlight
		img, err := r.Render(v.Geometries())
		if err != nil {
			return err
		}

		path := renderOutput
		if path == "" {
			dir, err := config.PreviewDir()
			if err != nil {
				return err
			}
			path = filepath.Join(dir, previewName(args[0]))
		}

		w, err := createOutput(cmd, path)
		if err != nil {
			return err
		}
		if err := png.Encode(w, img); err != nil {
			w.Close()
			return fmt.Errorf("failed to encode PNG: %w", err)
		}
		if err := w.Close(); err != nil {
			return err
		}
		if path != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %dx%d preview of %d elements to %s\n", width, height, v.Len(), path)
		}

		if renderShow {
			out, err := render.Terminal(img, 60, 20, 1)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, out)
		}
		return nil
	},
}

// previewName derives the PNG name for an input file
func previewName(input string) string {
	if input == "-" {
		return "stdin.png"
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}

func init() {
	renderCodec.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "PNG file to write, - for stdout")
	renderCmd.Flags().BoolVar(&renderShow, "show", false, "draw the preview in the terminal")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "image width in pixels (default from config)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "image height in pixels (default from config)")
	renderCmd.Flags().IntVar(&renderHighlight, "highlight", -1, "draw this element in the highlight color")
}
