package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sfgeo/internal/sf"
)

// codecFlags are the conversion overrides shared by commands that build vectors
type codecFlags struct {
	onError string
	workers int
}

func (f *codecFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.onError, "on-error", "", "what a malformed element does: absent or abort (default from config)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "elements decoded in parallel (default from config)")
}

// options merges the flags over the loaded config
func (f *codecFlags) options(cmd *cobra.Command) (sf.BuildOptions, error) {
	opts, err := cfg.BuildOptions()
	if err != nil {
		return opts, err
	}
	if cmd.Flags().Changed("on-error") {
		if opts.Policy, err = sf.ParsePolicy(f.onError); err != nil {
			return opts, err
		}
	}
	if cmd.Flags().Changed("workers") {
		if f.workers < 1 {
			return opts, fmt.Errorf("--workers must be at least 1, got %d", f.workers)
		}
		opts.Workers = f.workers
	}
	opts.Logger = slog.Default()
	return opts, nil
}

// openInput opens path for reading, "-" meaning stdin
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// createOutput creates path for writing, "" or "-" meaning the command's stdout
func createOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// readDocument reads a node document from path
func readDocument(path string) (*sf.Document, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := sf.ReadDocument(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// readVector reads a node document and decodes it into a vector
func readVector(path string, opts sf.BuildOptions) (*sf.Vector, *sf.Report, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, nil, err
	}
	return sf.BuildVector(doc.Geometries, opts)
}

// printReport writes a one-line report summary followed by every failure
func printReport(w io.Writer, report *sf.Report) {
	if report == nil {
		return
	}
	fmt.Fprintf(w, "Report: %s\n", report)
	for _, err := range report.Failures {
		fmt.Fprintf(w, "  - %v\n", err)
	}
}
