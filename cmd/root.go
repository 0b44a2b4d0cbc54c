package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sfgeo/internal/config"
	"github.com/kartoza/kartoza-sfgeo/internal/logging"
	"github.com/kartoza/kartoza-sfgeo/internal/metrics"
)

var (
	appVersion = "dev"

	configFile  string
	logLevel    string
	logFormat   string
	metricsFile string

	// cfg is loaded before every command runs
	cfg *config.Config
)

// SetVersion sets the application version
func SetVersion(v string) {
	appVersion = v
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kartoza-sfgeo",
	Short: "Convert between tagged simple-feature nodes and geometries",
	Long: `Kartoza SFGeo - decode, encode and browse simple-feature geometry
columns stored as tagged coordinate matrices.

This tool allows you to:
  - Decode node documents into typed geometry vectors
  - Encode WKT, WKB hex or GeoJSON lines into node documents
  - Classify and inspect geometry vectors
  - Render previews as PNG or straight into the terminal
  - Browse vectors interactively
  - Import geometry columns from PostGIS via pg_service.conf

Built with love by Kartoza.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.Log.Format = logFormat
		}
		if cmd.Flags().Changed("metrics-file") {
			cfg.Metrics.Textfile = metricsFile
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		slog.Debug("configuration loaded", "path", cfg.Path())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil || cfg.Metrics.Textfile == "" {
			return nil
		}
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		slog.Debug("metrics written", "path", cfg.Metrics.Textfile)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ~/.config/kartoza-sfgeo/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	flags.StringVar(&metricsFile, "metrics-file", "", "write codec metrics to this textfile on exit")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
}
