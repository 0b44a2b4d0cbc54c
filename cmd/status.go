package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sfgeo/internal/postgres"
	"github.com/kartoza/kartoza-sfgeo/internal/render"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show application status",
	Long: `Show the effective configuration, the pg_service.conf in use, terminal
graphics support and, when a service is configured, the PostGIS connection.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Kartoza SFGeo Status\n")
		fmt.Fprintf(out, "====================\n")
		fmt.Fprintf(out, "Config File: %s\n", cfg.Path())
		fmt.Fprintf(out, "Log: %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
		fmt.Fprintf(out, "On Error: %s\n", cfg.Codec.OnError)
		fmt.Fprintf(out, "Workers: %d\n", cfg.Codec.Workers)
		fmt.Fprintf(out, "Render Size: %dx%d (padding %d)\n", cfg.Render.Width, cfg.Render.Height, cfg.Render.Padding)
		if cfg.Metrics.Textfile != "" {
			fmt.Fprintf(out, "Metrics File: %s\n", cfg.Metrics.Textfile)
		}
		fmt.Fprintf(out, "Terminal Graphics: %v\n", render.SupportsKitty())

		serviceFile := postgres.ServiceFilePath()
		if serviceFile == "" {
			fmt.Fprintf(out, "Service File: not found\n")
		} else {
			services, err := postgres.ParsePGServiceFile()
			if err != nil {
				fmt.Fprintf(out, "Service File: %s (unreadable: %v)\n", serviceFile, err)
			} else {
				fmt.Fprintf(out, "Service File: %s (%d services)\n", serviceFile, len(services))
			}
		}

		if cfg.Postgres.Service == "" {
			fmt.Fprintf(out, "Active Database: none\n")
			return
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		db, err := postgres.Open(ctx, cfg.Postgres.Service)
		if err != nil {
			fmt.Fprintf(out, "Active Database: %s (unavailable: %v)\n", cfg.Postgres.Service, err)
			return
		}
		defer db.Close()

		loader := postgres.NewLoader(db)
		version, err := loader.Version(ctx)
		if err != nil {
			fmt.Fprintf(out, "Active Database: %s (version unknown: %v)\n", cfg.Postgres.Service, err)
			return
		}
		fmt.Fprintf(out, "Active Database: %s\n", cfg.Postgres.Service)
		fmt.Fprintf(out, "Server: %s\n", version)

		hasPostGIS, err := loader.CheckPostGIS(ctx)
		if err != nil {
			fmt.Fprintf(out, "PostGIS: unknown (%v)\n", err)
			return
		}
		fmt.Fprintf(out, "PostGIS: %v\n", hasPostGIS)
	},
}
