package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nao1215/terrareport/internal/config"
)

// NewRootCmd creates the root command for terrareport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terrareport",
		Short: "Country-scale NDVI and LST rasters rendered into PDF reports",
		Long: `terrareport builds NDVI, NDVI change and land surface temperature
rasters for a country on Earth Engine, downloads their thumbnails or
exports them as assets, and lays the thumbnails out as a captioned PDF
with a color legend.

Analyses are defined in .terrareport.yaml. Run 'terrareport init' to
create a commented template.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.StringP("config", "c", "", "Path to the project file (default: search .terrareport.yaml)")
	flags.String("project", "", "Cloud project requests are billed to")
	flags.String("credentials", "", "Service account or user credentials JSON file")
	flags.Duration("timeout", config.DefaultTimeout, "Timeout for a single remote call")
	flags.String("db-dir", config.XDGDataDir(), "Directory holding the task ledger")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewThumbnailsCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewTasksCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
