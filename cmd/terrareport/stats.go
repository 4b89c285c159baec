package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/terrareport/internal/config"
	"github.com/nao1215/terrareport/internal/model"
	"github.com/nao1215/terrareport/internal/pipeline"
	"github.com/nao1215/terrareport/internal/report"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <analysis>",
		Short: "Compute the regional minimum and maximum of every output",
		Long: `Stats reduces every output raster of the analysis to its minimum and
maximum over the country region, writes the values as CSV and stores them
in the task ledger, where 'terrareport report --summary' finds them.

Examples:
  # Print CSV to stdout
  terrareport stats germany-ndvi

  # Write to a file
  terrareport stats germany-lst -o lst-stats.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runStatsCmd,
	}

	cmd.Flags().StringP("output", "o", "-", "CSV output path, - for stdout")
	cmd.Flags().Int("batch", config.DefaultBatchSize, "Number of outputs reduced concurrently")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	_, jobs, err := resolveJobs(cfg, args[0])
	if err != nil {
		return err
	}
	client, err := newEarthEngineClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			p := pipeline.New(pipeline.WithLogger(logger))
			p.AddSteps(
				pipeline.NewBoundsStep(nil),
				pipeline.NewComposeStep(),
				pipeline.NewStatsStep(client),
			)
			return p
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	if _, err := bp.ProcessBatch(ctx, jobs); err != nil {
		return err
	}

	var stats []model.RegionStats
	for _, job := range jobs {
		stats = append(stats, job.Stats...)
	}

	if len(stats) > 0 {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		saveErr := db.SaveStats(ctx, stats)
		if err := db.Close(); err != nil {
			logger.Warn("failed to close task ledger", "error", err)
		}
		if saveErr != nil {
			return fmt.Errorf("failed to save statistics: %w", saveErr)
		}
	}

	if err := writeStats(cmd.OutOrStdout(), output, stats); err != nil {
		return err
	}
	if n := failedJobs(jobs, logger); n > 0 {
		return fmt.Errorf("%d of %d reductions failed", n, len(jobs))
	}
	return nil
}

// writeStats writes stats as CSV to path, or to stdout when path is "-".
func writeStats(stdout io.Writer, path string, stats []model.RegionStats) error {
	if path == "" || path == "-" {
		return report.WriteStatsCSV(stdout, stats)
	}
	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := report.WriteStatsCSV(f, stats); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
