package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/terrareport/internal/config"
	"github.com/nao1215/terrareport/internal/export"
	"github.com/nao1215/terrareport/internal/model"
	"github.com/nao1215/terrareport/internal/pipeline"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <analysis>",
		Short: "Submit export-to-asset jobs for an analysis",
		Long: `Export submits one export-to-asset job per year of the analysis (or a
single job for an ndvi-change analysis) and records each job in the local
task ledger. It returns as soon as the jobs are accepted; use
'terrareport tasks --refresh' to check on them later.

Asset ids are <assetRoot>/<export.folder>/<prefix><year>.

Examples:
  terrareport export germany-ndvi
  terrareport export germany-ndvi-change --project my-project`,
		Args: cobra.ExactArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().Int("batch", config.DefaultBatchSize, "Number of jobs submitted concurrently")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
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
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close task ledger", "error", err)
		}
	}()

	exporter := export.NewExporter(client, db, export.WithLogger(logger))
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			p := pipeline.New(pipeline.WithLogger(logger))
			p.AddSteps(
				pipeline.NewBoundsStep(nil),
				pipeline.NewComposeStep(),
				pipeline.NewExportStep(exporter),
			)
			return p
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	if _, err := bp.ProcessBatch(ctx, jobs); err != nil {
		return err
	}

	var tasks []model.ExportTask
	for _, job := range jobs {
		if job.Task != nil {
			tasks = append(tasks, *job.Task)
		}
	}
	printTasks(cmd.OutOrStdout(), tasks)

	if n := failedJobs(jobs, logger); n > 0 {
		return fmt.Errorf("%d of %d exports failed", n, len(jobs))
	}
	return nil
}

// printTasks writes tasks as an aligned table.
func printTasks(w io.Writer, tasks []model.ExportTask) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No export tasks.")
		return
	}
	fmt.Fprintf(w, "%-10s  %-20s  %-32s  %s\n", "STATE", "SUBMITTED", "DESCRIPTION", "OPERATION")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	for _, t := range tasks {
		fmt.Fprintf(w, "%-10s  %-20s  %-32s  %s\n",
			t.State,
			t.SubmittedAt.Local().Format("2006-01-02 15:04:05"),
			t.Description,
			t.Operation,
		)
		if t.Error != "" {
			fmt.Fprintf(w, "%-10s  %s\n", "", t.Error)
		}
	}
}
