package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nao1215/terrareport/internal/config"
	"github.com/nao1215/terrareport/internal/pipeline"
	"github.com/nao1215/terrareport/internal/thumbnail"
)

// NewThumbnailsCmd creates the thumbnails command.
func NewThumbnailsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thumbnails <analysis>",
		Short: "Render every output of an analysis as a PNG thumbnail",
		Long: `Thumbnails composes the raster for every year of the analysis (or the
single change raster of an ndvi-change analysis), asks Earth Engine for a
rendered thumbnail sized to the region's aspect ratio and writes it to
<dir>/<prefix><year>.png.

The files are named so that 'terrareport report --analysis' picks them up.

Examples:
  # Render every year of the "germany-ndvi" analysis
  terrareport thumbnails germany-ndvi

  # Write into ./out with at most two requests in flight
  terrareport thumbnails germany-ndvi --dir out --batch 2`,
		Args: cobra.ExactArgs(1),
		RunE: runThumbnailsCmd,
	}

	cmd.Flags().String("dir", "", "Output directory (default: imageDir from the project file, or .)")
	cmd.Flags().Int("batch", config.DefaultBatchSize, "Number of outputs rendered concurrently")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

// runThumbnailsCmd executes the thumbnails command.
func runThumbnailsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	if dir != "" {
		cfg.ImageDir = dir
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return err
	}
	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
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
	fetcher := thumbnail.NewFetcher(client, cfg.ImageDir, thumbnail.WithLogger(logger))

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			p := pipeline.New(pipeline.WithLogger(logger))
			p.AddSteps(
				pipeline.NewBoundsStep(client),
				pipeline.NewComposeStep(),
				pipeline.NewThumbnailStep(fetcher, logger),
			)
			return p
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	if err := runWithProgress(ctx, cmd, bp, jobs, "Rendering thumbnails", !noProgress); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, job := range jobs {
		if job.Err == nil {
			fmt.Fprintln(out, job.ThumbnailPath)
		}
	}
	if n := failedJobs(jobs, logger); n > 0 {
		return fmt.Errorf("%d of %d thumbnails failed", n, len(jobs))
	}
	return nil
}

// runWithProgress runs jobs through bp, advancing a progress bar on
// stderr as each one finishes.
func runWithProgress(ctx context.Context, cmd *cobra.Command, bp *pipeline.BatchProcessor, jobs []*pipeline.Job, description string, show bool) error {
	if !show {
		_, err := bp.ProcessBatch(ctx, jobs)
		return err
	}

	bar := progressbar.NewOptions(len(jobs),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, jobs, func(_ *pipeline.Job, _ int) {
		mu.Lock()
		defer mu.Unlock()
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	return err
}
