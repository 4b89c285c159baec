package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/terrareport/internal/config"
	"github.com/nao1215/terrareport/internal/database"
	"github.com/nao1215/terrareport/internal/model"
	"github.com/nao1215/terrareport/internal/report"
	"github.com/nao1215/terrareport/internal/storage"
)

// defaultReportFile is the default PDF output path.
const defaultReportFile = "report.pdf"

// reportOptions are the resolved inputs of one report run.
type reportOptions struct {
	dir      string
	prefix   string
	captions model.Captions
	output   string
	summary  string
	publish  bool
	title    string
	legend   report.Legend
	analysis *config.Analysis
}

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Assemble PNG thumbnails into a captioned PDF report",
		Long: `Report lays out every <prefix>*.png in a directory, in file name order,
as one portrait A4 page each: the image scaled to fit, a caption line and a
white to green legend bar.

Captions come from a YAML or JSON file mapping file stems to text. With
--analysis the prefix and captions are derived from the analysis
definition, so the output of 'terrareport thumbnails' can be used as is;
a --captions file still overrides individual entries.

The PDF is written to a temporary file and renamed over the output path
only after every page rendered; a failure leaves no partial file behind.

Examples:
  # Thumbnails rendered for an analysis
  terrareport report --analysis germany-ndvi -o germany-ndvi.pdf

  # Any PNG set with a caption file
  terrareport report --dir images --prefix Germany_NDVI_ --captions captions.yaml

  # Also write a markdown summary and upload both
  terrareport report --analysis germany-ndvi --summary summary.md --publish`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().String("dir", "", "Directory holding the PNG files (default: imageDir from the project file, or .)")
	cmd.Flags().String("prefix", "", "File name prefix selecting the images")
	cmd.Flags().String("captions", "", "YAML or JSON file mapping file stems to captions")
	cmd.Flags().String("analysis", "", "Derive prefix and captions from this analysis")
	cmd.Flags().StringP("output", "o", defaultReportFile, "Output PDF path")
	cmd.Flags().String("summary", "", "Also write a markdown summary to this path")
	cmd.Flags().Bool("publish", false, "Upload the report to the configured blob container")
	cmd.Flags().String("title", "", "Document title (default: report.title from the project file)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	opts, err := buildReportOptions(cmd, cfg)
	if err != nil {
		return err
	}
	if opts.publish {
		if err := cfg.File.Publish.Validate(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
	}

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	builder := report.NewBuilder(
		report.WithLegend(opts.legend),
		report.WithTitle(opts.title),
		report.WithLogger(logger),
	)
	res, err := builder.Build(opts.dir, opts.prefix, opts.captions, opts.output)
	if err != nil {
		var noInput *report.NoInputError
		if errors.As(err, &noInput) {
			return fmt.Errorf("%w (run 'terrareport thumbnails' first?)", err)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created report: %s (%d pages)\n", res.Output, res.Pages)
	if len(res.MissingCaptions) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d page(s) have no caption\n", len(res.MissingCaptions))
	}
	if len(res.LossyCaptions) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d caption(s) contain characters outside cp1252: %s\n",
			len(res.LossyCaptions), strings.Join(res.LossyCaptions, ", "))
	}

	if opts.summary != "" {
		if err := writeSummary(ctx, cfg, opts, res, logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created summary: %s\n", opts.summary)
	}

	if opts.publish {
		files := []string{res.Output}
		if opts.summary != "" {
			files = append(files, opts.summary)
		}
		if err := publishFiles(ctx, cfg.File.Publish, files, logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published %d file(s) to %s\n", len(files), cfg.File.Publish.Container)
	}
	return nil
}

// buildReportOptions resolves flags over the project file's report settings.
func buildReportOptions(cmd *cobra.Command, cfg *config.Config) (*reportOptions, error) {
	flags := cmd.Flags()
	opts := &reportOptions{dir: cfg.ImageDir}

	dir, err := flags.GetString("dir")
	if err != nil {
		return nil, err
	}
	if dir != "" {
		opts.dir = dir
	}
	if opts.prefix, err = flags.GetString("prefix"); err != nil {
		return nil, err
	}
	captionsPath, err := flags.GetString("captions")
	if err != nil {
		return nil, err
	}
	name, err := flags.GetString("analysis")
	if err != nil {
		return nil, err
	}
	if opts.output, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if opts.summary, err = flags.GetString("summary"); err != nil {
		return nil, err
	}
	if opts.publish, err = flags.GetBool("publish"); err != nil {
		return nil, err
	}
	if opts.title, err = flags.GetString("title"); err != nil {
		return nil, err
	}

	rc := cfg.File.Report
	if opts.title == "" {
		opts.title = rc.Title
	}
	if captionsPath == "" {
		captionsPath = rc.Captions
	}

	opts.legend = report.DefaultLegend()
	opts.captions = model.Captions{}
	if name != "" {
		a, jobs, err := resolveJobs(cfg, name)
		if err != nil {
			return nil, err
		}
		opts.analysis = a
		if opts.prefix == "" {
			opts.prefix = a.Prefix
		}
		for _, job := range jobs {
			opts.captions[job.Stem()] = job.Caption()
		}
	}

	fileCaptions, err := report.LoadCaptions(captionsPath)
	if err != nil {
		return nil, err
	}
	for k, v := range fileCaptions {
		opts.captions[k] = v
	}

	if rc.LegendMin != nil {
		opts.legend.Min = *rc.LegendMin
	}
	if rc.LegendMax != nil {
		opts.legend.Max = *rc.LegendMax
	}
	opts.legend.Title = rc.LegendTitle

	return opts, nil
}

// writeSummary writes the markdown sidecar, including ledger statistics
// when the report was built for an analysis.
func writeSummary(ctx context.Context, cfg *config.Config, opts *reportOptions, res *report.Result, logger *slog.Logger) error {
	summary := report.Summary{
		Title:    opts.title,
		Result:   res,
		Captions: opts.captions,
	}
	if opts.analysis != nil {
		stats, err := analysisStats(ctx, cfg, opts.analysis.Name)
		if err != nil {
			logger.Warn("statistics unavailable", "analysis", opts.analysis.Name, "error", err)
		}
		summary.Stats = stats
		if summary.Title == "" {
			summary.Title = opts.analysis.Name
		}
	}

	f, err := os.Create(opts.summary) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create summary: %w", err)
	}
	if err := report.NewMarkdownWriter(f).Write(summary); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return f.Close()
}

// analysisStats reads the statistics recorded by the stats command.
func analysisStats(ctx context.Context, cfg *config.Config, name string) ([]model.RegionStats, error) {
	db, err := database.Open(cfg.DBDir, database.Options{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return db.ListStats(ctx, name)
}

// publishFiles uploads each file under its base name.
func publishFiles(ctx context.Context, pc config.PublishConfig, files []string, logger *slog.Logger) error {
	pub, err := storage.New(pc, logger)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := publishFile(ctx, pub, path); err != nil {
			return err
		}
	}
	return nil
}

func publishFile(ctx context.Context, pub storage.Publisher, path string) error {
	f, err := os.Open(path) //nolint:gosec // path was just written by this command
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	name := filepath.Base(path)
	if err := pub.Upload(ctx, name, f, storage.ContentType(name)); err != nil {
		return fmt.Errorf("failed to publish %s: %w", path, err)
	}
	return nil
}
