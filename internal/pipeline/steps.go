package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"

	"github.com/nao1215/terrareport/internal/analysis"
	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/export"
	"github.com/nao1215/terrareport/internal/model"
	"github.com/nao1215/terrareport/internal/thumbnail"
)

var (
	// ErrNoRegion is returned by steps that need the boundary before BoundsStep ran.
	ErrNoRegion = errors.New("job has no region; run the bounds step first")

	// ErrNotComposed is returned by steps that need the raster before ComposeStep ran.
	ErrNotComposed = errors.New("job has no image; run the compose step first")
)

// BoundsComputer evaluates geometry bounds. *earthengine.Client implements it.
type BoundsComputer interface {
	ComputeBounds(ctx context.Context, g ee.Geometry) (orb.Bound, error)
}

// ValueComputer evaluates an expression. *earthengine.Client implements it.
type ValueComputer interface {
	ComputeValue(ctx context.Context, v ee.Valuer, out any) error
}

// ThumbnailFetcher renders a thumbnail to disk. *thumbnail.Fetcher implements it.
type ThumbnailFetcher interface {
	Fetch(ctx context.Context, req thumbnail.Request) (string, error)
}

// ExportSubmitter starts an export job. *export.Exporter implements it.
type ExportSubmitter interface {
	Submit(ctx context.Context, job export.Job) (*model.ExportTask, error)
}

// BoundsStep resolves the country boundary. With a computer it also
// evaluates the bounding box, which thumbnails need for their aspect ratio.
type BoundsStep struct {
	computer BoundsComputer
}

// NewBoundsStep creates a bounds step. A nil computer only resolves the
// boundary expression.
func NewBoundsStep(computer BoundsComputer) *BoundsStep {
	return &BoundsStep{computer: computer}
}

// Name returns the step name.
func (s *BoundsStep) Name() string {
	return "bounds"
}

// Do executes the bounds step.
func (s *BoundsStep) Do(ctx context.Context, job *Job) error {
	region, err := analysis.Boundary(job.Params.Region)
	if err != nil {
		return err
	}
	job.Region = region
	job.HasRegion = true

	if s.computer == nil {
		return nil
	}
	bounds, err := s.computer.ComputeBounds(ctx, region)
	if err != nil {
		return fmt.Errorf("bounds of %s: %w", job.Params.Region.Name, err)
	}
	job.Bounds = bounds
	return nil
}

// ComposeStep builds the raster expression. Nothing is evaluated remotely.
type ComposeStep struct{}

// NewComposeStep creates a compose step.
func NewComposeStep() *ComposeStep {
	return &ComposeStep{}
}

// Name returns the step name.
func (s *ComposeStep) Name() string {
	return "compose"
}

// Do executes the compose step.
func (s *ComposeStep) Do(_ context.Context, job *Job) error {
	img, err := analysis.Build(job.Params)
	if err != nil {
		return fmt.Errorf("compose %s: %w", job.Stem(), err)
	}
	job.Image = img
	job.Composed = true
	return nil
}

// ThumbnailStep renders the composed raster to <dir>/<stem>.png.
type ThumbnailStep struct {
	fetcher ThumbnailFetcher
	logger  *slog.Logger
}

// NewThumbnailStep creates a thumbnail step.
func NewThumbnailStep(fetcher ThumbnailFetcher, logger *slog.Logger) *ThumbnailStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThumbnailStep{fetcher: fetcher, logger: logger}
}

// Name returns the step name.
func (s *ThumbnailStep) Name() string {
	return "thumbnail"
}

// Do executes the thumbnail step.
func (s *ThumbnailStep) Do(ctx context.Context, job *Job) error {
	if !job.HasRegion {
		return ErrNoRegion
	}
	if !job.Composed {
		return ErrNotComposed
	}
	path, err := s.fetcher.Fetch(ctx, thumbnail.Request{
		Name:   job.Stem(),
		Image:  job.Image,
		Region: job.Region,
		Bounds: job.Bounds,
		Vis:    job.Analysis.Vis,
	})
	if err != nil {
		return err
	}
	job.ThumbnailPath = path
	s.logger.Debug("thumbnail ready", "path", path, "caption", job.Caption())
	return nil
}

// ExportStep submits the composed raster as an export-to-asset job and
// returns without waiting for it.
type ExportStep struct {
	submitter ExportSubmitter
}

// NewExportStep creates an export step.
func NewExportStep(submitter ExportSubmitter) *ExportStep {
	return &ExportStep{submitter: submitter}
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return "export"
}

// Do executes the export step.
func (s *ExportStep) Do(ctx context.Context, job *Job) error {
	if !job.HasRegion {
		return ErrNoRegion
	}
	if !job.Composed {
		return ErrNotComposed
	}
	task, err := s.submitter.Submit(ctx, export.Job{
		Analysis: job.Analysis.Name,
		Year:     job.Year(),
		Image:    job.Image,
		Region:   job.Region,
		Params:   job.Analysis.AssetFor(job.Key),
	})
	if err != nil {
		return err
	}
	job.Task = task
	return nil
}

// StatsStep reduces the composed raster to its minimum and maximum over
// the region.
type StatsStep struct {
	computer ValueComputer
}

// NewStatsStep creates a stats step.
func NewStatsStep(computer ValueComputer) *StatsStep {
	return &StatsStep{computer: computer}
}

// Name returns the step name.
func (s *StatsStep) Name() string {
	return "stats"
}

// Do executes the stats step.
func (s *StatsStep) Do(ctx context.Context, job *Job) error {
	if !job.HasRegion {
		return ErrNoRegion
	}
	if !job.Composed {
		return ErrNotComposed
	}
	var result map[string]*float64
	if err := s.computer.ComputeValue(ctx, analysis.MinMax(job.Image, job.Region), &result); err != nil {
		return fmt.Errorf("stats %s: %w", job.Stem(), err)
	}
	band := job.Band()
	lo, hi, err := analysis.ParseMinMax(band, result)
	if err != nil {
		return fmt.Errorf("stats %s: %w", job.Stem(), err)
	}
	job.Stats = append(job.Stats, analysis.NewRegionStats(job.Analysis.Name, job.Year(), band, lo, hi))
	return nil
}
