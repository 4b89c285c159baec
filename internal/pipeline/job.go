package pipeline

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/nao1215/terrareport/internal/analysis"
	"github.com/nao1215/terrareport/internal/config"
	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/model"
)

// Job carries one analysis output through a pipeline. Steps fill in the
// fields after Params in order.
type Job struct {
	Analysis *config.Analysis

	// Key is the year, or "<first>_<last>" for ndvi-change.
	Key    string
	Params analysis.Params

	Region    ee.Geometry
	HasRegion bool
	Bounds    orb.Bound
	Image     ee.Image
	Composed  bool

	ThumbnailPath string
	Task          *model.ExportTask
	Stats         []model.RegionStats

	PerformedSteps []string
	Err            error
}

// NewJobs returns one job per output key of a, in key order.
func NewJobs(a *config.Analysis) ([]*Job, error) {
	keys := a.Keys()
	jobs := make([]*Job, 0, len(keys))
	for _, key := range keys {
		job, err := NewJob(a, key)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// NewJob returns the job producing key of a.
func NewJob(a *config.Analysis, key string) (*Job, error) {
	years := a.Years
	if a.Product != model.ProductNDVIChange {
		y, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("analysis %s: invalid year %q: %w", a.Name, key, err)
		}
		years = []int{y}
	}
	return &Job{
		Analysis: a,
		Key:      key,
		Params: analysis.Params{
			Region:    a.Region,
			Product:   a.Product,
			Source:    a.Source,
			Mask:      a.Mask,
			LandCover: a.LandCover,
			Years:     years,
			Window:    a.Window,
		},
	}, nil
}

// Stem is the output file stem and export description.
func (j *Job) Stem() string {
	return j.Analysis.Stem(j.Key)
}

// Year is the year recorded for the job's outputs. Change jobs record
// their last year.
func (j *Job) Year() int {
	if len(j.Params.Years) == 0 {
		return 0
	}
	return j.Params.Years[len(j.Params.Years)-1]
}

// Band is the name of the band Image holds.
func (j *Job) Band() string {
	return analysis.BandName(j.Params)
}

// Caption renders the analysis caption template for this job.
func (j *Job) Caption() string {
	return analysis.Caption(j.Analysis.Caption, j.Params, j.Key)
}
