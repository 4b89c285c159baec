package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	ee "github.com/nao1215/terrareport/internal/earthengine"
	"github.com/nao1215/terrareport/internal/model"
)

// ErrNoOperation is returned when the service accepted a job without naming it.
var ErrNoOperation = errors.New("export accepted without an operation name")

// Service is the subset of the Earth Engine client used for exports.
type Service interface {
	ExportImage(ctx context.Context, req ee.ExportRequest) (*ee.Operation, error)
	GetOperation(ctx context.Context, name string) (*ee.Operation, error)
}

// Ledger records submitted jobs.
type Ledger interface {
	InsertTask(ctx context.Context, task *model.ExportTask) error
	UpdateTaskState(ctx context.Context, operation string, state model.TaskState, message string) error
}

// Job is one export to submit.
type Job struct {
	Analysis string
	Year     int
	Image    ee.Image
	Region   ee.Geometry
	Params   model.ExportParams
}

// Exporter submits jobs and keeps the ledger in step.
type Exporter struct {
	service Service
	ledger  Ledger
	logger  *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// NewExporter returns an Exporter. A nil ledger records nothing.
func NewExporter(service Service, ledger Ledger, opts ...Option) *Exporter {
	e := &Exporter{
		service: service,
		ledger:  ledger,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit validates and starts job. It returns the recorded task without
// waiting for the export to run.
func (e *Exporter) Submit(ctx context.Context, job Job) (*model.ExportTask, error) {
	if err := job.Params.Validate(); err != nil {
		return nil, fmt.Errorf("export %s: %w", job.Params.Description, err)
	}

	op, err := e.service.ExportImage(ctx, ee.ExportRequest{
		Image:  job.Image,
		Region: job.Region,
		Params: job.Params,
	})
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", job.Params.Description, err)
	}
	if op.Name == "" {
		return nil, fmt.Errorf("export %s: %w", job.Params.Description, ErrNoOperation)
	}

	task := &model.ExportTask{
		Operation:   op.Name,
		Description: job.Params.Description,
		AssetID:     job.Params.AssetID,
		Analysis:    job.Analysis,
		Year:        job.Year,
		State:       op.State(),
	}
	if task.State == model.TaskUnknown {
		task.State = model.TaskPending
	}
	if op.Error != nil {
		task.Error = op.Error.Message
	}

	e.logger.Info("export submitted", "operation", op.ID(), "asset", job.Params.AssetID, "state", task.State)
	if e.ledger == nil {
		return task, nil
	}
	if err := e.ledger.InsertTask(ctx, task); err != nil {
		return task, fmt.Errorf("record export %s: %w", op.Name, err)
	}
	return task, nil
}

// Refresh asks the service once for the state of operation and stores it.
func (e *Exporter) Refresh(ctx context.Context, operation string) (model.TaskState, error) {
	op, err := e.service.GetOperation(ctx, operation)
	if err != nil {
		return model.TaskUnknown, fmt.Errorf("refresh %s: %w", operation, err)
	}
	state := op.State()
	var message string
	if op.Error != nil {
		message = op.Error.Message
	}

	e.logger.Debug("export state", "operation", op.ID(), "state", state, "progress", op.Metadata.Progress)
	if e.ledger != nil {
		if err := e.ledger.UpdateTaskState(ctx, operation, state, message); err != nil {
			return state, err
		}
	}
	return state, nil
}
