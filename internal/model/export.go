package model

import (
	"strings"
	"time"
)

// DefaultMaxPixels is the pixel budget passed with exports when none is configured.
const DefaultMaxPixels = 1e13

// ExportParams describes an export-to-asset job.
type ExportParams struct {
	// AssetID is the full destination, e.g. "projects/p/assets/folder/name".
	AssetID     string  `yaml:"assetId,omitempty" json:"assetId"`
	Description string  `yaml:"description,omitempty" json:"description"`
	Scale       float64 `yaml:"scale,omitempty" json:"scale"`
	CRS         string  `yaml:"crs,omitempty" json:"crs"`
	MaxPixels   float64 `yaml:"maxPixels,omitempty" json:"maxPixels"`
}

// Validate checks the export parameters.
func (p ExportParams) Validate() error {
	if strings.TrimSpace(p.AssetID) == "" {
		return ErrNoAssetID
	}
	if p.Scale <= 0 {
		return ErrInvalidScale
	}
	if p.MaxPixels <= 0 {
		return ErrInvalidMaxPixels
	}
	return nil
}

// TaskState is the lifecycle state of a submitted export job as reported by the service.
type TaskState string

const (
	TaskPending   TaskState = "PENDING"
	TaskRunning   TaskState = "RUNNING"
	TaskSucceeded TaskState = "SUCCEEDED"
	TaskFailed    TaskState = "FAILED"
	TaskCancelled TaskState = "CANCELLED"
	TaskUnknown   TaskState = "UNKNOWN"
)

// ParseTaskState maps a service state string onto a TaskState.
func ParseTaskState(s string) TaskState {
	switch st := TaskState(strings.ToUpper(strings.TrimSpace(s))); st {
	case TaskPending, TaskRunning, TaskSucceeded, TaskFailed, TaskCancelled:
		return st
	case "CANCELLING":
		return TaskRunning
	default:
		return TaskUnknown
	}
}

// Done reports whether the state is terminal.
func (s TaskState) Done() bool {
	return s == TaskSucceeded || s == TaskFailed || s == TaskCancelled
}

// ExportTask is a submitted export job as recorded in the local ledger.
// Its State only changes when someone explicitly asks the service again.
type ExportTask struct {
	ID          int64
	Operation   string
	Description string
	AssetID     string
	Analysis    string
	Year        int
	State       TaskState
	Error       string
	SubmittedAt time.Time
	UpdatedAt   time.Time
}
