package config

import "errors"

// Configuration errors.
var (
	// ErrNoProject is returned when a remote command runs without a project.
	ErrNoProject = errors.New("no cloud project: set project in .terrareport.yaml, --project, or TERRAREPORT_PROJECT")

	// ErrInvalidTimeout is returned when the timeout is zero or negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is zero or negative.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnknownAnalysis is returned when a named analysis is not defined.
	ErrUnknownAnalysis = errors.New("analysis not defined in configuration")

	// ErrNoRegion is returned when an analysis has no region name.
	ErrNoRegion = errors.New("analysis has no region")

	// ErrNoYears is returned when an analysis lists no years.
	ErrNoYears = errors.New("analysis has no years")

	// ErrChangeNeedsTwoYears is returned when an ndvi-change analysis has fewer than two years.
	ErrChangeNeedsTwoYears = errors.New("ndvi-change needs at least two years")

	// ErrSourceMismatch is returned when a source cannot produce the product.
	ErrSourceMismatch = errors.New("source cannot produce product")

	// ErrNoContainer is returned when publishing has no target container.
	ErrNoContainer = errors.New("publish: no container configured")

	// ErrNoStorageAccount is returned when publishing has neither a connection string nor an account URL.
	ErrNoStorageAccount = errors.New("publish: no connection string or account URL configured")
)
