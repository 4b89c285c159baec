package model

import "errors"

// Parsing and validation errors for model values.
var (
	ErrUnknownProduct        = errors.New("unknown product")
	ErrUnknownSource         = errors.New("unknown source")
	ErrUnknownMaskClass      = errors.New("unknown mask class")
	ErrUnknownLandCover      = errors.New("unknown land cover dataset")
	ErrUnknownBoundarySource = errors.New("unknown boundary source")
	ErrUnknownColor          = errors.New("unknown palette color")

	// ErrInvalidMonthDay is returned for window bounds that are not MM-DD dates.
	ErrInvalidMonthDay = errors.New("invalid month-day: expected MM-DD")

	// ErrInvalidWindow is returned when a date window ends before it starts.
	ErrInvalidWindow = errors.New("invalid date window: end before start")

	// ErrInvalidRange is returned when a visualization minimum is not below its maximum.
	ErrInvalidRange = errors.New("invalid visualization range: min must be below max")

	// ErrPaletteTooShort is returned for palettes with fewer than two colors.
	ErrPaletteTooShort = errors.New("palette needs at least two colors")

	// ErrInvalidScale is returned for negative or zero pixel scales where one is required.
	ErrInvalidScale = errors.New("invalid scale: must be positive")

	// ErrInvalidDimensions is returned for non-positive thumbnail sizes.
	ErrInvalidDimensions = errors.New("invalid thumbnail dimensions: must be positive")

	// ErrUnknownFormat is returned for thumbnail formats other than png and jpg.
	ErrUnknownFormat = errors.New("unknown thumbnail format")

	// ErrNoAssetID is returned by ExportParams.Validate when the destination is missing.
	ErrNoAssetID = errors.New("export asset id is required")

	// ErrInvalidMaxPixels is returned for non-positive export pixel budgets.
	ErrInvalidMaxPixels = errors.New("invalid maxPixels: must be positive")
)
