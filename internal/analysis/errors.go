package analysis

import "errors"

var (
	// ErrYearCount is returned when Params.Years does not fit the product.
	ErrYearCount = errors.New("analysis: wrong number of years for product")

	// ErrNoRegion is returned when Params.Region has no name.
	ErrNoRegion = errors.New("analysis: region has no name")

	// ErrMissingBand is returned when a statistics result lacks the expected band.
	ErrMissingBand = errors.New("analysis: band missing from statistics result")
)

// ErrUnsupportedSource is returned when a source cannot produce the product.
var ErrUnsupportedSource = errors.New("analysis: source cannot produce product")
