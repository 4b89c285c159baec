package earthengine

import (
	"errors"
	"fmt"
)

// Client errors.
var (
	// ErrNoProject is returned when a client is created without a cloud project.
	ErrNoProject = errors.New("earthengine: no cloud project configured")

	// ErrEmptyExpression is returned when an expression has no root value.
	ErrEmptyExpression = errors.New("earthengine: empty expression")

	// ErrNoCredentials is returned when no usable credentials were found.
	ErrNoCredentials = errors.New("earthengine: no credentials found")

	// ErrInvalidBounds is returned when a bounds computation does not yield a polygon.
	ErrInvalidBounds = errors.New("earthengine: bounds result is not a polygon")
)

// APIError is a non-2xx response from the REST API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the canonical error status, e.g. INVALID_ARGUMENT.
	Status string
	// Message is the server-provided description.
	Message string
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("earthengine: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("earthengine: %d: %s", e.StatusCode, e.Message)
}

// errorEnvelope is the JSON shape of an API error body.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
