package report

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is.
var (
	// ErrNoInput is matched by every *NoInputError.
	ErrNoInput = errors.New("no input images")

	// ErrImageRead is matched by every *ImageReadError.
	ErrImageRead = errors.New("cannot read image")

	// ErrPageCount is returned when the rendered document does not hold one page per image.
	ErrPageCount = errors.New("rendered page count mismatch")
)

// NoInputError means no file in Dir matched Pattern. Nothing was written.
type NoInputError struct {
	Dir     string
	Pattern string
}

func (e *NoInputError) Error() string {
	return fmt.Sprintf("no images matching %q in %s", e.Pattern, e.Dir)
}

// Is reports whether target is ErrNoInput.
func (e *NoInputError) Is(target error) bool {
	return target == ErrNoInput
}

// ImageReadError names the file that aborted the run.
type ImageReadError struct {
	Path string
	Err  error
}

func (e *ImageReadError) Error() string {
	return fmt.Sprintf("read image %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ImageReadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrImageRead.
func (e *ImageReadError) Is(target error) bool {
	return target == ErrImageRead
}
