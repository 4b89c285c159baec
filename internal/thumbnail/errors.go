package thumbnail

import (
	"errors"
	"fmt"
)

var (
	// ErrDownload is matched by every *DownloadError.
	ErrDownload = errors.New("thumbnail download failed")

	// ErrNotPNG is returned when the pixels endpoint answered with something other than a PNG.
	ErrNotPNG = errors.New("thumbnail is not a PNG image")

	// ErrNoName is returned when a request carries no file stem.
	ErrNoName = errors.New("thumbnail has no name")

	// ErrTooLarge is returned when a download exceeds the size cap.
	ErrTooLarge = errors.New("thumbnail exceeds size limit")
)

// DownloadError reports a non-2xx answer from the pixels URL.
type DownloadError struct {
	StatusCode int
	Status     string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download thumbnail: %s", e.Status)
}

// Is reports whether target is ErrDownload.
func (e *DownloadError) Is(target error) bool {
	return target == ErrDownload
}
