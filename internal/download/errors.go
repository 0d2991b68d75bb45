package download

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure returned by the service wraps one of these.
var (
	// ErrInput means the request was rejected before it started
	ErrInput = errors.New("invalid input")

	// ErrExtraction means the engine could not resolve the URL
	ErrExtraction = errors.New("extraction failed")

	// ErrFormatUnavailable means no rendition matched the request
	ErrFormatUnavailable = errors.New("no suitable format found")

	// ErrTransfer means the engine failed while downloading or post-processing
	ErrTransfer = errors.New("transfer failed")

	// ErrFileNotFound means the engine reported success but no file was found
	ErrFileNotFound = errors.New("downloaded file not found")
)

func wrap(kind error, err error) error {
	return fmt.Errorf("%w: %v", kind, err)
}
