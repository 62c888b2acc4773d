package bundle

import (
	"errors"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/meigma/bundle/internal/bundletype"
)

// Errors re-exported from bundletype.
var (
	// ErrFormatCorruption is returned when the bundle header or manifest is malformed.
	ErrFormatCorruption = bundletype.ErrFormatCorruption

	// ErrIO is returned when an I/O primitive fails.
	ErrIO = bundletype.ErrIO

	// ErrCommit is returned when extracted files cannot be published to the
	// extraction directory, including when a lock outlasts every retry.
	ErrCommit = bundletype.ErrCommit

	// ErrConfig is returned when no extraction base directory is available.
	ErrConfig = bundletype.ErrConfig
)

// Status is the outcome of an extraction as reported to the host.
type Status int

const (
	// StatusSuccess means the extraction directory is complete and usable.
	StatusSuccess Status = iota
	// StatusIOError means an I/O primitive failed.
	StatusIOError
	// StatusExtractionFailure means the bundle is malformed, no extraction
	// location is available, or the extracted files could not be committed.
	StatusExtractionFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusIOError:
		return "io-error"
	case StatusExtractionFailure:
		return "extraction-failure"
	default:
		return "unknown"
	}
}

// StatusOf maps an error returned by this package to its Status.
// A nil error is StatusSuccess.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	switch platformerrors.GetCode(err) {
	case platformerrors.CodeInvalidInput, platformerrors.CodeInvalidConfig, platformerrors.CodeConflict:
		return StatusExtractionFailure
	case platformerrors.CodeInternal:
		return StatusIOError
	}
	if code, _ := classify(err); code != platformerrors.CodeInternal {
		return StatusExtractionFailure
	}
	return StatusIOError
}

// classify picks the platform error code and diagnostic for an internal error.
func classify(err error) (platformerrors.ErrorCode, string) {
	switch {
	case errors.Is(err, ErrFormatCorruption):
		return platformerrors.CodeInvalidInput, "failure processing application bundle; possible file corruption"
	case errors.Is(err, ErrConfig):
		return platformerrors.CodeInvalidConfig, "failed to determine location for extracting embedded files"
	case errors.Is(err, ErrCommit):
		return platformerrors.CodeConflict, "failed to commit extracted files"
	default:
		return platformerrors.CodeInternal, "i/o failure extracting application bundle"
	}
}
