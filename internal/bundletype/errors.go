// Package bundletype holds the sentinel errors shared by the bundle packages.
package bundletype

import "errors"

// Sentinel errors for bundle extraction.
var (
	// ErrFormatCorruption is returned when the header or manifest cannot be decoded.
	ErrFormatCorruption = errors.New("bundle: possible file corruption")

	// ErrIO is returned when an I/O primitive on the bundle or the extraction
	// directory fails.
	ErrIO = errors.New("bundle: i/o failure")

	// ErrCommit is returned when extracted files cannot be committed to the
	// extraction directory.
	ErrCommit = errors.New("bundle: commit failed")

	// ErrConfig is returned when no extraction base directory can be determined.
	ErrConfig = errors.New("bundle: extraction location unavailable")

	// ErrSizeOverflow is returned when a size or offset does not fit the platform types.
	ErrSizeOverflow = errors.New("bundle: size overflow")
)
