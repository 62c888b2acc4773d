// Package format decodes the bundle layout appended to a host executable.
//
// The final MarkerSize bytes of the image hold the offset of the header
// followed by Signature. The header is followed immediately by the manifest:
//
//	header:   uint32 major | uint32 minor | string bundle id | int32 file count | [uint64 flags, major >= 2]
//	manifest: file count x (string relative path | int64 offset | int64 size)
//
// Strings are prefixed with the one or two byte length decoded by
// ReadPathLength. All integers are little-endian.
package format

import (
	"errors"
	"fmt"

	"github.com/meigma/bundle/internal/binio"
	"github.com/meigma/bundle/internal/bundletype"
)

// ErrFormatCorruption is re-exported from bundletype.
var ErrFormatCorruption = bundletype.ErrFormatCorruption

// Bundle is the decoded header and manifest of a bundle image.
type Bundle struct {
	HeaderOffset int64
	Header       Header
	Manifest     Manifest
}

// Read decodes the marker, header and manifest from r.
func Read(r *binio.Reader) (*Bundle, error) {
	size, err := r.Size()
	if err != nil {
		return nil, err
	}
	offset, err := ReadMarker(r, size)
	if err != nil {
		return nil, err
	}
	if err := r.Seek(offset); err != nil {
		return nil, err
	}
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	manifest, err := ReadManifest(r, header.FileCount)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		HeaderOffset: offset,
		Header:       *header,
		Manifest:     *manifest,
	}, nil
}

// corrupt classifies a stream that ended early while parsing as corruption.
// Other read failures keep their I/O classification.
func corrupt(err error) error {
	if errors.Is(err, binio.ErrShortRead) {
		return fmt.Errorf("%w: %w", ErrFormatCorruption, err)
	}
	return err
}
