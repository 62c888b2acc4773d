package format

import (
	"fmt"
	"strings"

	"github.com/meigma/bundle/internal/binio"
)

// Supported major versions of the header layout.
const (
	MinMajorVersion = 1
	MaxMajorVersion = 2
)

// Header is the fixed-layout metadata at the start of a bundle.
type Header struct {
	Major     uint32
	Minor     uint32
	BundleID  string
	FileCount int32
	// Flags is only present in the layout from major version 2.
	Flags uint64
}

// ReadHeader reads a header from the current stream position.
func ReadHeader(r *binio.Reader) (*Header, error) {
	var h Header
	var err error

	if h.Major, err = r.ReadUint32(); err != nil {
		return nil, corrupt(err)
	}
	if h.Minor, err = r.ReadUint32(); err != nil {
		return nil, corrupt(err)
	}
	if h.Major < MinMajorVersion || h.Major > MaxMajorVersion {
		return nil, fmt.Errorf("%w: unsupported bundle version %d.%d", ErrFormatCorruption, h.Major, h.Minor)
	}
	if h.BundleID, err = readString(r); err != nil {
		return nil, fmt.Errorf("bundle id: %w", err)
	}
	if !validBundleID(h.BundleID) {
		return nil, fmt.Errorf("%w: invalid bundle id %q", ErrFormatCorruption, h.BundleID)
	}
	if h.FileCount, err = r.ReadInt32(); err != nil {
		return nil, corrupt(err)
	}
	if h.FileCount < 0 {
		return nil, fmt.Errorf("%w: negative file count %d", ErrFormatCorruption, h.FileCount)
	}
	if h.Major >= 2 {
		if h.Flags, err = r.ReadUint64(); err != nil {
			return nil, corrupt(err)
		}
	}
	return &h, nil
}

// validBundleID reports whether id can name a single directory.
func validBundleID(id string) bool {
	if id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\:`)
}
