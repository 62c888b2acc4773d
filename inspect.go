package bundle

import (
	"fmt"
	"os"
	"sync"

	"github.com/meigma/bundle/internal/binio"
	"github.com/meigma/bundle/internal/format"
)

// InspectResult describes a bundle without extracting it.
type InspectResult struct {
	bundle *format.Bundle
	size   int64

	statsOnce sync.Once
	totalSize uint64
}

// Header returns the bundle header.
func (r *InspectResult) Header() Header {
	return r.bundle.Header
}

// BundleID returns the bundle identifier that names the extraction directory.
func (r *InspectResult) BundleID() string {
	return r.bundle.Header.BundleID
}

// Files returns the manifest entries in bundle order.
func (r *InspectResult) Files() []FileEntry {
	return r.bundle.Manifest.Files
}

// FileCount returns the number of embedded files.
func (r *InspectResult) FileCount() int {
	return len(r.bundle.Manifest.Files)
}

// HeaderOffset returns the absolute offset of the header in the bundle.
func (r *InspectResult) HeaderOffset() int64 {
	return r.bundle.HeaderOffset
}

// BundleSize returns the size of the bundle file in bytes.
func (r *InspectResult) BundleSize() int64 {
	return r.size
}

// TotalSize returns the sum of all embedded file sizes.
func (r *InspectResult) TotalSize() uint64 {
	r.statsOnce.Do(func() {
		r.totalSize = manifestSize(r.bundle.Manifest)
	})
	return r.totalSize
}

// Inspect reads the header and manifest of the bundle at bundlePath.
// Nothing is written to disk. Errors carry a Status like those of Extract.
func Inspect(bundlePath string) (*InspectResult, error) {
	f, err := os.Open(bundlePath) //nolint:gosec // the bundle path is chosen by the caller
	if err != nil {
		return nil, wrapError(fmt.Errorf("%w: open bundle: %w", ErrIO, err), bundlePath, "")
	}
	defer f.Close() //nolint:errcheck // read-only

	src := binio.NewReader(f)
	b, err := format.Read(src)
	if err != nil {
		return nil, wrapError(err, bundlePath, "")
	}
	size, err := src.Size()
	if err != nil {
		return nil, wrapError(err, bundlePath, "")
	}
	return &InspectResult{bundle: b, size: size}, nil
}
