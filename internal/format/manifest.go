package format

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/meigma/bundle/internal/binio"
	"github.com/meigma/bundle/internal/bundletype"
	"github.com/meigma/bundle/internal/sizing"
)

// maxPrealloc bounds the entry slice allocated up front, so a corrupt file
// count cannot force a large allocation before the stream runs out.
const maxPrealloc = 1024

// FileEntry locates one embedded file inside the bundle stream.
type FileEntry struct {
	// RelativePath is slash separated and relative to the extraction directory.
	RelativePath string
	Offset       int64
	Size         int64
}

// Manifest lists the embedded files in the order they were read.
type Manifest struct {
	Files []FileEntry
}

// ReadManifest reads exactly count entries from the current stream position.
func ReadManifest(r *binio.Reader, count int32) (*Manifest, error) {
	m := &Manifest{Files: make([]FileEntry, 0, min(int(count), maxPrealloc))}
	for i := range int(count) {
		entry, err := readEntry(r)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}
		m.Files = append(m.Files, entry)
	}
	return m, nil
}

func readEntry(r *binio.Reader) (FileEntry, error) {
	path, err := readString(r)
	if err != nil {
		return FileEntry{}, err
	}
	if !fs.ValidPath(path) || path == "." || strings.ContainsRune(path, '\\') {
		return FileEntry{}, fmt.Errorf("%w: invalid relative path %q", ErrFormatCorruption, path)
	}

	rawOffset, err := r.ReadUint64()
	if err != nil {
		return FileEntry{}, corrupt(err)
	}
	rawSize, err := r.ReadUint64()
	if err != nil {
		return FileEntry{}, corrupt(err)
	}

	offset, err := sizing.ToInt64(rawOffset, bundletype.ErrSizeOverflow)
	if err != nil {
		return FileEntry{}, fmt.Errorf("%w: %s: offset: %w", ErrFormatCorruption, path, err)
	}
	size, err := sizing.ToInt64(rawSize, bundletype.ErrSizeOverflow)
	if err != nil {
		return FileEntry{}, fmt.Errorf("%w: %s: size: %w", ErrFormatCorruption, path, err)
	}
	if _, ok := sizing.AddInt64(offset, size); !ok {
		return FileEntry{}, fmt.Errorf("%w: %s: end of entry: %w", ErrFormatCorruption, path, bundletype.ErrSizeOverflow)
	}
	return FileEntry{RelativePath: path, Offset: offset, Size: size}, nil
}
