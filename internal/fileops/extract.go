// Package fileops writes bundle entries to disk and manages the directory
// trees they are written into.
package fileops

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/meigma/bundle/internal/binio"
	"github.com/meigma/bundle/internal/bundletype"
	"github.com/meigma/bundle/internal/format"
	"github.com/meigma/bundle/internal/pathutil"
	"github.com/meigma/bundle/internal/sizing"
)

// ChunkSize is the size of the buffer used to copy entries out of the bundle.
const ChunkSize = 8 << 10

// filePerm is the mode of extracted files before umask.
const filePerm = 0o600

// ErrSymlink is returned when an output path is a symlink.
var ErrSymlink = errors.New("refusing to write through symlink")

// ExtractFile copies entry out of src into root/entry.RelativePath, creating
// intermediate directories as needed. The output file is always closed.
func ExtractFile(src *binio.Reader, root string, entry format.FileEntry) (err error) {
	path, err := pathutil.Join(root, entry.RelativePath)
	if err != nil {
		return fmt.Errorf("%w: %w", bundletype.ErrIO, err)
	}
	if pathutil.HasDir(entry.RelativePath) {
		if err := CreateTree(filepath.Dir(path)); err != nil {
			return err
		}
	}

	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("%w: open %s for writing: %w", bundletype.ErrIO, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", bundletype.ErrIO, path, cerr)
		}
	}()

	if err := src.Seek(entry.Offset); err != nil {
		return fmt.Errorf("extract %s: %w", entry.RelativePath, err)
	}

	buf := make([]byte, ChunkSize)
	for remaining := entry.Size; remaining > 0; {
		n := sizing.Chunk(remaining, len(buf))
		if err := src.ReadFull(buf[:n]); err != nil {
			return fmt.Errorf("extract %s: %w", entry.RelativePath, err)
		}
		if err := binio.Write(f, buf[:n]); err != nil {
			return fmt.Errorf("extract %s: %w", entry.RelativePath, err)
		}
		remaining -= int64(n)
	}
	return nil
}
