//go:build !unix

package fileops

import (
	"fmt"
	"io/fs"
	"os"
)

// createFile opens path for writing, truncating it. A symlink in the final
// component is refused rather than followed.
func createFile(path string) (*os.File, error) {
	if info, err := os.Lstat(path); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymlink, path)
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //nolint:gosec // path is confined to root
}
