//go:build unix

package fileops

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// createFile opens path for writing, truncating it. A symlink in the final
// component is refused rather than followed.
func createFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|syscall.O_NOFOLLOW, filePerm) //nolint:gosec // path is confined to root
	if err != nil {
		if errors.Is(err, syscall.ELOOP) {
			return nil, fmt.Errorf("%w: %s", ErrSymlink, path)
		}
		return nil, err
	}
	return f, nil
}
