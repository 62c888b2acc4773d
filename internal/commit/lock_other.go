//go:build !unix && !windows

package commit

import (
	"errors"
	"io/fs"
)

// IsLockError reports whether a rename failure may be caused by another
// program holding the path open.
func IsLockError(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
