//go:build unix

package commit

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsLockError reports whether a rename failure may be caused by another
// program holding the path open.
func IsLockError(err error) bool {
	return errors.Is(err, unix.EACCES) || errors.Is(err, unix.EBUSY)
}
