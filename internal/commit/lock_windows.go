//go:build windows

package commit

import (
	"errors"

	"golang.org/x/sys/windows"
)

// IsLockError reports whether a rename failure may be caused by another
// program holding the path open.
func IsLockError(err error) bool {
	return errors.Is(err, windows.ERROR_ACCESS_DENIED) ||
		errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
