//go:build linux

package commit

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// platformRename refuses to replace an existing destination, so a rename
// onto a path a peer already produced fails deterministically with EEXIST.
// Filesystems without RENAME_NOREPLACE fall back to rename(2).
func platformRename(oldpath, newpath string) error {
	err := unix.Renameat2(unix.AT_FDCWD, oldpath, unix.AT_FDCWD, newpath, unix.RENAME_NOREPLACE)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOSYS) {
		return os.Rename(oldpath, newpath)
	}
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
}
