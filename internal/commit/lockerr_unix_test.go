//go:build unix

package commit

import (
	"os"

	"golang.org/x/sys/unix"
)

var (
	errLocked  error = &os.LinkError{Op: "rename", Old: "a", New: "b", Err: unix.EACCES}
	errMissing error = &os.LinkError{Op: "rename", Old: "a", New: "b", Err: unix.ENOENT}
)
