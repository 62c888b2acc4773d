//go:build windows

package commit

import (
	"os"

	"golang.org/x/sys/windows"
)

var (
	errLocked  error = &os.LinkError{Op: "rename", Old: "a", New: "b", Err: windows.ERROR_SHARING_VIOLATION}
	errMissing error = &os.LinkError{Op: "rename", Old: "a", New: "b", Err: windows.ERROR_FILE_NOT_FOUND}
)
