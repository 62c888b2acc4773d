//go:build !linux

package commit

import "os"

// platformRename is os.Rename. A directory cannot replace a non-empty
// directory on any supported platform; a file rename onto an existing file
// replaces it atomically, which is harmless because both are extractions of
// the same bundle.
func platformRename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}
