// Package pathutil provides path manipulation for slash-separated bundle paths.
package pathutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// executableExt is stripped from host names regardless of the platform the
// bundle is extracted on.
const executableExt = ".exe"

// HostName returns the file name of the host executable without its
// executable extension. "/opt/bin/myapp.exe" and "myapp" both yield "myapp".
func HostName(executablePath string) string {
	name := filepath.Base(executablePath)
	if len(name) > len(executableExt) && strings.EqualFold(filepath.Ext(name), executableExt) {
		name = name[:len(name)-len(executableExt)]
	}
	return name
}

// HasDir reports whether a slash-separated relative path names a file
// inside a subdirectory.
func HasDir(rel string) bool {
	return strings.Contains(rel, "/")
}

// ErrRedirected is returned by Join when a symlink below root would move rel
// away from root/rel.
var ErrRedirected = errors.New("path redirected by symlink")

// Join returns root/rel. Symlinks below root are resolved, and if any of
// them moves the result away from its lexical location Join fails rather
// than hand back a path the bundle would not find at rel.
func Join(root, rel string) (string, error) {
	path, err := securejoin.SecureJoin(root, filepath.FromSlash(rel))
	if err != nil {
		return "", fmt.Errorf("join %s under %s: %w", rel, root, err)
	}
	if want := filepath.Join(root, filepath.FromSlash(rel)); path != want {
		return "", fmt.Errorf("%w: %s resolves to %s", ErrRedirected, want, path)
	}
	return path, nil
}

// PIDDir returns the staging directory name for a process id: the id in
// lowercase hexadecimal.
func PIDDir(pid int) string {
	return strconv.FormatInt(int64(pid), 16)
}
