//go:build !windows

package format

// MaxPathLength is the longest relative path accepted from a manifest (PATH_MAX).
const MaxPathLength = 4096
