//go:build windows

package format

// MaxPathLength is the longest relative path accepted from a manifest (MAX_PATH).
const MaxPathLength = 260
