// Package testutil builds synthetic bundle images for tests.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/meigma/bundle/internal/format"
)

// DefaultPrefixSize is the size of the fake host image placed before the
// embedded file data when TestBundle.Prefix is nil.
const DefaultPrefixSize = 64

// TestEntry is one embedded file of a synthetic bundle.
type TestEntry struct {
	Path string
	Data []byte
}

// TestBundle describes a synthetic bundle image.
type TestBundle struct {
	ID      string
	Major   uint32 // defaults to 1
	Minor   uint32
	Flags   uint64
	Prefix  []byte // host image bytes; DefaultPrefixSize zero bytes when nil
	Entries []TestEntry
}

// BuildBundle lays out prefix, file data, header, manifest and marker, and
// returns the image with the manifest entries it encodes.
func BuildBundle(tb testing.TB, b TestBundle) ([]byte, []format.FileEntry) {
	tb.Helper()

	major := b.Major
	if major == 0 {
		major = 1
	}
	prefix := b.Prefix
	if prefix == nil {
		prefix = make([]byte, DefaultPrefixSize)
	}

	image := append([]byte(nil), prefix...)
	entries := make([]format.FileEntry, 0, len(b.Entries))
	for _, e := range b.Entries {
		entries = append(entries, format.FileEntry{
			RelativePath: e.Path,
			Offset:       int64(len(image)),
			Size:         int64(len(e.Data)),
		})
		image = append(image, e.Data...)
	}

	headerOffset := int64(len(image))
	image = AppendHeader(image, format.Header{
		Major:     major,
		Minor:     b.Minor,
		BundleID:  b.ID,
		FileCount: int32(len(entries)), //nolint:gosec // test bundles are small
		Flags:     b.Flags,
	})
	for _, e := range entries {
		image = AppendEntry(image, e)
	}
	image = AppendMarker(image, headerOffset)
	return image, entries
}

// WriteBundle builds a bundle and writes it to dir/name.
func WriteBundle(tb testing.TB, dir, name string, b TestBundle) (string, []format.FileEntry) {
	tb.Helper()

	image, entries := BuildBundle(tb, b)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, image, 0o600); err != nil {
		tb.Fatalf("write bundle: %v", err)
	}
	return path, entries
}

// AppendPathLength appends the one or two byte length prefix for n.
func AppendPathLength(dst []byte, n int) []byte {
	if n < 0x80 {
		return append(dst, byte(n))
	}
	return append(dst, byte(n&0x7f)|0x80, byte(n>>7))
}

// AppendString appends a length-prefixed string.
func AppendString(dst []byte, s string) []byte {
	dst = AppendPathLength(dst, len(s))
	return append(dst, s...)
}

// AppendHeader appends an encoded header. Flags are written for major
// versions 2 and later.
func AppendHeader(dst []byte, h format.Header) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, h.Major)
	dst = binary.LittleEndian.AppendUint32(dst, h.Minor)
	dst = AppendString(dst, h.BundleID)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h.FileCount)) //nolint:gosec // wire format
	if h.Major >= 2 {
		dst = binary.LittleEndian.AppendUint64(dst, h.Flags)
	}
	return dst
}

// AppendEntry appends an encoded manifest entry.
func AppendEntry(dst []byte, e format.FileEntry) []byte {
	dst = AppendString(dst, e.RelativePath)
	dst = binary.LittleEndian.AppendUint64(dst, uint64(e.Offset)) //nolint:gosec // wire format
	dst = binary.LittleEndian.AppendUint64(dst, uint64(e.Size))   //nolint:gosec // wire format
	return dst
}

// AppendMarker appends the trailing marker pointing at headerOffset.
func AppendMarker(dst []byte, headerOffset int64) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, uint64(headerOffset)) //nolint:gosec // wire format
	return append(dst, format.Signature[:]...)
}

// Pattern returns n bytes of deterministic, position-dependent content.
func Pattern(n int, seed byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*31) ^ seed
	}
	return data
}
