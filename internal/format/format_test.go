package format_test

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/bundle/internal/binio"
	"github.com/meigma/bundle/internal/bundletype"
	"github.com/meigma/bundle/internal/format"
	"github.com/meigma/bundle/internal/testutil"
)

func read(t *testing.T, image []byte) (*format.Bundle, error) {
	t.Helper()
	return format.Read(binio.NewReader(bytes.NewReader(image)))
}

func TestReadBundle(t *testing.T) {
	t.Parallel()

	image, entries := testutil.BuildBundle(t, testutil.TestBundle{
		ID: "abc123",
		Entries: []testutil.TestEntry{
			{Path: "app.bin", Data: testutil.Pattern(256, 1)},
			{Path: "native/helper.so", Data: testutil.Pattern(128, 2)},
		},
	})

	b, err := read(t, image)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), b.Header.Major)
	assert.Equal(t, "abc123", b.Header.BundleID)
	assert.Equal(t, int32(2), b.Header.FileCount)
	assert.Equal(t, uint64(0), b.Header.Flags)
	assert.Equal(t, entries, b.Manifest.Files)

	assert.Equal(t, format.FileEntry{RelativePath: "app.bin", Offset: 64, Size: 256}, b.Manifest.Files[0])
	assert.Equal(t, format.FileEntry{RelativePath: "native/helper.so", Offset: 320, Size: 128}, b.Manifest.Files[1])
	assert.Equal(t, int64(448), b.HeaderOffset)
}

func TestReadBundleVersion2Flags(t *testing.T) {
	t.Parallel()

	image, _ := testutil.BuildBundle(t, testutil.TestBundle{
		ID:      "v2",
		Major:   2,
		Minor:   1,
		Flags:   0x5,
		Entries: []testutil.TestEntry{{Path: "a", Data: []byte("a")}},
	})

	b, err := read(t, image)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), b.Header.Major)
	assert.Equal(t, uint32(1), b.Header.Minor)
	assert.Equal(t, uint64(0x5), b.Header.Flags)
	require.Len(t, b.Manifest.Files, 1)
	assert.Equal(t, "a", b.Manifest.Files[0].RelativePath)
}

func TestReadBundleLongPath(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("d/", 100) + "file.txt"
	image, _ := testutil.BuildBundle(t, testutil.TestBundle{
		ID:      "long",
		Entries: []testutil.TestEntry{{Path: long, Data: []byte("x")}},
	})

	b, err := read(t, image)
	require.NoError(t, err)
	assert.Equal(t, long, b.Manifest.Files[0].RelativePath)
}

func TestReadBundleEmptyManifest(t *testing.T) {
	t.Parallel()

	image, _ := testutil.BuildBundle(t, testutil.TestBundle{ID: "empty"})
	b, err := read(t, image)
	require.NoError(t, err)
	assert.Empty(t, b.Manifest.Files)
}

// rawImage assembles prefix, header bytes and marker by hand.
func rawImage(header []byte) []byte {
	image := make([]byte, testutil.DefaultPrefixSize)
	offset := int64(len(image))
	image = append(image, header...)
	return testutil.AppendMarker(image, offset)
}

func TestReadBundleCorruption(t *testing.T) {
	t.Parallel()

	validHeader := func(count int32) []byte {
		return testutil.AppendHeader(nil, format.Header{Major: 1, BundleID: "id", FileCount: count})
	}

	tests := []struct {
		name  string
		image []byte
	}{
		{
			name:  "too small",
			image: []byte("tiny"),
		},
		{
			name:  "missing signature",
			image: make([]byte, 200),
		},
		{
			name: "header offset outside image",
			image: func() []byte {
				image := make([]byte, 10)
				return testutil.AppendMarker(image, 1000)
			}(),
		},
		{
			name:  "unsupported major",
			image: rawImage(testutil.AppendHeader(nil, format.Header{Major: 7, BundleID: "id"})),
		},
		{
			name:  "bundle id with separator",
			image: rawImage(testutil.AppendHeader(nil, format.Header{Major: 1, BundleID: "../id"})),
		},
		{
			name: "negative file count",
			image: rawImage(testutil.AppendHeader(nil, format.Header{Major: 1, BundleID: "id", FileCount: -1})),
		},
		{
			name:  "manifest shorter than file count",
			image: rawImage(validHeader(3)),
		},
		{
			name: "traversal path",
			image: rawImage(testutil.AppendEntry(validHeader(1),
				format.FileEntry{RelativePath: "../escape", Offset: 0, Size: 1})),
		},
		{
			name: "absolute path",
			image: rawImage(testutil.AppendEntry(validHeader(1),
				format.FileEntry{RelativePath: "/etc/passwd", Offset: 0, Size: 1})),
		},
		{
			name: "backslash path",
			image: rawImage(testutil.AppendEntry(validHeader(1),
				format.FileEntry{RelativePath: `a\b`, Offset: 0, Size: 1})),
		},
		{
			name: "nul in path",
			image: rawImage(testutil.AppendEntry(validHeader(1),
				format.FileEntry{RelativePath: "a\x00b", Offset: 0, Size: 1})),
		},
		{
			name: "negative size",
			image: rawImage(testutil.AppendEntry(validHeader(1),
				format.FileEntry{RelativePath: "a", Offset: 0, Size: -5})),
		},
		{
			name: "bad length encoding",
			image: rawImage(append(validHeader(1), 0x83, 0x85)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := read(t, tt.image)
			require.Error(t, err)
			assert.ErrorIs(t, err, bundletype.ErrFormatCorruption)
		})
	}
}

func TestReadMarker(t *testing.T) {
	t.Parallel()

	image := testutil.AppendMarker(make([]byte, 100), 42)
	r := binio.NewReader(bytes.NewReader(image))
	offset, err := format.ReadMarker(r, int64(len(image)))
	require.NoError(t, err)
	assert.Equal(t, int64(42), offset)
	assert.Equal(t, 24, format.MarkerSize)

	// Corrupting the last signature byte must be detected.
	image[len(image)-1] ^= 0xff
	_, err = format.ReadMarker(binio.NewReader(bytes.NewReader(image)), int64(len(image)))
	assert.ErrorIs(t, err, format.ErrFormatCorruption)
}

func TestReadManifestSizeOverflow(t *testing.T) {
	t.Parallel()

	raw := testutil.AppendString(nil, "big")
	raw = binary.LittleEndian.AppendUint64(raw, 0)
	raw = binary.LittleEndian.AppendUint64(raw, 1<<63)

	_, err := format.ReadManifest(binio.NewReader(bytes.NewReader(raw)), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, format.ErrFormatCorruption)
	assert.ErrorIs(t, err, bundletype.ErrSizeOverflow)
	assert.Contains(t, err.Error(), "manifest entry 0")
}

func TestReadManifestEntryEndOverflow(t *testing.T) {
	t.Parallel()

	raw := testutil.AppendString(nil, "wrap")
	raw = binary.LittleEndian.AppendUint64(raw, 1<<62)
	raw = binary.LittleEndian.AppendUint64(raw, 1<<62)

	_, err := format.ReadManifest(binio.NewReader(bytes.NewReader(raw)), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, format.ErrFormatCorruption)
	assert.ErrorIs(t, err, bundletype.ErrSizeOverflow)
}
