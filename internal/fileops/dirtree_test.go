package fileops

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/bundle/internal/bundletype"
)

func TestCreateTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "a", "b", "c")

	require.NoError(t, CreateTree(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Existing directories are a no-op.
	require.NoError(t, CreateTree(path))
	require.NoError(t, CreateTree(""))
}

func TestCreateTreeNotADirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	err := CreateTree(file)
	assert.ErrorIs(t, err, bundletype.ErrIO)

	err = CreateTree(filepath.Join(file, "child"))
	assert.ErrorIs(t, err, bundletype.ErrIO)
}

func TestCreateTreeConcurrent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "x", "y", "z")

	var g errgroup.Group
	for range 16 {
		g.Go(func() error { return CreateTree(path) })
	}
	require.NoError(t, g.Wait())
	assert.True(t, isDir(path))
}

// syncBuffer guards a bytes.Buffer shared with a slog handler.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRemoveTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	tree := filepath.Join(root, "staging")
	require.NoError(t, CreateTree(filepath.Join(tree, "lib", "deep")))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "app.bin"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "lib", "config.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "lib", "deep", "x"), []byte("x"), 0o600))

	var logs syncBuffer
	RemoveTree(slog.New(slog.NewTextHandler(&logs, nil)), tree)

	_, err := os.Stat(tree)
	assert.True(t, os.IsNotExist(err), "tree should be removed")
	assert.Empty(t, logs.String(), "no warnings expected")
}

func TestRemoveTreeMissingWarns(t *testing.T) {
	t.Parallel()

	var logs syncBuffer
	RemoveTree(slog.New(slog.NewTextHandler(&logs, nil)), filepath.Join(t.TempDir(), "missing"))

	out := logs.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "failed to remove temporary directory")
}

func TestRemoveTreeNilLogger(t *testing.T) {
	t.Parallel()

	tree := filepath.Join(t.TempDir(), "t")
	require.NoError(t, CreateTree(tree))
	RemoveTree(nil, tree)
	assert.False(t, isDir(tree))
}
