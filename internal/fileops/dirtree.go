package fileops

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meigma/bundle/internal/bundletype"
)

// dirPerm is owner-only: extraction directories hold code that will be loaded.
const dirPerm = 0o700

// CreateTree creates path and any missing parents. A directory that already
// exists, or that another process creates while we race to create it, is
// success.
func CreateTree(path string) error {
	if path == "" {
		return nil
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%w: %s exists and is not a directory", bundletype.ErrIO, path)
	}

	if parent := filepath.Dir(path); parent != path {
		if err := CreateTree(parent); err != nil {
			return err
		}
	}

	if err := os.Mkdir(path, dirPerm); err != nil {
		if isDir(path) {
			return nil
		}
		return fmt.Errorf("%w: create directory %s: %w", bundletype.ErrIO, path, err)
	}
	return nil
}

// RemoveTree removes path and everything below it: subdirectories first,
// then files, then path itself. Failures are logged as warnings and never
// returned; a leftover directory only wastes space.
func RemoveTree(logger *slog.Logger, path string) {
	if path == "" {
		return
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		logger.Warn("failed to list temporary directory", "path", path, "error", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			RemoveTree(logger, filepath.Join(path, e.Name()))
		}
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		file := filepath.Join(path, e.Name())
		if err := os.Remove(file); err != nil {
			logger.Warn("failed to remove temporary file", "path", file, "error", err)
		}
	}

	if err := os.Remove(path); err != nil {
		logger.Warn("failed to remove temporary directory", "path", path, "error", err)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
