package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meigma/bundle/internal/pathutil"
)

// EnvBaseDir names the environment variable selecting the extraction base directory.
const EnvBaseDir = "BUNDLE_EXTRACT_BASE_DIR"

// defaultBaseName is the directory created under the user cache directory
// when EnvBaseDir is unset.
const defaultBaseName = "bundle-extract"

// resolveBaseDir returns the extraction base directory: the WithBaseDir
// option, then EnvBaseDir, then a read-write directory under the user cache
// directory.
func (e *Extractor) resolveBaseDir() (string, error) {
	if e.baseDir != "" {
		return e.baseDir, nil
	}
	if dir, ok := e.lookupEnv(EnvBaseDir); ok && dir != "" {
		return dir, nil
	}

	cache, err := e.userCacheDir()
	if err != nil {
		return "", fmt.Errorf("%w: %s is not set and no cache directory is known: %w", ErrConfig, EnvBaseDir, err)
	}
	dir := filepath.Join(cache, defaultBaseName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("%w: %s is not set and a read-write cache directory couldn't be created: %w", ErrConfig, EnvBaseDir, err)
	}
	return dir, nil
}

// paths computes the shared extraction directory and this process's staging
// directory for bundleID.
func (e *Extractor) paths(base, bundleID string) Paths {
	appDir := filepath.Join(base, e.host())
	return Paths{
		ExtractionDir: filepath.Join(appDir, bundleID),
		WorkingDir:    filepath.Join(appDir, pathutil.PIDDir(e.pid)),
	}
}

func (e *Extractor) host() string {
	if e.hostName != "" {
		return e.hostName
	}
	return pathutil.HostName(e.bundlePath)
}
