package bundle

import (
	"io"
	"log/slog"
	"time"

	"github.com/meigma/bundle/internal/commit"
)

// Option configures an Extractor.
type Option func(*Extractor)

// WithBaseDir sets the extraction base directory, taking precedence over
// the BUNDLE_EXTRACT_BASE_DIR environment variable.
func WithBaseDir(dir string) Option {
	return func(e *Extractor) {
		e.baseDir = dir
	}
}

// WithHostName overrides the host name used in extraction paths.
// By default it is the bundle file name without its ".exe" extension.
func WithHostName(name string) Option {
	return func(e *Extractor) {
		e.hostName = name
	}
}

// WithPID overrides the process id that names the staging directory.
func WithPID(pid int) Option {
	return func(e *Extractor) {
		e.pid = pid
	}
}

// WithLookupEnv replaces os.LookupEnv for reading BUNDLE_EXTRACT_BASE_DIR.
func WithLookupEnv(lookup func(key string) (string, bool)) Option {
	return func(e *Extractor) {
		e.lookupEnv = lookup
	}
}

// WithUserCacheDir replaces os.UserCacheDir for locating the default base directory.
func WithUserCacheDir(dir func() (string, error)) Option {
	return func(e *Extractor) {
		e.userCacheDir = dir
	}
}

// WithRenameRetry sets how many times a locked rename is attempted and the
// pause between attempts. Defaults are 500 attempts, 100ms apart.
func WithRenameRetry(maxAttempts int, delay time.Duration) Option {
	return func(e *Extractor) {
		e.commitOpts = append(e.commitOpts, commit.WithMaxAttempts(maxAttempts), commit.WithRetryDelay(delay))
	}
}

// WithLogger sets a logger for diagnostics.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// withCommitOptions passes options through to the committer.
func withCommitOptions(opts ...commit.Option) Option {
	return func(e *Extractor) {
		e.commitOpts = append(e.commitOpts, opts...)
	}
}

// withOpener replaces the function used to open the bundle.
func withOpener(open func(name string) (io.ReadSeekCloser, error)) Option {
	return func(e *Extractor) {
		e.open = open
	}
}
