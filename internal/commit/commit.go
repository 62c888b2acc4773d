// Package commit publishes staged extractions by renaming them onto their
// final location.
//
// Rename is the only synchronization between processes extracting the same
// bundle. At most one rename onto a missing destination succeeds; everyone
// else observes the destination already present and treats that as success.
// A failed rename whose destination is still missing is retried only when
// the failure looks like a transient lock held by another program (typically
// an on-access scanner inspecting freshly written executables).
package commit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/meigma/bundle/internal/bundletype"
	"github.com/meigma/bundle/internal/fileops"
	"github.com/meigma/bundle/internal/pathutil"
)

const (
	// MaxAttempts bounds the number of rename attempts.
	MaxAttempts = 500

	// RetryDelay is the pause between attempts that failed on a lock.
	RetryDelay = 100 * time.Millisecond
)

// Outcome is the result of a rename attempt sequence.
type Outcome int

const (
	// Failed means the destination was not produced.
	Failed Outcome = iota
	// Committed means our rename produced the destination.
	Committed
	// AlreadyExists means the destination was produced by someone else.
	AlreadyExists
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case AlreadyExists:
		return "already-exists"
	default:
		return "failed"
	}
}

// Committer renames staged paths onto their final location with retries.
type Committer struct {
	rename      func(oldpath, newpath string) error
	exists      func(path string) bool
	sleep       func(time.Duration)
	maxAttempts int
	delay       time.Duration
	logger      *slog.Logger
}

// Option configures a Committer.
type Option func(*Committer)

// WithRenamer replaces the rename primitive.
func WithRenamer(rename func(oldpath, newpath string) error) Option {
	return func(c *Committer) {
		c.rename = rename
	}
}

// WithExists replaces the destination existence probe.
func WithExists(exists func(path string) bool) Option {
	return func(c *Committer) {
		c.exists = exists
	}
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Committer) {
		c.sleep = sleep
	}
}

// WithMaxAttempts sets the attempt bound. Values < 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *Committer) {
		if n >= 1 {
			c.maxAttempts = n
		}
	}
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Committer) {
		c.delay = d
	}
}

// WithLogger sets the logger. If nil, a discard logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Committer) {
		c.logger = logger
	}
}

// New creates a Committer using the platform rename primitive.
func New(opts ...Option) *Committer {
	c := &Committer{
		rename:      platformRename,
		exists:      exists,
		sleep:       time.Sleep,
		maxAttempts: MaxAttempts,
		delay:       RetryDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Committer) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Rename moves oldpath to newpath. The destination is checked after every
// failed attempt because a concurrent process may have produced it; in that
// case Rename stops and reports AlreadyExists. Lock errors are retried up to
// the attempt bound, anything else fails at once.
func (c *Committer) Rename(oldpath, newpath string) (Outcome, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := c.rename(oldpath, newpath)
		if err == nil {
			return Committed, nil
		}
		lastErr = err

		if c.exists(newpath) {
			return AlreadyExists, nil
		}
		if !IsLockError(err) {
			return Failed, err
		}

		c.log().Info("retrying rename",
			"from", oldpath,
			"to", newpath,
			"attempt", attempt,
			"error", err,
		)
		if attempt < c.maxAttempts {
			c.sleep(c.delay)
		}
	}
	return Failed, fmt.Errorf("rename still locked after %d attempts: %w", c.maxAttempts, lastErr)
}

// Dir commits a whole staging directory onto finalDir. When another process
// got there first, the staging directory is discarded and the result is
// still success.
func (c *Committer) Dir(workingDir, finalDir string) (Outcome, error) {
	outcome, err := c.Rename(workingDir, finalDir)
	switch outcome {
	case Committed:
		c.log().Info("completed new extraction", "path", finalDir)
	case AlreadyExists:
		c.log().Info("extraction completed by another process, discarding staged copy",
			"path", finalDir,
			"staging", workingDir,
		)
		fileops.RemoveTree(c.log(), workingDir)
	default:
		return Failed, fmt.Errorf("%w: %s: %w", bundletype.ErrCommit, finalDir, err)
	}
	return outcome, nil
}

// File commits one staged file, rel, from workingDir into finalDir,
// creating the destination's parent directories first.
func (c *Committer) File(workingDir, finalDir, rel string) (Outcome, error) {
	src, err := pathutil.Join(workingDir, rel)
	if err != nil {
		return Failed, fmt.Errorf("%w: %w", bundletype.ErrIO, err)
	}
	dst, err := pathutil.Join(finalDir, rel)
	if err != nil {
		return Failed, fmt.Errorf("%w: %w", bundletype.ErrIO, err)
	}
	if pathutil.HasDir(rel) {
		if err := fileops.CreateTree(filepath.Dir(dst)); err != nil {
			return Failed, err
		}
	}

	outcome, err := c.Rename(src, dst)
	switch outcome {
	case Committed:
		c.log().Info("extraction recovered", "file", rel)
	case AlreadyExists:
		c.log().Info("file restored by another process", "file", rel)
	default:
		return Failed, fmt.Errorf("%w: %s: %w", bundletype.ErrCommit, dst, err)
	}
	return outcome, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
