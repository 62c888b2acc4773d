package bundle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	platformerrors "github.com/jmgilman/go/errors"

	"github.com/meigma/bundle/internal/binio"
	"github.com/meigma/bundle/internal/commit"
	"github.com/meigma/bundle/internal/fileops"
	"github.com/meigma/bundle/internal/format"
)

// Extractor extracts the files embedded in one bundle.
type Extractor struct {
	bundlePath   string
	baseDir      string
	hostName     string
	pid          int
	lookupEnv    func(string) (string, bool)
	userCacheDir func() (string, error)
	open         func(string) (io.ReadSeekCloser, error)
	logger       *slog.Logger
	commitOpts   []commit.Option
}

// New creates an Extractor for the bundle at bundlePath.
func New(bundlePath string, opts ...Option) *Extractor {
	e := &Extractor{
		bundlePath:   bundlePath,
		pid:          os.Getpid(),
		lookupEnv:    os.LookupEnv,
		userCacheDir: os.UserCacheDir,
		open:         openFile,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Extract is shorthand for New(bundlePath, opts...).Extract(ctx).
func Extract(ctx context.Context, bundlePath string, opts ...Option) (*Result, error) {
	return New(bundlePath, opts...).Extract(ctx)
}

// log returns the logger, falling back to a discard logger if nil.
func (e *Extractor) log() *slog.Logger {
	if e.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.logger
}

// Extract makes the bundle's files available under the extraction
// directory and reports where they are.
//
// If the extraction directory already exists it is reused, and any file
// missing from it is extracted and committed individually. Otherwise every
// file is extracted into a private staging directory which is then renamed
// onto the extraction directory in one step. Losing that rename to another
// process is success.
//
// Errors carry a Status retrievable with StatusOf. A failed run leaves any
// staging directory in place; running again is the recovery mechanism.
//
// Calls in one process that would share a staging directory run one at a
// time; a call waiting its turn gives up when ctx is done.
func (e *Extractor) Extract(ctx context.Context) (*Result, error) {
	base, err := e.resolveBaseDir()
	if err != nil {
		return nil, e.fail(err, "")
	}

	release, err := stagingLocks.acquire(ctx, e.paths(base, "").WorkingDir)
	if err != nil {
		return nil, e.fail(fmt.Errorf("waiting for staging directory: %w", err), "")
	}
	defer release()

	return e.extract(ctx, base)
}

// session is the state of one extraction run.
type session struct {
	src       *binio.Reader
	bundle    *format.Bundle
	paths     Paths
	committer *commit.Committer
	logger    *slog.Logger
	staged    bool
}

func (e *Extractor) extract(ctx context.Context, base string) (*Result, error) {
	f, err := e.open(e.bundlePath)
	if err != nil {
		return nil, e.fail(fmt.Errorf("%w: couldn't open host binary for reading contents: %w", ErrIO, err), "")
	}
	defer f.Close() //nolint:errcheck // read-only

	src := binio.NewReader(f)
	b, err := format.Read(src)
	if err != nil {
		return nil, e.fail(err, "")
	}

	s := &session{
		src:       src,
		bundle:    b,
		paths:     e.paths(base, b.Header.BundleID),
		committer: commit.New(append([]commit.Option{commit.WithLogger(e.log())}, e.commitOpts...)...),
		logger:    e.log(),
	}
	e.log().Info("files embedded within the bundle will be extracted",
		"path", s.paths.ExtractionDir,
		"files", len(b.Manifest.Files),
		"size", humanize.IBytes(manifestSize(b.Manifest)),
	)

	var res *Result
	reuse, err := existingExtraction(s.paths.ExtractionDir)
	if err == nil {
		if reuse {
			res, err = s.reuse(ctx)
		} else {
			res, err = s.fresh(ctx)
		}
	}
	if err != nil {
		return nil, e.fail(err, s.paths.ExtractionDir)
	}
	return res, nil
}

// fresh stages every file in the working directory and commits it whole.
func (s *session) fresh(ctx context.Context) (*Result, error) {
	if err := s.stage(); err != nil {
		return nil, err
	}
	for _, entry := range s.bundle.Manifest.Files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction cancelled: %w", err)
		}
		if err := fileops.ExtractFile(s.src, s.paths.WorkingDir, entry); err != nil {
			return nil, err
		}
	}

	outcome, err := s.committer.Dir(s.paths.WorkingDir, s.paths.ExtractionDir)
	if err != nil {
		return nil, err
	}
	mode := ModeFresh
	if outcome == commit.AlreadyExists {
		mode = ModeConcurrent
	}
	return s.result(mode), nil
}

// stage creates an empty working directory. A directory already at that
// path was left by a crashed process that had our pid; nothing else can own
// it, so it is cleared first.
func (s *session) stage() error {
	if _, err := os.Lstat(s.paths.WorkingDir); err == nil {
		s.logger.Info("removing stale temporary directory", "path", s.paths.WorkingDir)
		fileops.RemoveTree(s.logger, s.paths.WorkingDir)
	}
	if err := fileops.CreateTree(s.paths.WorkingDir); err != nil {
		return err
	}
	s.staged = true
	s.logger.Info("temporary directory used to extract bundled files", "path", s.paths.WorkingDir)
	return nil
}

func (s *session) result(mode Mode) *Result {
	return &Result{
		BundleID: s.bundle.Header.BundleID,
		Paths:    s.paths,
		Mode:     mode,
	}
}

// fail classifies err, reports it at error level and returns the
// structured error handed to the caller.
func (e *Extractor) fail(err error, extractionDir string) error {
	wrapped := wrapError(err, e.bundlePath, extractionDir)
	code, msg := classify(err)
	e.log().Error(msg,
		"bundle", e.bundlePath,
		"extraction_dir", extractionDir,
		"status", StatusOf(wrapped).String(),
		"code", string(code),
		"error", err,
	)
	return wrapped
}

// wrapError attaches the platform error code and context to err.
func wrapError(err error, bundlePath, extractionDir string) error {
	code, msg := classify(err)
	ctx := map[string]interface{}{"bundle": bundlePath}
	if extractionDir != "" {
		ctx["extraction_dir"] = extractionDir
	}
	return platformerrors.WrapWithContext(err, code, msg, ctx)
}

// existingExtraction reports whether dir holds a previous extraction.
func existingExtraction(dir string) (bool, error) {
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return true, nil
	case err == nil:
		return false, fmt.Errorf("%w: extraction path %s exists and is not a directory", ErrIO, dir)
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("%w: stat %s: %w", ErrIO, dir, err)
	}
}

func manifestSize(m format.Manifest) uint64 {
	var total uint64
	for _, f := range m.Files {
		total += uint64(f.Size) //nolint:gosec // sizes are validated non-negative
	}
	return total
}

func openFile(name string) (io.ReadSeekCloser, error) {
	return os.Open(name) //nolint:gosec // the bundle path is chosen by the host
}
