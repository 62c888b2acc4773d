package bundle

import (
	"context"
	"fmt"
	"os"

	"github.com/meigma/bundle/internal/fileops"
	"github.com/meigma/bundle/internal/pathutil"
)

// reuse accepts an existing extraction, restoring any manifest file that
// has gone missing from it. Files that are present are trusted as they are;
// their contents are not compared against the bundle.
func (s *session) reuse(ctx context.Context) (*Result, error) {
	res := s.result(ModeReused)
	for _, entry := range s.bundle.Manifest.Files {
		path, err := pathutil.Join(s.paths.ExtractionDir, entry.RelativePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		if present(path) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("recovery cancelled: %w", err)
		}

		s.logger.Info("file missing from existing extraction", "file", entry.RelativePath)
		if !s.staged {
			if err := s.stage(); err != nil {
				return nil, err
			}
		}
		if err := fileops.ExtractFile(s.src, s.paths.WorkingDir, entry); err != nil {
			return nil, err
		}
		if _, err := s.committer.File(s.paths.WorkingDir, s.paths.ExtractionDir, entry.RelativePath); err != nil {
			return nil, err
		}
		res.Recovered = append(res.Recovered, entry.RelativePath)
	}

	if s.staged {
		fileops.RemoveTree(s.logger, s.paths.WorkingDir)
		res.Mode = ModeRecovered
	}
	s.logger.Info("using existing extraction",
		"path", s.paths.ExtractionDir,
		"recovered", len(res.Recovered),
	)
	return res, nil
}

// present reports whether path exists, without following a final symlink.
func present(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
