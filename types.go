package bundle

import "github.com/meigma/bundle/internal/format"

// FileEntry locates one embedded file inside the bundle.
type FileEntry = format.FileEntry

// Header is the bundle metadata read before the manifest.
type Header = format.Header

// Paths are the directories used by one extraction run.
type Paths struct {
	// ExtractionDir is <base>/<host>/<bundle-id>, shared by every process
	// running this bundle.
	ExtractionDir string
	// WorkingDir is <base>/<host>/<pid-hex>, private to this process.
	WorkingDir string
}

// Mode records which path an extraction took.
type Mode int

const (
	// ModeFresh means this process extracted and committed the whole bundle.
	ModeFresh Mode = iota + 1
	// ModeConcurrent means another process committed first and our staged
	// copy was discarded.
	ModeConcurrent
	// ModeReused means a complete extraction already existed.
	ModeReused
	// ModeRecovered means an existing extraction was missing files that were
	// restored individually.
	ModeRecovered
)

func (m Mode) String() string {
	switch m {
	case ModeFresh:
		return "fresh"
	case ModeConcurrent:
		return "concurrent"
	case ModeReused:
		return "reused"
	case ModeRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// Result describes a successful extraction.
type Result struct {
	BundleID string
	Paths    Paths
	Mode     Mode
	// Recovered lists the relative paths restored into an existing extraction.
	Recovered []string
}
