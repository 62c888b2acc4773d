// bundle-extract extracts the files embedded in a single-file bundle and
// prints the directory they were extracted to.
//
// With --inspect it prints the bundle header and manifest instead, without
// writing anything to disk.
//
// The exit status follows the extraction status: 0 on success, 1 for an
// I/O error and 2 for an extraction failure (corruption, no usable base
// directory, or a commit that never went through).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/meigma/bundle"
)

const (
	exitIOError           = 1
	exitExtractionFailure = 2
)

// exitError carries the process exit status for a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode returns the process exit status.
func (e *exitError) ExitCode() int {
	return e.code
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(exitIOError)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		inspect bool
		baseDir string
		verbose bool
	)

	flagSet := pflag.NewFlagSet("bundle-extract", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&inspect, "inspect", false, "print the bundle header and manifest without extracting")
	flagSet.StringVar(&baseDir, "base-dir", "", "extraction base directory (overrides "+bundle.EnvBaseDir+")")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log extraction progress to stderr")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: bundle-extract [flags] <bundle>\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &exitError{code: exitExtractionFailure, err: err}
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return &exitError{code: exitExtractionFailure, err: errors.New("expected exactly one bundle path")}
	}
	bundlePath := flagSet.Arg(0)

	if inspect {
		info, err := bundle.Inspect(bundlePath)
		if err != nil {
			return withStatus(err)
		}
		return printInspect(stdout, info)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := []bundle.Option{bundle.WithLogger(logger)}
	if baseDir != "" {
		opts = append(opts, bundle.WithBaseDir(baseDir))
	}
	res, err := bundle.Extract(ctx, bundlePath, opts...)
	if err != nil {
		return withStatus(err)
	}
	fmt.Fprintln(stdout, res.Paths.ExtractionDir)
	return nil
}

// withStatus attaches the exit code matching the extraction status of err.
func withStatus(err error) error {
	switch bundle.StatusOf(err) {
	case bundle.StatusExtractionFailure:
		return &exitError{code: exitExtractionFailure, err: err}
	default:
		return &exitError{code: exitIOError, err: err}
	}
}

func printInspect(w io.Writer, info *bundle.InspectResult) error {
	h := info.Header()
	fmt.Fprintf(w, "Bundle ID:   %s\n", h.BundleID)
	fmt.Fprintf(w, "Version:     %d.%d\n", h.Major, h.Minor)
	if h.Major >= 2 {
		fmt.Fprintf(w, "Flags:       %#x\n", h.Flags)
	}
	fmt.Fprintf(w, "Bundle size: %s\n", humanize.IBytes(uint64(info.BundleSize()))) //nolint:gosec // file sizes are non-negative
	fmt.Fprintf(w, "Files:       %d (%s)\n\n", info.FileCount(), humanize.IBytes(info.TotalSize()))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tSIZE\tPATH")
	for _, f := range info.Files() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.Offset, humanize.IBytes(uint64(f.Size)), f.RelativePath) //nolint:gosec // sizes are validated non-negative
	}
	return tw.Flush()
}
