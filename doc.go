// Package bundle extracts the files embedded in a single-file application
// bundle onto disk so the host can load them from a stable location.
//
// A bundle is a host executable with a payload appended: the embedded file
// contents, then a header and manifest describing them, then a fixed-size
// marker pointing back at the header. See the internal format package for
// the exact layout.
//
// # Extraction
//
// Files are extracted to <base>/<host>/<bundle-id>, where base comes from
// [WithBaseDir], the BUNDLE_EXTRACT_BASE_DIR environment variable or the
// user cache directory, in that order:
//
//	res, err := bundle.Extract(ctx, os.Args[0], bundle.WithLogger(logger))
//	if err != nil {
//	    os.Exit(int(bundle.StatusOf(err)))
//	}
//	load(res.Paths.ExtractionDir)
//
// Many processes may extract the same bundle at once. Each one stages its
// copy in a directory named after its process id and publishes it with a
// single rename; the first rename wins and the others discard their copy.
// A completed extraction is reused on later runs, and any files deleted
// from it in the meantime are restored one at a time.
//
// # Inspection
//
// [Inspect] reads the header and manifest without writing anything:
//
//	info, err := bundle.Inspect(path)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(info.BundleID(), info.FileCount())
package bundle
