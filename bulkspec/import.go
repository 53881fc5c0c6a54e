// Package bulkspec imports whole folders of spectrometer output files into
// one spectral table. Files may sit on local disk or in Google Storage, may
// be compressed, and may mix vendor formats when layout detection is left
// on.
package bulkspec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/carbocation/pfx"
	"github.com/plumelab/chromisc"
	"github.com/plumelab/chromisc/rspec"
	"github.com/plumelab/chromisc/specparse"
)

// ErrNoFiles signals that the import found nothing to do.
var ErrNoFiles = fmt.Errorf("no spectral files found")

type Options struct {
	// Layout names a specparse layout, or "" / "auto" to detect per file.
	Layout string

	// Ext keeps only files with this extension (dot included, case
	// insensitive). Empty keeps everything.
	Ext string

	// DecimalComma forces comma-decimal parsing regardless of what the
	// layout declares.
	DecimalComma bool

	// Recursive descends into subdirectories.
	Recursive bool

	// Parallel is the worker count for concurrent file imports. Zero means
	// runtime.NumCPU().
	Parallel int

	// Interp resamples each file onto the whole-number nm grid, and Lim
	// restricts the wavelength range; both are needed when combining
	// instruments with different native grids.
	Interp bool
	Lim    [2]float64

	// Client enables gs:// paths.
	Client *storage.Client
}

// FileError records one file that failed to import without aborting the
// batch.
type FileError struct {
	Path string
	Err  error
}

func (f FileError) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Result is a completed batch import: the merged table (series ordered by
// sorted file path), per-file capture metadata in the same order, and the
// files that failed.
type Result struct {
	Spectra  *rspec.Spectra
	Meta     []specparse.Metadata
	Failures []FileError
}

// Import reads every matching file under root and merges the parsed spectra
// into one table. Per-file failures are collected in Result.Failures; Import
// only errors when nothing at all could be imported.
func Import(root string, opt Options) (*Result, error) {
	paths, err := listFiles(root, opt)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w under %s (extension %q)", ErrNoFiles, root, opt.Ext)
	}

	// Path-sorted so that the output is deterministic regardless of listing
	// order or worker interleaving.
	sort.Strings(paths)

	parsed := importAll(paths, opt)

	out := &Result{}
	for i, p := range parsed {
		if p.err != nil {
			out.Failures = append(out.Failures, FileError{Path: paths[i], Err: p.err})
			continue
		}

		tbl, err := fileSpectra(p.spectrum, opt)
		if err != nil {
			out.Failures = append(out.Failures, FileError{Path: paths[i], Err: err})
			continue
		}

		if out.Spectra == nil {
			out.Spectra = tbl
		} else {
			merged, err := out.Spectra.Merge(tbl)
			if err != nil {
				out.Failures = append(out.Failures, FileError{Path: paths[i], Err: fmt.Errorf("wavelength domain does not match the batch (consider -interp with -lim): %v", err)})
				continue
			}
			out.Spectra = merged
		}
		out.Meta = append(out.Meta, p.spectrum.Meta)
	}

	if out.Spectra == nil {
		return nil, fmt.Errorf("all %d files failed to import; first failure: %v", len(out.Failures), out.Failures[0])
	}

	return out, nil
}

type fileResult struct {
	spectrum *specparse.ParsedSpectrum
	err      error
}

type orderedFileResult struct {
	key int
	fileResult
}

// importAll parses every path with a bounded worker pool, returning results
// in input order.
func importAll(paths []string, opt Options) []fileResult {
	workers := opt.Parallel
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan orderedFileResult)
	semaphore := make(chan struct{}, workers)

	go func() {
		for k, path := range paths {
			semaphore <- struct{}{}

			go func(k int, path string) {
				defer func() { <-semaphore }()

				spectrum, err := importOne(path, opt)
				results <- orderedFileResult{key: k, fileResult: fileResult{spectrum: spectrum, err: err}}
			}(k, path)
		}
	}()

	out := make([]fileResult, len(paths))
	for range paths {
		res := <-results
		out[res.key] = res.fileResult
	}

	return out
}

func importOne(path string, opt Options) (*specparse.ParsedSpectrum, error) {
	f, _, err := chromisc.MaybeOpenFromGoogleStorage(path, opt.Client)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, pfx.Err(err)
	}

	layoutName := opt.Layout
	if layoutName == "auto" {
		layoutName = ""
	}

	// .ProcSpec files are zip containers in their own right; every other
	// compressed file is transparently decompressed before layout handling.
	if !isProcSpec(layoutName, path, data) {
		if data, _, err = chromisc.MaybeDecompressBytes(data); err != nil {
			return nil, pfx.Err(err)
		}
	}

	if opt.DecimalComma {
		return specparse.ParseForcingDecimal(layoutName, path, data, true)
	}

	return specparse.Parse(layoutName, path, data)
}

// ImportFile imports a single vendor file into a validated table, applying
// the same layout, decompression, and grid options as a batch import.
func ImportFile(path string, opt Options) (*rspec.Spectra, *specparse.ParsedSpectrum, error) {
	p, err := importOne(path, opt)
	if err != nil {
		return nil, nil, err
	}

	s, err := fileSpectra(p, opt)
	if err != nil {
		return nil, nil, err
	}

	return s, p, nil
}

func isProcSpec(layoutName, path string, data []byte) bool {
	if layoutName != "" {
		return layoutName == "procspec"
	}

	return specparse.DetectLayout(path, data) == "procspec"
}

// fileSpectra lifts one parsed file into a validated table, applying the
// batch's grid options.
func fileSpectra(p *specparse.ParsedSpectrum, opt Options) (*rspec.Spectra, error) {
	cols := make([][]float64, 0, 1+len(p.Series))
	cols = append(cols, p.Wavelengths)
	cols = append(cols, p.Series...)

	headers := append([]string{"wl"}, p.Names...)

	return rspec.AsSpectra(cols, headers, rspec.AsOptions{
		WLColumn:    0,
		Interpolate: opt.Interp,
		Lim:         opt.Lim,
	})
}

// listFiles enumerates candidate files under root, which may be a local
// directory or a gs:// prefix.
func listFiles(root string, opt Options) ([]string, error) {
	if strings.HasPrefix(root, "gs://") {
		return listGoogleStorageFiles(root, opt)
	}

	root = chromisc.ExpandHome(root)

	pattern := filepath.Join(root, "*")
	if opt.Recursive {
		pattern = filepath.Join(root, "**", "*")
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, pfx.Err(err)
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if info, err := os.Stat(m); err != nil || info.IsDir() {
			continue
		}
		if keepPath(m, opt.Ext) {
			out = append(out, m)
		}
	}

	return out, nil
}

func listGoogleStorageFiles(root string, opt Options) ([]string, error) {
	all, err := chromisc.ListGoogleStorage(root, opt.Client)
	if err != nil {
		return nil, err
	}

	prefix := strings.TrimSuffix(root, "/") + "/"

	out := make([]string, 0, len(all))
	for _, m := range all {
		// Without -recursive, objects in "subdirectories" of the prefix are
		// skipped.
		if !opt.Recursive && strings.Contains(strings.TrimPrefix(m, prefix), "/") {
			continue
		}
		if keepPath(m, opt.Ext) {
			out = append(out, m)
		}
	}

	return out, nil
}

func keepPath(path, ext string) bool {
	if ext == "" {
		return true
	}

	return strings.EqualFold(filepath.Ext(path), ext)
}
