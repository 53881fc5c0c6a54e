// spec2csv batch-imports vendor spectrometer output files from a folder and
// writes them as one wide-format CSV (and optionally a long-format CSV).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/bulkspec"
	"github.com/plumelab/chromisc/specparse"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	start := time.Now()
	log.Println("spec2csv start")
	defer func() {
		log.Printf("spec2csv end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	var path, output, longOutput, layout, ext, lim string
	var decimalComma, recursive, interp bool
	var parallel int

	flag.StringVar(&path, "path", "", "Folder containing spectrometer output files. May be a Google Storage URL (gs://).")
	flag.StringVar(&output, "output", "", "Path where the wide-format CSV will be written. Defaults to STDOUT.")
	flag.StringVar(&longOutput, "long", "", "(Optional) Path where an additional long-format (one row per wavelength per series) CSV will be written.")
	flag.StringVar(&layout, "layout", "auto", "Vendor file layout. One of: "+specparse.LayoutNames()+", or auto.")
	flag.StringVar(&ext, "ext", "", "(Optional) Only import files with this extension, e.g. .jaz")
	flag.StringVar(&lim, "lim", "", "(Optional) Wavelength range to keep, as lower,upper in nm. E.g., 300,700")
	flag.BoolVar(&decimalComma, "decimal-comma", false, "Force comma as the decimal separator, regardless of the layout's default.")
	flag.BoolVar(&recursive, "recursive", false, "Descend into subdirectories.")
	flag.BoolVar(&interp, "interp", false, "Interpolate each file onto the whole-number nm grid. Required when mixing instruments with different native grids.")
	flag.IntVar(&parallel, "parallel", 0, "Worker count for concurrent file imports. 0 uses all CPUs.")
	flag.Parse()

	if path == "" {
		flag.Usage()
		os.Exit(1)
	}

	opt := bulkspec.Options{
		Layout:       layout,
		Ext:          ext,
		DecimalComma: decimalComma,
		Recursive:    recursive,
		Parallel:     parallel,
		Interp:       interp,
	}

	if lim != "" {
		lo, hi, err := parseLim(lim)
		if err != nil {
			log.Fatalln(err)
		}
		opt.Lim = [2]float64{lo, hi}
	}

	if strings.HasPrefix(path, "gs://") {
		client, err := storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
		opt.Client = client
	}

	res, err := bulkspec.Import(path, opt)
	if err != nil {
		log.Fatalln(err)
	}

	for _, failure := range res.Failures {
		log.Println("Skipped:", failure.Error())
	}
	for _, warning := range res.Spectra.Warnings() {
		log.Println("Warning:", warning)
	}
	log.Printf("Imported %d series over %d wavelengths (%d files failed)\n",
		res.Spectra.NSpec(), res.Spectra.Len(), len(res.Failures))

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		out = f
	}

	if err := res.Spectra.WriteCSV(out); err != nil {
		log.Fatalln(err)
	}

	if longOutput != "" {
		f, err := os.Create(longOutput)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()

		if err := res.Spectra.WriteLongCSV(f); err != nil {
			log.Fatalln(err)
		}
	}
}

func parseLim(lim string) (float64, float64, error) {
	parts := strings.SplitN(lim, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("Expected -lim formatted as lower,upper but got %q", lim)
	}

	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}

	return lo, hi, nil
}
