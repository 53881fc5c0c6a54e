// specproc applies the standard reflectance processing pipeline (negative
// repair, low-pass filtering, smoothing, normalization, binning) to a
// wide-format spectra CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/procspec"
	"github.com/plumelab/chromisc/rspec"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var input, output string
	var opt procspec.Options

	flag.StringVar(&input, "input", "", "Wide-format spectra CSV. Defaults to STDIN.")
	flag.StringVar(&output, "output", "", "Path where the processed CSV will be written. Defaults to STDOUT.")
	flag.StringVar(&opt.FixNeg, "fixneg", "", "(Optional) Negative-value repair: addmin (shift series up by |min|) or zero (clamp to zero).")
	flag.Float64Var(&opt.LowPassCutoff, "lowpass", 0, "(Optional) First-order Butterworth low-pass cutoff, in cycles per sample. 0 disables.")
	flag.Float64Var(&opt.Span, "span", 0, "(Optional) Smoothing span as a fraction of the series length, e.g. 0.2. 0 disables.")
	flag.StringVar(&opt.Norm, "norm", "", "(Optional) Normalization: min (subtract minimum), max (divide by maximum), or both (rescale to [0,1]).")
	flag.IntVar(&opt.Bins, "bins", 0, "(Optional) Average into this many equal-width wavelength bins. 0 disables.")
	flag.Parse()

	in := os.Stdin
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		in = f
	}

	s, err := rspec.ReadCSV(in, rspec.ReadCSVOptions{})
	if err != nil {
		log.Fatalln(err)
	}

	processed, err := procspec.Process(s, opt)
	if err != nil {
		log.Fatalln(err)
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		out = f
	}

	if err := processed.WriteCSV(out); err != nil {
		log.Fatalln(err)
	}
}
