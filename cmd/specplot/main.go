// specplot renders a wide-format spectra CSV as a PNG: overlaid curves,
// stacked curves, group means with standard-deviation bands, a heatmap, or
// perceived-colour swatches.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/plumelab/chromisc/aggspec"
	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/rspec"
	"github.com/plumelab/chromisc/specplot"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var input, output, kind, groupFile string

	flag.StringVar(&input, "input", "", "Wide-format spectra CSV. Defaults to STDIN.")
	flag.StringVar(&output, "output", "", "Path where the PNG will be written.")
	flag.StringVar(&kind, "kind", "overlay", "Plot kind: overlay, stack, agg, heat, or swatch.")
	flag.StringVar(&groupFile, "groups", "", "Delimited file with spec and group columns. Required for -kind agg.")
	flag.Parse()

	if output == "" {
		flag.Usage()
		os.Exit(1)
	}

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

	f, err := os.Create(output)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	if err := render(s, kind, groupFile, f); err != nil {
		log.Fatalln(err)
	}
}

func render(s *rspec.Spectra, kind, groupFile string, w io.Writer) error {
	switch kind {
	case "overlay":
		return specplot.Overlay(s, w)
	case "stack":
		return specplot.Stacked(s, w)
	case "agg":
		if groupFile == "" {
			return fmt.Errorf("-kind agg requires -groups")
		}

		gf, err := os.Open(groupFile)
		if err != nil {
			return err
		}

		mapping, err := aggspec.ReadGroupFile(gf)
		gf.Close()
		if err != nil {
			return err
		}

		labels, err := aggspec.LabelsFor(s, mapping)
		if err != nil {
			return err
		}

		res, err := aggspec.ByLabels(s, labels, nil)
		if err != nil {
			return err
		}

		return specplot.Aggregate(res.Summary, res.SD, w)
	case "heat":
		return specplot.Heatmap(s, w)
	case "swatch":
		return specplot.Swatches(s, w)
	}

	return fmt.Errorf("Unknown plot kind %q", kind)
}
