// specsummary computes colourimetric summary variables for every series in a
// wide-format spectra CSV and writes them as a TSV table, plus an ASCII
// histogram of one chosen variable across the series.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aybabtme/uniplot/histogram"

	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/rspec"
	"github.com/plumelab/chromisc/specsum"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var input, output, histVar string

	flag.StringVar(&input, "input", "", "Wide-format spectra CSV. Defaults to STDIN.")
	flag.StringVar(&output, "output", "", "Path where the summary TSV will be written. Defaults to STDOUT.")
	flag.StringVar(&histVar, "hist", "h1", "Summary variable to histogram across series: b1, b2, b3, s8, h1, r50, or median. Empty disables.")
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

	summaries, err := specsum.Summarize(s)
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

	if err := specsum.WriteTSV(out, summaries); err != nil {
		log.Fatalln(err)
	}

	if histVar == "" {
		return
	}

	vals := make([]float64, 0, len(summaries))
	for _, sum := range summaries {
		v, err := summaryValue(sum, histVar)
		if err != nil {
			log.Fatalln(err)
		}
		vals = append(vals, v)
	}

	fmt.Fprintf(os.Stderr, "\nDistribution of %s across %d series:\n", histVar, len(vals))
	hist := histogram.Hist(25, vals)
	if err := histogram.Fprint(os.Stderr, hist, histogram.Linear(5)); err != nil {
		log.Fatalln(err)
	}
}

func summaryValue(s specsum.Summary, name string) (float64, error) {
	switch name {
	case "b1":
		return s.B1, nil
	case "b2":
		return s.B2, nil
	case "b3":
		return s.B3, nil
	case "s8":
		return s.S8, nil
	case "h1":
		return s.H1, nil
	case "r50":
		return s.R50, nil
	case "median":
		return s.Median, nil
	}

	return 0, fmt.Errorf("Unknown summary variable %q", name)
}
