// specagg aggregates a wide-format spectra CSV by group: either a two-column
// group file assigning each series a label, or fixed-size runs of adjacent
// series. The group means are written as a CSV; with a group file, the
// per-wavelength standard deviations can be written alongside.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/plumelab/chromisc/aggspec"
	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/rspec"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var input, groupFile, output, sdOutput string
	var every int

	flag.StringVar(&input, "input", "", "Wide-format spectra CSV. Defaults to STDIN.")
	flag.StringVar(&groupFile, "groups", "", "Delimited file with spec and group columns assigning each series a group label.")
	flag.IntVar(&every, "every", 0, "Aggregate runs of this many adjacent series instead of using a group file.")
	flag.StringVar(&output, "output", "", "Path where the group-mean CSV will be written. Defaults to STDOUT.")
	flag.StringVar(&sdOutput, "sd", "", "(Optional) Path where the per-wavelength standard deviation CSV will be written.")
	flag.Parse()

	if (groupFile == "") == (every == 0) {
		log.Println("Exactly one of -groups or -every is required")
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

	var res *aggspec.Result
	if groupFile != "" {
		gf, err := os.Open(groupFile)
		if err != nil {
			log.Fatalln(err)
		}

		mapping, err := aggspec.ReadGroupFile(gf)
		gf.Close()
		if err != nil {
			log.Fatalln(err)
		}

		labels, err := aggspec.LabelsFor(s, mapping)
		if err != nil {
			log.Fatalln(err)
		}

		res, err = aggspec.ByLabels(s, labels, nil)
		if err != nil {
			log.Fatalln(err)
		}
	} else {
		res, err = aggspec.ByCount(s, every, nil)
		if err != nil {
			log.Fatalln(err)
		}
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

	if err := res.Summary.WriteCSV(out); err != nil {
		log.Fatalln(err)
	}

	if sdOutput != "" {
		if res.SD == nil {
			log.Fatalln("Standard deviations are only available when aggregating by the mean")
		}

		f, err := os.Create(sdOutput)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()

		if err := res.SD.WriteCSV(f); err != nil {
			log.Fatalln(err)
		}
	}
}
