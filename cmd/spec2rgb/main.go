// spec2rgb converts each reflectance series in a wide-format spectra CSV to
// its perceived sRGB colour under standard daylight, printing one hex code
// per series and optionally rendering a swatch sheet PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/rspec"
	"github.com/plumelab/chromisc/speccolor"
	"github.com/plumelab/chromisc/specplot"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var input, swatchOutput string

	flag.StringVar(&input, "input", "", "Wide-format spectra CSV. Defaults to STDIN.")
	flag.StringVar(&swatchOutput, "swatch", "", "(Optional) Path where a swatch sheet PNG will be written.")
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

	swatches, err := speccolor.SeriesColors(s)
	if err != nil {
		log.Fatalln(err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "spec\thex\tr\tg\tb")
	for _, sw := range swatches {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", sw.Series, sw.Hex, sw.Color.R, sw.Color.G, sw.Color.B)
	}
	if err := tw.Flush(); err != nil {
		log.Fatalln(err)
	}

	if swatchOutput != "" {
		f, err := os.Create(swatchOutput)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()

		if err := specplot.Swatches(s, f); err != nil {
			log.Fatalln(err)
		}
	}
}
