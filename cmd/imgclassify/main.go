// imgclassify reduces an image to k colour classes by median-cut
// quantization, writes the class-coded image as a PNG, and reports pattern
// statistics (class frequencies, connected patches, adjacency transitions)
// as a TSV table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/rimg"
	"github.com/plumelab/chromisc/speccolor"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	start := time.Now()
	log.Println("imgclassify start")
	defer func() {
		log.Printf("imgclassify end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	var input, output, statsOutput string
	var k int

	flag.StringVar(&input, "input", "", "Input image (PNG, JPEG, GIF, BMP, or TIFF). May be a Google Storage URL (gs://).")
	flag.StringVar(&output, "output", "", "(Optional) Path where the class-coded PNG will be written.")
	flag.StringVar(&statsOutput, "stats", "", "(Optional) Path where the pattern statistics TSV will be written. Defaults to STDOUT.")
	flag.IntVar(&k, "k", 2, "Number of colour classes.")
	flag.Parse()

	if input == "" {
		flag.Usage()
		os.Exit(1)
	}

	im, err := rimg.Open(input, nil)
	if err != nil {
		log.Fatalln(err)
	}

	classified, err := im.Classify(k)
	if err != nil {
		log.Fatalln(err)
	}

	if output != "" {
		if err := classified.ClassImage().WritePNG(output); err != nil {
			log.Fatalln(err)
		}
	}

	out := os.Stdout
	if statsOutput != "" {
		f, err := os.Create(statsOutput)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		out = f
	}

	tw := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "class\tcolor\tfrequency\tpatches\tlargest_patch_px\trow_transitions\tcol_transitions")
	for _, cs := range classified.Stats() {
		largest := 0
		if len(cs.PatchAreas) > 0 {
			largest = cs.PatchAreas[0]
		}

		fmt.Fprintf(tw, "%d\t%s\t%.6f\t%d\t%d\t%d\t%d\n",
			cs.Class,
			speccolor.HexString(classified.Palette[cs.Class]),
			cs.Frequency,
			cs.Patches,
			largest,
			cs.RowTransitions,
			cs.ColTransitions,
		)
	}
	if err := tw.Flush(); err != nil {
		log.Fatalln(err)
	}
}
