// imgacuity renders an image as it would appear to a viewer with a given
// visual acuity at a given distance, by low-pass filtering each colour
// channel in the frequency domain.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/plumelab/chromisc/acuity"
	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/rimg"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	start := time.Now()
	log.Println("imgacuity start")
	defer func() {
		log.Printf("imgacuity end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	var input, output string
	var opt acuity.Options

	flag.StringVar(&input, "input", "", "Input image (PNG, JPEG, GIF, BMP, or TIFF). May be a Google Storage URL (gs://).")
	flag.StringVar(&output, "output", "", "Path where the filtered PNG will be written.")
	flag.Float64Var(&opt.DistanceMM, "distance", 0, "Viewing distance in mm.")
	flag.Float64Var(&opt.WidthMM, "width", 0, "Real-world width of the imaged scene in mm.")
	flag.Float64Var(&opt.ResolutionDeg, "resolution", 0, "Viewer's minimum resolvable angle in degrees.")
	flag.Parse()

	if input == "" || output == "" {
		flag.Usage()
		os.Exit(1)
	}

	im, err := rimg.Open(input, nil)
	if err != nil {
		log.Fatalln(err)
	}

	filtered, err := acuity.Filter(im, opt)
	if err != nil {
		log.Fatalln(err)
	}

	if err := filtered.WritePNG(output); err != nil {
		log.Fatalln(err)
	}
}
