// imgproc applies geometric preprocessing to an image: rotation, resizing,
// real-world scale calibration, and polygon outlining with optional masking
// of everything outside the outline.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/rimg"
	"github.com/plumelab/chromisc/speccolor"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var input, output, outline, bg string
	var rotate, resize, scaleMM float64
	var scalePx, smooth int
	var mask bool

	flag.StringVar(&input, "input", "", "Input image (PNG, JPEG, GIF, BMP, or TIFF). May be a Google Storage URL (gs://).")
	flag.StringVar(&output, "output", "", "Path where the processed PNG will be written.")
	flag.Float64Var(&rotate, "rotate", 0, "(Optional) Counterclockwise rotation in degrees.")
	flag.StringVar(&bg, "bg", "#FFFFFF", "(Optional) Hex colour for the background uncovered by rotation.")
	flag.Float64Var(&resize, "resize", 0, "(Optional) Scale factor, e.g. 0.5 to halve each dimension. 0 disables.")
	flag.Float64Var(&scaleMM, "scale-mm", 0, "(Optional) Known real-world length in mm of a reference stretch, used with -scale-px.")
	flag.IntVar(&scalePx, "scale-px", 0, "(Optional) Pixel length of the reference stretch, used with -scale-mm.")
	flag.StringVar(&outline, "outline", "", "(Optional) Focal-region polygon as x,y;x,y;... pixel coordinates.")
	flag.IntVar(&smooth, "smooth", 0, "(Optional) Corner-cutting smoothing iterations applied to the outline.")
	flag.BoolVar(&mask, "mask", false, "(Optional) Black out everything outside the outline.")
	flag.Parse()

	if input == "" || output == "" {
		flag.Usage()
		os.Exit(1)
	}

	im, err := rimg.Open(input, nil)
	if err != nil {
		log.Fatalln(err)
	}

	if rotate != 0 {
		bgColor, err := speccolor.ParseHex(bg)
		if err != nil {
			log.Fatalln(err)
		}

		if im, err = im.Rotate(rotate, bgColor); err != nil {
			log.Fatalln(err)
		}
	}

	if resize != 0 {
		if im, err = im.Resize(resize); err != nil {
			log.Fatalln(err)
		}
	}

	if scaleMM != 0 || scalePx != 0 {
		if im, err = im.SetScale(scaleMM, scalePx); err != nil {
			log.Fatalln(err)
		}
		log.Printf("Calibrated scale: %.4f mm per pixel\n", im.MMPerPixel)
	}

	if outline != "" {
		polygon, err := parsePolygon(outline)
		if err != nil {
			log.Fatalln(err)
		}

		if im, err = im.SetOutline(polygon, smooth); err != nil {
			log.Fatalln(err)
		}

		if mask {
			im = maskBackground(im)
		}
	}

	if err := im.WritePNG(output); err != nil {
		log.Fatalln(err)
	}
}

func parsePolygon(s string) ([]rimg.Point, error) {
	var polygon []rimg.Point
	for _, pair := range strings.Split(s, ";") {
		coords := strings.SplitN(pair, ",", 2)
		if len(coords) != 2 {
			return nil, fmt.Errorf("Expected outline vertices formatted as x,y but got %q", pair)
		}

		x, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, err
		}

		polygon = append(polygon, rimg.Point{X: x, Y: y})
	}

	return polygon, nil
}

// maskBackground zeroes every pixel outside the focal region.
func maskBackground(im *rimg.Image) *rimg.Image {
	out := im.Clone()
	focal := out.Mask()

	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			if focal[y][x] {
				continue
			}
			out.R[y][x] = 0
			out.G[y][x] = 0
			out.B[y][x] = 0
		}
	}

	return out
}
