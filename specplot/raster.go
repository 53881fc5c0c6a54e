package specplot

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
	"github.com/plumelab/chromisc/rimg"
	"github.com/plumelab/chromisc/rspec"
	"github.com/plumelab/chromisc/speccolor"
)

const (
	heatCellW  = 4
	heatRowH   = 24
	swatchW    = 96
	swatchH    = 64
	labelInset = 4
)

// Heatmap draws wavelength along X and one row per series, reflectance
// mapped onto a cold-to-hot colour ramp normalized over the whole table.
func Heatmap(s *rspec.Spectra, w io.Writer) error {
	wl := s.Wavelengths()

	min, max := s.SeriesAt(0)[0], s.SeriesAt(0)[0]
	for i := 0; i < s.NSpec(); i++ {
		for _, v := range s.SeriesAt(i) {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	ctx := gg.NewContext(len(wl)*heatCellW, s.NSpec()*heatRowH)
	for i := 0; i < s.NSpec(); i++ {
		vals := s.SeriesAt(i)
		for j := range wl {
			r, g, b := rampColor((vals[j] - min) / span)
			ctx.SetRGB(r, g, b)
			ctx.DrawRectangle(float64(j*heatCellW), float64(i*heatRowH), heatCellW, heatRowH)
			ctx.Fill()
		}
	}

	// Series labels over the rows.
	ctx.SetRGB(1, 1, 1)
	for i, name := range s.Names() {
		ctx.DrawString(name, labelInset, float64(i*heatRowH)+heatRowH-labelInset-2)
	}

	return ctx.EncodePNG(w)
}

// rampColor maps t in [0,1] onto a blue-to-red ramp through white.
func rampColor(t float64) (r, g, b float64) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	if t < 0.5 {
		u := t * 2
		return u, u, 1
	}

	u := (t - 0.5) * 2

	return 1, 1 - u, 1 - u
}

// Swatches draws one perceptual-colour tile per series, labeled with the
// series name and hex value.
func Swatches(s *rspec.Spectra, w io.Writer) error {
	swatches, err := speccolor.SeriesColors(s)
	if err != nil {
		return err
	}

	ctx := gg.NewContext(swatchW*len(swatches), swatchH)
	for i, sw := range swatches {
		x := float64(i * swatchW)

		ctx.SetRGB255(int(sw.Color.R), int(sw.Color.G), int(sw.Color.B))
		ctx.DrawRectangle(x, 0, swatchW, swatchH)
		ctx.Fill()

		// Legible label regardless of tile lightness.
		if luminance(sw) > 0.5 {
			ctx.SetRGB(0, 0, 0)
		} else {
			ctx.SetRGB(1, 1, 1)
		}
		ctx.DrawString(sw.Series, x+labelInset, 14)
		ctx.DrawString(sw.Hex, x+labelInset, swatchH-labelInset)
	}

	return ctx.EncodePNG(w)
}

func luminance(sw speccolor.Swatch) float64 {
	return (0.299*float64(sw.Color.R) + 0.587*float64(sw.Color.G) + 0.114*float64(sw.Color.B)) / 255
}

// Outline draws an image's focal-region outline over the image itself, for
// checking an annotation before masking with it.
func Outline(im *rimg.Image, w io.Writer) error {
	if len(im.Outline) == 0 {
		return fmt.Errorf("specplot: the image carries no outline")
	}

	ctx := gg.NewContextForImage(im.ToImage())

	ctx.SetRGB(1, 0, 0)
	ctx.SetLineWidth(2)
	for _, p := range im.Outline {
		ctx.LineTo(p.X, p.Y)
	}
	ctx.ClosePath()
	ctx.Stroke()

	return ctx.EncodePNG(w)
}
