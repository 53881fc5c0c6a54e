// Package speccolor approximates the perceptual colour of a reflectance
// spectrum for a human observer: CIE 1931 2-degree colour matching functions
// under the D65 illuminant, converted to gamma-encoded sRGB.
package speccolor

import (
	"fmt"
	"image/color"
	"math"

	"github.com/BenLubar/memoize"
	"github.com/icza/gox/imagex/colorx"
	"github.com/plumelab/chromisc/rspec"
)

// Swatch is one series' perceptual colour.
type Swatch struct {
	Series string
	Color  color.NRGBA
	Hex    string
}

// observerAt interpolates the 5 nm CMF and D65 tables at a whole-number
// wavelength: xbar, ybar, zbar, illuminant. Out-of-table wavelengths are
// zero. Memoized: the same few hundred wavelengths are looked up for every
// series.
var memoizedObserverAt = memoize.Memoize(observerAt)

func observerAt(wl int) [4]float64 {
	if wl < cieLoWL || wl > cieHiWL {
		return [4]float64{}
	}

	lo := (wl - cieLoWL) / cieStepWL
	frac := float64((wl-cieLoWL)%cieStepWL) / cieStepWL
	if frac == 0 {
		return [4]float64{cie1931[lo][0], cie1931[lo][1], cie1931[lo][2], d65[lo]}
	}

	out := [4]float64{}
	for i := 0; i < 3; i++ {
		out[i] = cie1931[lo][i] + frac*(cie1931[lo+1][i]-cie1931[lo][i])
	}
	out[3] = d65[lo] + frac*(d65[lo+1]-d65[lo])

	return out
}

// SeriesColors computes the perceptual colour of every series in table
// order. Reflectance is expected in [0,1]; a series whose maximum exceeds
// 1.5 is treated as percent and divided by 100.
func SeriesColors(s *rspec.Spectra) ([]Swatch, error) {
	wl := s.Wavelengths()

	overlap := 0
	for _, w := range wl {
		if w >= cieLoWL && w <= cieHiWL {
			overlap++
		}
	}
	if overlap == 0 {
		return nil, fmt.Errorf("speccolor: the table's wavelengths (%g-%g nm) do not overlap the visible range (%d-%d nm)", wl[0], wl[len(wl)-1], cieLoWL, cieHiWL)
	}

	observer := memoizedObserverAt.(func(int) [4]float64)

	out := make([]Swatch, 0, s.NSpec())
	for i, name := range s.Names() {
		series := s.SeriesAt(i)

		scale := 1.0
		for _, v := range series {
			if v > 1.5 {
				scale = 1.0 / 100.0
				break
			}
		}

		var x, y, z, norm float64
		for j, w := range wl {
			obs := observer(int(math.Round(w)))
			if obs[3] == 0 {
				continue
			}

			refl := series[j] * scale
			if refl < 0 {
				refl = 0
			}

			x += refl * obs[3] * obs[0]
			y += refl * obs[3] * obs[1]
			z += refl * obs[3] * obs[2]
			norm += obs[3] * obs[1]
		}

		x /= norm
		y /= norm
		z /= norm

		c := xyzToSRGB(x, y, z)
		out = append(out, Swatch{
			Series: name,
			Color:  c,
			Hex:    HexString(c),
		})
	}

	return out, nil
}

// xyzToSRGB converts CIE XYZ (D65 white, Y of a perfect reflector = 1) to
// gamma-encoded sRGB, clipping out-of-gamut channels.
func xyzToSRGB(x, y, z float64) color.NRGBA {
	r := 3.2406*x - 1.5372*y - 0.4986*z
	g := -0.9689*x + 1.8758*y + 0.0415*z
	b := 0.0557*x - 0.2040*y + 1.0570*z

	return color.NRGBA{
		R: encodeChannel(r),
		G: encodeChannel(g),
		B: encodeChannel(b),
		A: 255,
	}
}

func encodeChannel(linear float64) uint8 {
	if linear < 0 {
		linear = 0
	}
	if linear > 1 {
		linear = 1
	}

	var encoded float64
	if linear <= 0.0031308 {
		encoded = 12.92 * linear
	} else {
		encoded = 1.055*math.Pow(linear, 1/2.4) - 0.055
	}

	return uint8(math.Round(encoded * 255))
}

// HexString renders a colour as #RRGGBB.
func HexString(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex parses user-supplied #RGB/#RRGGBB palette colours.
func ParseHex(hex string) (color.NRGBA, error) {
	c, err := colorx.ParseHexColor(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("speccolor: %q: %v", hex, err)
	}

	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}
