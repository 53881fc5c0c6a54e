package speccolor

import (
	"testing"

	"github.com/plumelab/chromisc/rspec"
)

func rampTable(t *testing.T, name string, value func(wl float64) float64) *rspec.Spectra {
	t.Helper()

	wl := make([]float64, 0, 401)
	series := make([]float64, 0, 401)
	for w := 380.0; w <= 780; w++ {
		wl = append(wl, w)
		series = append(series, value(w))
	}

	s, err := rspec.New(wl, []string{name}, [][]float64{series})
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func TestWhiteSurface(t *testing.T) {
	s := rampTable(t, "white", func(wl float64) float64 { return 1 })

	swatches, err := SeriesColors(s)
	if err != nil {
		t.Fatal(err)
	}
	c := swatches[0].Color

	// A perfect reflector under D65 is the white point.
	if c.R < 250 || c.G < 250 || c.B < 250 {
		t.Fatalf("Perfect reflector rendered as %+v, expected near-white", c)
	}
}

func TestRedSurface(t *testing.T) {
	s := rampTable(t, "red", func(wl float64) float64 {
		if wl >= 600 {
			return 0.9
		}
		return 0.05
	})

	swatches, err := SeriesColors(s)
	if err != nil {
		t.Fatal(err)
	}
	c := swatches[0].Color

	if c.R <= c.G || c.R <= c.B {
		t.Fatalf("Long-wavelength reflector rendered as %+v, expected a red-dominant colour", c)
	}
}

func TestBlueSurface(t *testing.T) {
	s := rampTable(t, "blue", func(wl float64) float64 {
		if wl <= 490 {
			return 0.9
		}
		return 0.05
	})

	swatches, err := SeriesColors(s)
	if err != nil {
		t.Fatal(err)
	}
	c := swatches[0].Color

	if c.B <= c.R {
		t.Fatalf("Short-wavelength reflector rendered as %+v, expected a blue-dominant colour", c)
	}
}

func TestPercentScaleDetection(t *testing.T) {
	unit := rampTable(t, "a", func(wl float64) float64 { return 0.5 })
	percent := rampTable(t, "a", func(wl float64) float64 { return 50 })

	cUnit, err := SeriesColors(unit)
	if err != nil {
		t.Fatal(err)
	}
	cPercent, err := SeriesColors(percent)
	if err != nil {
		t.Fatal(err)
	}

	if cUnit[0].Hex != cPercent[0].Hex {
		t.Fatalf("Percent-scaled series rendered %s, unit-scaled %s; expected identical", cPercent[0].Hex, cUnit[0].Hex)
	}
}

func TestNoVisibleOverlap(t *testing.T) {
	s, err := rspec.New([]float64{300, 301, 302}, []string{"uv"}, [][]float64{{1, 1, 1}})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := SeriesColors(s); err == nil {
		t.Fatal("Expected an error for a table entirely outside the visible range")
	}
}

func TestHexRoundTrip(t *testing.T) {
	c, err := ParseHex("#FF8000")
	if err != nil {
		t.Fatal(err)
	}
	if got := HexString(c); got != "#FF8000" {
		t.Fatalf("Round trip gave %s, expected #FF8000", got)
	}

	if _, err := ParseHex("not-a-colour"); err == nil {
		t.Fatal("Expected an error for an invalid hex string")
	}
}
