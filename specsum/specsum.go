// Package specsum computes per-series colourimetric summary variables over a
// spectral table: brightness, chroma, hue, and the λR50 cut-on wavelength.
package specsum

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/montanaflynn/stats"
	"github.com/plumelab/chromisc/rspec"
)

// Summary holds one series' colourimetric variables. The B/S/H naming
// follows the conventional spectral-variable catalog.
type Summary struct {
	Series string

	// B1 is total brightness: the sum of reflectance across the wavelength
	// domain.
	B1 float64

	// B2 is mean brightness.
	B2 float64

	// B3 is maximum reflectance.
	B3 float64

	// S8 is chroma: (Rmax - Rmin) / B2.
	S8 float64

	// H1 is hue: the wavelength of maximum reflectance.
	H1 float64

	// R50 is the cut-on wavelength: the first wavelength at which
	// reflectance crosses halfway between the series minimum and maximum.
	R50 float64

	// Median is the median reflectance, reported alongside the catalog
	// variables for quick diagnostics.
	Median float64
}

// Summarize computes the summary variables for every series in table order.
func Summarize(s *rspec.Spectra) ([]Summary, error) {
	wl := s.Wavelengths()

	out := make([]Summary, 0, s.NSpec())
	for i, name := range s.Names() {
		series := s.SeriesAt(i)

		sum, err := stats.Sum(series)
		if err != nil {
			return nil, fmt.Errorf("specsum: series %q: %v", name, err)
		}
		mean, err := stats.Mean(series)
		if err != nil {
			return nil, fmt.Errorf("specsum: series %q: %v", name, err)
		}
		median, err := stats.Median(series)
		if err != nil {
			return nil, fmt.Errorf("specsum: series %q: %v", name, err)
		}

		min, max := series[0], series[0]
		hue := wl[0]
		for j, v := range series {
			if v < min {
				min = v
			}
			if v > max {
				max = v
				hue = wl[j]
			}
		}

		summary := Summary{
			Series: name,
			B1:     sum,
			B2:     mean,
			B3:     max,
			H1:     hue,
			R50:    cutOn(wl, series, min, max),
			Median: median,
		}
		if mean != 0 {
			summary.S8 = (max - min) / mean
		}

		out = append(out, summary)
	}

	return out, nil
}

// cutOn finds the first wavelength where the series crosses halfway between
// its minimum and maximum, interpolating between the bracketing samples. A
// flat series has no cut-on; its lowest wavelength is reported.
func cutOn(wl, series []float64, min, max float64) float64 {
	if max == min {
		return wl[0]
	}

	half := min + (max-min)/2
	for i := 1; i < len(series); i++ {
		lo, hi := series[i-1], series[i]
		if (lo < half && hi >= half) || (lo > half && hi <= half) {
			frac := (half - lo) / (hi - lo)
			return wl[i-1] + frac*(wl[i]-wl[i-1])
		}
	}
	if series[0] >= half {
		return wl[0]
	}

	return wl[len(wl)-1]
}

// WriteTSV renders the summaries as a tab-separated table with a header row.
func WriteTSV(w io.Writer, summaries []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	fmt.Fprintln(tw, "spec\tB1\tB2\tB3\tS8\tH1\tR50\tmedian")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Series,
			fmtFloat(s.B1), fmtFloat(s.B2), fmtFloat(s.B3), fmtFloat(s.S8),
			fmtFloat(s.H1), fmtFloat(s.R50), fmtFloat(s.Median))
	}

	return tw.Flush()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
