package rspec

import (
	"fmt"
	"math"
	"strings"
)

// AsOptions controls conversion of a raw numeric table into a Spectra.
type AsOptions struct {
	// WLColumn is the zero-based index of the wavelength column. Set to -1 to
	// auto-detect: a column named like a wavelength wins, otherwise the first
	// strictly increasing column whose values sit in a plausible nm range.
	WLColumn int

	// Interpolate resamples every series onto the whole-number nm grid
	// spanned by the measured wavelengths (linear interpolation).
	Interpolate bool

	// Lim restricts the wavelength range to [Lim[0], Lim[1]]. Limits beyond
	// the measured range are not an error: the out-of-range region is held
	// constant at the nearest measured value and a warning is recorded on
	// the result.
	Lim [2]float64
}

// Plausible bounds for a wavelength axis, in nm. UV-VIS spectrometry sits
// within 200-1000; NIR instruments reach further.
const (
	wlPlausibleMin = 100
	wlPlausibleMax = 4000
)

// AsSpectra converts a column-major numeric table into a Spectra. headers
// supplies one name per column; the wavelength column's header is discarded
// and the rest become series names.
func AsSpectra(cols [][]float64, headers []string, opt AsOptions) (*Spectra, error) {
	if len(cols) < 2 {
		return nil, fmt.Errorf("rspec: a spectral table needs a wavelength column plus at least one series, got %d columns", len(cols))
	}
	if len(headers) != len(cols) {
		return nil, fmt.Errorf("rspec: %d headers for %d columns", len(headers), len(cols))
	}

	wlCol := opt.WLColumn
	if wlCol < 0 {
		detected, err := detectWavelengthColumn(cols, headers)
		if err != nil {
			return nil, err
		}
		wlCol = detected
	}
	if wlCol >= len(cols) {
		return nil, fmt.Errorf("rspec: wavelength column %d out of range for %d columns", wlCol, len(cols))
	}

	wl := cols[wlCol]
	names := make([]string, 0, len(cols)-1)
	series := make([][]float64, 0, len(cols)-1)
	for i, col := range cols {
		if i == wlCol {
			continue
		}
		names = append(names, headers[i])
		series = append(series, col)
	}

	out, err := New(wl, names, series)
	if err != nil {
		return nil, err
	}

	if opt.Interpolate {
		if out, err = out.interpolated(); err != nil {
			return nil, err
		}
	}

	if opt.Lim[0] != 0 || opt.Lim[1] != 0 {
		out, err = out.limited(opt.Lim[0], opt.Lim[1])
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

func detectWavelengthColumn(cols [][]float64, headers []string) (int, error) {
	// A recognizable header wins outright.
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "wl", "wavelength", "wavelengths", "lambda", "nm":
			return i, nil
		}
	}

	// Otherwise the first strictly increasing column within plausible bounds.
	for i, col := range cols {
		if isPlausibleWavelengthAxis(col) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("rspec: could not identify a wavelength column; name one 'wl' or pass its index")
}

func isPlausibleWavelengthAxis(col []float64) bool {
	if len(col) < 2 {
		return false
	}
	if col[0] < wlPlausibleMin || col[len(col)-1] > wlPlausibleMax {
		return false
	}
	for i := 1; i < len(col); i++ {
		if col[i] <= col[i-1] {
			return false
		}
	}

	return true
}

// interpolated resamples the table onto the whole-number nm grid covered by
// the measured wavelengths.
func (s *Spectra) interpolated() (*Spectra, error) {
	lo := math.Ceil(s.wl[0])
	hi := math.Floor(s.wl[len(s.wl)-1])
	if hi < lo+1 {
		return nil, fmt.Errorf("rspec: measured range [%v, %v] covers fewer than two whole-number wavelengths; cannot interpolate", s.wl[0], s.wl[len(s.wl)-1])
	}

	grid := make([]float64, 0, int(hi-lo)+1)
	for w := lo; w <= hi; w++ {
		grid = append(grid, w)
	}

	cols := make([][]float64, 0, len(s.series))
	for _, col := range s.series {
		resampled := make([]float64, len(grid))
		for i, w := range grid {
			resampled[i] = interpAt(s.wl, col, w)
		}
		cols = append(cols, resampled)
	}

	out := &Spectra{
		wl:       grid,
		names:    append([]string(nil), s.names...),
		series:   cols,
		warnings: append([]string(nil), s.warnings...),
	}

	return out, nil
}

// interpAt linearly interpolates (x, y) at position w. Out-of-range w clamps
// to the boundary value.
func interpAt(x, y []float64, w float64) float64 {
	if w <= x[0] {
		return y[0]
	}
	if w >= x[len(x)-1] {
		return y[len(y)-1]
	}

	// Binary search for the bracketing interval.
	lo, hi := 0, len(x)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x[mid] <= w {
			lo = mid
		} else {
			hi = mid
		}
	}

	frac := (w - x[lo]) / (x[hi] - x[lo])

	return y[lo] + frac*(y[hi]-y[lo])
}

// limited restricts the table to [lo, hi]. Regions beyond the measured range
// are filled with the boundary value, held constant, and a warning is
// recorded; the request is never rejected.
func (s *Spectra) limited(lo, hi float64) (*Spectra, error) {
	if hi <= lo {
		return nil, fmt.Errorf("rspec: invalid wavelength limits [%v, %v]", lo, hi)
	}

	step := s.medianStep()

	grid := []float64{}
	clampedLow, clampedHigh := false, false
	for w := lo; w <= hi+step/2; w += step {
		grid = append(grid, w)
		if w < s.wl[0] {
			clampedLow = true
		}
		if w > s.wl[len(s.wl)-1] {
			clampedHigh = true
		}
	}
	if len(grid) < 2 {
		return nil, fmt.Errorf("rspec: wavelength limits [%v, %v] span fewer than two grid points", lo, hi)
	}

	cols := make([][]float64, 0, len(s.series))
	for _, col := range s.series {
		limitedCol := make([]float64, len(grid))
		for i, w := range grid {
			limitedCol[i] = interpAt(s.wl, col, w)
		}
		cols = append(cols, limitedCol)
	}

	out := &Spectra{
		wl:       grid,
		names:    append([]string(nil), s.names...),
		series:   cols,
		warnings: append([]string(nil), s.warnings...),
	}

	if clampedLow || clampedHigh {
		out.addWarning("requested wavelength limits [%v, %v] exceed the measured range [%v, %v]; out-of-range values held constant at the boundary value", lo, hi, s.wl[0], s.wl[len(s.wl)-1])
	}

	return out, nil
}

// Lim restricts the table to the [lo, hi] wavelength range, holding values
// constant (with a warning) where the request extends beyond the data.
func (s *Spectra) Lim(lo, hi float64) (*Spectra, error) {
	return s.limited(lo, hi)
}

func (s *Spectra) medianStep() float64 {
	if len(s.wl) < 2 {
		return 1
	}

	diffs := make([]float64, 0, len(s.wl)-1)
	for i := 1; i < len(s.wl); i++ {
		diffs = append(diffs, s.wl[i]-s.wl[i-1])
	}

	// Insertion sort: the diff vector is tiny and nearly constant.
	for i := 1; i < len(diffs); i++ {
		for j := i; j > 0 && diffs[j] < diffs[j-1]; j-- {
			diffs[j], diffs[j-1] = diffs[j-1], diffs[j]
		}
	}

	return diffs[len(diffs)/2]
}
