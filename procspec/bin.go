package procspec

import (
	"fmt"
	"math"

	"github.com/plumelab/chromisc/rspec"
)

// Bin averages every series into n equal-width wavelength bins. The output
// wavelength for each bin is the integer-truncated bin midpoint.
func Bin(s *rspec.Spectra, n int) (*rspec.Spectra, error) {
	if n < 1 {
		return nil, fmt.Errorf("procspec: bin count %d must be positive", n)
	}
	if n > s.Len() {
		return nil, fmt.Errorf("procspec: %d bins requested but the table has only %d wavelengths", n, s.Len())
	}

	wl := s.Wavelengths()
	lo, hi := wl[0], wl[len(wl)-1]
	width := (hi - lo) / float64(n)

	// Assign each wavelength row to its bin up front; the last bin's upper
	// edge is inclusive.
	binOf := make([]int, len(wl))
	counts := make([]int, n)
	for i, w := range wl {
		b := int((w - lo) / width)
		if b >= n {
			b = n - 1
		}
		binOf[i] = b
		counts[b]++
	}
	for b, c := range counts {
		if c == 0 {
			return nil, fmt.Errorf("procspec: bin %d of %d covers no measured wavelengths; use fewer bins", b, n)
		}
	}

	binWL := make([]float64, n)
	for b := range binWL {
		mid := lo + width*(float64(b)+0.5)
		binWL[b] = math.Trunc(mid)
	}

	names := s.Names()
	cols := make([][]float64, 0, s.NSpec())
	for j := 0; j < s.NSpec(); j++ {
		series := s.SeriesAt(j)
		sums := make([]float64, n)
		for i, v := range series {
			sums[binOf[i]] += v
		}
		for b := range sums {
			sums[b] /= float64(counts[b])
		}
		cols = append(cols, sums)
	}

	return rspec.New(binWL, names, cols)
}
