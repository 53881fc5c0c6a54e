package procspec

import (
	"fmt"
	"math"

	"github.com/plumelab/chromisc/rspec"
	"gonum.org/v1/gonum/stat"
)

// Smooth runs span-parameterized local regression over every series: for
// each wavelength, a tricube-weighted linear fit over the window of points
// covering span fraction of the series, evaluated at that wavelength.
// Windows truncate at the endpoints rather than shrinking the fit to one
// side.
func Smooth(s *rspec.Spectra, span float64) (*rspec.Spectra, error) {
	if span < 0 || span > 1 {
		return nil, fmt.Errorf("procspec: smoothing span %v out of range [0, 1]", span)
	}

	return s.Apply(func(wl, series []float64) []float64 {
		window := int(span * float64(len(series)))
		if window < 2 {
			// A span this small covers a single point; there is nothing to
			// regress against, so the series passes through unchanged.
			return series
		}

		out := make([]float64, len(series))
		half := window / 2
		for i := range series {
			lo := i - half
			if lo < 0 {
				lo = 0
			}
			hi := lo + window
			if hi > len(series) {
				hi = len(series)
				lo = hi - window
			}

			out[i] = localFit(wl[lo:hi], series[lo:hi], wl[i])
		}

		return out
	})
}

// localFit evaluates a tricube-weighted linear regression of y on x at x0.
func localFit(x, y []float64, x0 float64) float64 {
	// The weighting distance is the farthest point in the window.
	maxDist := 0.0
	for _, xv := range x {
		if d := math.Abs(xv - x0); d > maxDist {
			maxDist = d
		}
	}
	if maxDist == 0 {
		return y[0]
	}

	weights := make([]float64, len(x))
	for i, xv := range x {
		u := math.Abs(xv-x0) / maxDist
		w := 1 - u*u*u
		weights[i] = w * w * w
	}

	alpha, beta := stat.LinearRegression(x, y, weights, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return y[len(y)/2]
	}

	return alpha + beta*x0
}
