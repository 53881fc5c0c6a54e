// Package procspec repairs, filters, smooths, normalizes, and bins
// reflectance curves. Every operation consumes and produces an rspec.Spectra
// without touching its input; Process applies them in a fixed order so that a
// single options struct behaves the same everywhere.
package procspec

import (
	"fmt"
	"math"

	"github.com/jfcg/butter"
	"github.com/plumelab/chromisc/rspec"
)

// Negative-value repair modes.
const (
	FixNegNone   = ""
	FixNegAddMin = "addmin"
	FixNegZero   = "zero"
)

// Normalization modes.
const (
	NormNone = ""
	NormMin  = "min"
	NormMax  = "max"
	NormBoth = "both"
)

type Options struct {
	// FixNeg repairs negative reflectance values: "addmin" shifts the whole
	// series up by |min|, "zero" clamps negatives to zero.
	FixNeg string

	// LowPassCutoff applies a first-order Butterworth low-pass before
	// smoothing, for periodic sensor noise. Units are cycles per sample;
	// zero disables.
	LowPassCutoff float64

	// Span is the LOESS-style smoothing span as a fraction of the series
	// length. Zero disables.
	Span float64

	// Norm is one of the Norm* modes.
	Norm string

	// Bins averages the series into this many equal-width wavelength bins.
	// Zero disables.
	Bins int
}

// Process applies the configured operations in the documented order:
// fix-negative, low-pass, smooth, normalize, bin.
func Process(s *rspec.Spectra, opt Options) (*rspec.Spectra, error) {
	out := s
	var err error

	if opt.FixNeg != FixNegNone {
		if out, err = FixNegative(out, opt.FixNeg); err != nil {
			return nil, err
		}
	}

	if opt.LowPassCutoff != 0 {
		if out, err = LowPass(out, opt.LowPassCutoff); err != nil {
			return nil, err
		}
	}

	if opt.Span != 0 {
		if out, err = Smooth(out, opt.Span); err != nil {
			return nil, err
		}
	}

	if opt.Norm != NormNone {
		if out, err = Normalize(out, opt.Norm); err != nil {
			return nil, err
		}
	}

	if opt.Bins != 0 {
		if out, err = Bin(out, opt.Bins); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// FixNegative repairs negative values in every series.
func FixNegative(s *rspec.Spectra, mode string) (*rspec.Spectra, error) {
	switch mode {
	case FixNegAddMin:
		return s.Apply(func(wl, series []float64) []float64 {
			min := math.Inf(1)
			for _, v := range series {
				if v < min {
					min = v
				}
			}
			if min >= 0 {
				return series
			}
			for i := range series {
				series[i] -= min
			}
			return series
		})
	case FixNegZero:
		return s.Apply(func(wl, series []float64) []float64 {
			for i, v := range series {
				if v < 0 {
					series[i] = 0
				}
			}
			return series
		})
	}

	return nil, fmt.Errorf("procspec: unknown negative-value fix %q (want %q or %q)", mode, FixNegAddMin, FixNegZero)
}

// Normalize rescales every series: "min" subtracts the series minimum, "max"
// divides by the series maximum, and "both" rescales to [0,1]. A flat series
// normalized with "both" becomes all zeros rather than dividing by zero.
func Normalize(s *rspec.Spectra, mode string) (*rspec.Spectra, error) {
	switch mode {
	case NormMin, NormMax, NormBoth:
	default:
		return nil, fmt.Errorf("procspec: unknown normalization mode %q (want %q, %q, or %q)", mode, NormMin, NormMax, NormBoth)
	}

	return s.Apply(func(wl, series []float64) []float64 {
		min, max := math.Inf(1), math.Inf(-1)
		for _, v := range series {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}

		for i := range series {
			switch mode {
			case NormMin:
				series[i] -= min
			case NormMax:
				series[i] /= max
			case NormBoth:
				if max == min {
					series[i] = 0
				} else {
					series[i] = (series[i] - min) / (max - min)
				}
			}
		}

		return series
	})
}

// LowPass runs a first-order Butterworth low-pass over every series. The
// cutoff is in cycles per sample.
func LowPass(s *rspec.Spectra, cutoff float64) (*rspec.Spectra, error) {
	wc := 2.0 * math.Pi * cutoff

	if filt := butter.NewLowPass1(wc); filt == nil {
		return nil, fmt.Errorf("Invalid low-pass filter (attempted wc=%f, but expect .0001 < wc && wc < 3.1415)", wc)
	}

	return s.Apply(func(wl, series []float64) []float64 {
		// One filter per series: butter carries state between samples.
		filt := butter.NewLowPass1(wc)
		for i, v := range series {
			series[i] = filt.Next(v)
		}
		return series
	})
}
