// Package acuity blurs an image in the frequency domain to simulate the
// spatial resolution of a viewer: each channel is Fourier transformed,
// attenuated by a modulation transfer function parameterized by the viewer's
// minimum resolvable angle, and transformed back.
package acuity

import (
	"fmt"
	"math"

	"github.com/plumelab/chromisc/rimg"
	"gonum.org/v1/gonum/dsp/fourier"
)

type Options struct {
	// DistanceMM is the viewing distance.
	DistanceMM float64

	// WidthMM is the real-world width of the imaged object (the image's
	// horizontal extent).
	WidthMM float64

	// ResolutionDeg is the viewer's minimum resolvable angle in degrees.
	ResolutionDeg float64
}

func (opt Options) validate() error {
	if opt.DistanceMM <= 0 {
		return fmt.Errorf("acuity: viewing distance %v mm must be positive", opt.DistanceMM)
	}
	if opt.WidthMM <= 0 {
		return fmt.Errorf("acuity: object width %v mm must be positive", opt.WidthMM)
	}
	if opt.ResolutionDeg <= 0 {
		return fmt.Errorf("acuity: minimum resolvable angle %v deg must be positive", opt.ResolutionDeg)
	}

	return nil
}

// Filter applies the acuity blur, returning a new image with every channel
// clipped back to [0,1]. Non-square images are padded to a square (edge
// replication) before the transform and cropped after.
func Filter(im *rimg.Image, opt Options) (*rimg.Image, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}

	// The angle subtended by the whole object, in degrees.
	angularWidth := 2 * math.Atan2(opt.WidthMM/2, opt.DistanceMM) * 180 / math.Pi

	n := im.W
	if im.H > n {
		n = im.H
	}

	// Cycles per degree at each FFT bin, given the object spans
	// angularWidth degrees across n samples.
	mtf := mtfTable(n, angularWidth, opt.ResolutionDeg)

	out := im.Clone()
	filterPlane(im.R, out.R, n, mtf)
	filterPlane(im.G, out.G, n, mtf)
	filterPlane(im.B, out.B, n, mtf)

	return out.Clip(), nil
}

// mtfTable evaluates exp(-3.56*(MRA*f)^2) at every 2D FFT bin, with f the
// radial spatial frequency in cycles per degree.
func mtfTable(n int, angularWidthDeg, mraDeg float64) [][]float64 {
	out := make([][]float64, n)
	for v := range out {
		out[v] = make([]float64, n)
		for u := range out[v] {
			fu := freqIndex(u, n)
			fv := freqIndex(v, n)

			// Cycles across the object, then per degree.
			f := math.Hypot(fu, fv) / angularWidthDeg

			arg := mraDeg * f
			out[v][u] = math.Exp(-3.56 * arg * arg)
		}
	}

	return out
}

// freqIndex maps an FFT bin to its signed frequency in cycles per frame.
func freqIndex(i, n int) float64 {
	if i <= n/2 {
		return float64(i)
	}

	return float64(i - n)
}

// filterPlane pads src to an n-by-n square, applies the frequency-domain
// attenuation, and writes the cropped result into dst (which has src's
// dimensions).
func filterPlane(src, dst [][]float64, n int, mtf [][]float64) {
	h, w := len(src), len(src[0])

	// Pad by edge replication to soften wrap-around ringing.
	grid := make([][]complex128, n)
	for y := range grid {
		grid[y] = make([]complex128, n)
		sy := y
		if sy >= h {
			sy = h - 1
		}
		for x := range grid[y] {
			sx := x
			if sx >= w {
				sx = w - 1
			}
			grid[y][x] = complex(src[sy][sx], 0)
		}
	}

	fft := fourier.NewCmplxFFT(n)

	// Row-column decomposition of the 2D transform.
	for y := range grid {
		grid[y] = fft.Coefficients(nil, grid[y])
	}
	col := make([]complex128, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = grid[y][x]
		}
		col = fft.Coefficients(nil, col)
		for y := 0; y < n; y++ {
			grid[y][x] = col[y] * complex(mtf[y][x], 0)
		}
	}

	// Inverse, normalizing by n per dimension.
	scale := complex(1/float64(n*n), 0)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = grid[y][x]
		}
		col = fft.Sequence(nil, col)
		for y := 0; y < n; y++ {
			grid[y][x] = col[y]
		}
	}
	for y := range grid {
		grid[y] = fft.Sequence(nil, grid[y])
		for x := range grid[y] {
			grid[y][x] *= scale
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst[y][x] = real(grid[y][x])
		}
	}
}
