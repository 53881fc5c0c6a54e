package acuity

import (
	"math"
	"testing"

	"github.com/plumelab/chromisc/rimg"
)

// checkerboard builds a w x h image alternating black and white pixels.
func checkerboard(t *testing.T, w, h int) *rimg.Image {
	t.Helper()

	im, err := rimg.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				im.R[y][x] = 1
				im.G[y][x] = 1
				im.B[y][x] = 1
			}
		}
	}

	return im
}

func TestFilterBlursHighFrequency(t *testing.T) {
	im := checkerboard(t, 32, 32)

	out, err := Filter(im, Options{DistanceMM: 1000, WidthMM: 100, ResolutionDeg: 1})
	if err != nil {
		t.Fatal(err)
	}

	// A pixel-level checkerboard is far beyond this viewer's acuity; the
	// output should approach the uniform mean rather than alternating.
	var maxDev float64
	for y := 4; y < 28; y++ {
		for x := 4; x < 28; x++ {
			if d := math.Abs(out.R[y][x] - 0.5); d > maxDev {
				maxDev = d
			}
		}
	}
	if maxDev > 0.1 {
		t.Fatalf("Checkerboard deviation %v from the mean after filtering; expected the pattern to blur away", maxDev)
	}

	// The input must be untouched.
	if im.R[0][0] != 1 || im.R[0][1] != 0 {
		t.Fatal("Filter mutated its input")
	}
}

func TestFilterPreservesUniformField(t *testing.T) {
	im, err := rimg.New(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	for y := range im.G {
		for x := range im.G[y] {
			im.G[y][x] = 0.25
		}
	}

	out, err := Filter(im, Options{DistanceMM: 100, WidthMM: 50, ResolutionDeg: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	for y := range out.G {
		for x := range out.G[y] {
			if math.Abs(out.G[y][x]-0.25) > 1e-9 {
				t.Fatalf("Uniform field changed at (%d,%d): %v", x, y, out.G[y][x])
			}
		}
	}
}

func TestFilterNonSquare(t *testing.T) {
	im := checkerboard(t, 20, 9)

	out, err := Filter(im, Options{DistanceMM: 1000, WidthMM: 100, ResolutionDeg: 1})
	if err != nil {
		t.Fatal(err)
	}

	if out.W != 20 || out.H != 9 {
		t.Fatalf("Output %dx%d, expected the input's 20x9", out.W, out.H)
	}
}

func TestFilterBounds(t *testing.T) {
	im := checkerboard(t, 8, 8)

	out, err := Filter(im, Options{DistanceMM: 500, WidthMM: 80, ResolutionDeg: 0.2})
	if err != nil {
		t.Fatal(err)
	}

	for y := range out.R {
		for x := range out.R[y] {
			if out.R[y][x] < 0 || out.R[y][x] > 1 {
				t.Fatalf("Pixel (%d,%d) = %v escaped [0,1]", x, y, out.R[y][x])
			}
		}
	}
}

func TestFilterInvalidOptions(t *testing.T) {
	im := checkerboard(t, 4, 4)

	for _, opt := range []Options{
		{DistanceMM: 0, WidthMM: 10, ResolutionDeg: 1},
		{DistanceMM: 10, WidthMM: -1, ResolutionDeg: 1},
		{DistanceMM: 10, WidthMM: 10, ResolutionDeg: 0},
	} {
		if _, err := Filter(im, opt); err == nil {
			t.Fatalf("Expected an error for options %+v", opt)
		}
	}
}
