package rimg

import (
	"fmt"
)

// SetScale returns a copy carrying a physical scale derived from a known
// real-world length spanning px pixels in the image.
func (im *Image) SetScale(knownLengthMM float64, px int) (*Image, error) {
	if knownLengthMM <= 0 || px <= 0 {
		return nil, fmt.Errorf("rimg: scale requires a positive length (%v mm) and pixel span (%d px)", knownLengthMM, px)
	}

	out := im.Clone()
	out.MMPerPixel = knownLengthMM / float64(px)

	return out, nil
}

// SetOutline returns a copy carrying the focal-region polygon, optionally
// smoothed by smoothIters rounds of Chaikin corner cutting.
func (im *Image) SetOutline(polygon []Point, smoothIters int) (*Image, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("rimg: an outline needs at least 3 vertices, got %d", len(polygon))
	}
	if smoothIters < 0 {
		return nil, fmt.Errorf("rimg: negative smoothing iterations (%d)", smoothIters)
	}

	out := im.Clone()
	out.Outline = append([]Point(nil), polygon...)
	for i := 0; i < smoothIters; i++ {
		out.Outline = chaikin(out.Outline)
	}

	return out, nil
}

// chaikin performs one round of corner cutting on a closed polygon: each
// edge contributes its quarter and three-quarter points.
func chaikin(polygon []Point) []Point {
	out := make([]Point, 0, 2*len(polygon))
	for i, p := range polygon {
		q := polygon[(i+1)%len(polygon)]

		out = append(out,
			Point{X: 0.75*p.X + 0.25*q.X, Y: 0.75*p.Y + 0.25*q.Y},
			Point{X: 0.25*p.X + 0.75*q.X, Y: 0.25*p.Y + 0.75*q.Y},
		)
	}

	return out
}

// Mask rasterizes the outline polygon to a boolean focal-region mask using
// the even-odd rule against each pixel's center. Without an outline, every
// pixel is focal.
func (im *Image) Mask() [][]bool {
	out := make([][]bool, im.H)
	for y := range out {
		out[y] = make([]bool, im.W)

		if len(im.Outline) == 0 {
			for x := range out[y] {
				out[y][x] = true
			}
			continue
		}

		cy := float64(y) + 0.5
		for x := range out[y] {
			out[y][x] = insidePolygon(im.Outline, float64(x)+0.5, cy)
		}
	}

	return out
}

// insidePolygon is an even-odd crossing test.
func insidePolygon(polygon []Point, x, y float64) bool {
	inside := false
	for i, p := range polygon {
		q := polygon[(i+1)%len(polygon)]

		if (p.Y > y) != (q.Y > y) {
			crossX := p.X + (y-p.Y)/(q.Y-p.Y)*(q.X-p.X)
			if x < crossX {
				inside = !inside
			}
		}
	}

	return inside
}
