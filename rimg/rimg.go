// Package rimg holds the raster image container used for colour-pattern
// analysis: three float64 channel planes normalized to [0,1], plus capture
// metadata (source file, physical scale, focal-region outline). Operations
// return new containers; none mutates its receiver.
package rimg

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Point is an outline vertex in pixel coordinates.
type Point struct {
	X float64
	Y float64
}

type Image struct {
	W int
	H int

	// R, G, B are row-major channel planes with values in [0,1].
	R [][]float64
	G [][]float64
	B [][]float64

	// File is the source the image was decoded from, when known.
	File string

	// MMPerPixel is the physical scale, when set.
	MMPerPixel float64

	// Outline is the focal-region polygon, when set.
	Outline []Point
}

// New allocates a zeroed (black) image.
func New(w, h int) (*Image, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("rimg: invalid dimensions %dx%d", w, h)
	}

	out := &Image{W: w, H: h}
	out.R = newPlane(w, h)
	out.G = newPlane(w, h)
	out.B = newPlane(w, h)

	return out, nil
}

func newPlane(w, h int) [][]float64 {
	plane := make([][]float64, h)
	for y := range plane {
		plane[y] = make([]float64, w)
	}

	return plane
}

// FromImage converts a decoded stdlib image into channel planes.
func FromImage(img image.Image) (*Image, error) {
	bounds := img.Bounds()

	out, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.R[y][x] = float64(r) / 0xffff
			out.G[y][x] = float64(g) / 0xffff
			out.B[y][x] = float64(b) / 0xffff
		}
	}

	return out, nil
}

// ToImage renders the planes as an 8-bit NRGBA image, clipping to [0,1].
func (im *Image) ToImage() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.W, im.H))
	for y := 0; y < im.H; y++ {
		for x := 0; x < im.W; x++ {
			out.SetNRGBA(x, y, color.NRGBA{
				R: to8Bit(im.R[y][x]),
				G: to8Bit(im.G[y][x]),
				B: to8Bit(im.B[y][x]),
				A: 255,
			})
		}
	}

	return out
}

func to8Bit(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	return uint8(math.Round(v * 255))
}

// Clone deep-copies the container.
func (im *Image) Clone() *Image {
	out := &Image{
		W:          im.W,
		H:          im.H,
		File:       im.File,
		MMPerPixel: im.MMPerPixel,
		Outline:    append([]Point(nil), im.Outline...),
	}
	out.R = clonePlane(im.R)
	out.G = clonePlane(im.G)
	out.B = clonePlane(im.B)

	return out
}

func clonePlane(plane [][]float64) [][]float64 {
	out := make([][]float64, len(plane))
	for y := range plane {
		out[y] = append([]float64(nil), plane[y]...)
	}

	return out
}

// Clip returns a copy with every channel value forced back into [0,1].
func (im *Image) Clip() *Image {
	out := im.Clone()
	for _, plane := range [][][]float64{out.R, out.G, out.B} {
		for y := range plane {
			for x, v := range plane[y] {
				if v < 0 {
					plane[y][x] = 0
				}
				if v > 1 {
					plane[y][x] = 1
				}
			}
		}
	}

	return out
}
