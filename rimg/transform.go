package rimg

import (
	"fmt"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Rotate returns the image rotated counter-clockwise by angle degrees,
// exposing bg where the rotated frame does not cover the new bounds. The
// outline is dropped: its pixel coordinates no longer apply.
func (im *Image) Rotate(angle float64, bg color.Color) (*Image, error) {
	rotated := imaging.Rotate(im.ToImage(), angle, bg)

	out, err := FromImage(rotated)
	if err != nil {
		return nil, err
	}
	out.File = im.File
	out.MMPerPixel = im.MMPerPixel

	return out, nil
}

// Resize returns the image scaled by factor, with the physical scale and
// outline adjusted to match. Lanczos resampling.
func (im *Image) Resize(factor float64) (*Image, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("rimg: resize factor %v must be positive", factor)
	}

	w := int(math.Round(float64(im.W) * factor))
	if w < 1 {
		w = 1
	}

	resized := imaging.Resize(im.ToImage(), w, 0, imaging.Lanczos)

	out, err := FromImage(resized)
	if err != nil {
		return nil, err
	}
	out.File = im.File

	// Fewer pixels across the same physical object means more mm per pixel.
	if im.MMPerPixel != 0 {
		out.MMPerPixel = im.MMPerPixel * float64(im.W) / float64(out.W)
	}

	scale := float64(out.W) / float64(im.W)
	for _, p := range im.Outline {
		out.Outline = append(out.Outline, Point{X: p.X * scale, Y: p.Y * scale})
	}

	return out, nil
}
