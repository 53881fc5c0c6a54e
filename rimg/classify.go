package rimg

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/carbocation/go-quantize/quantize"
	"github.com/theodesp/unionfind"
	"github.com/tj/go-rle"
)

// Classification assigns every pixel to one of k colour classes.
type Classification struct {
	W int
	H int

	// Classes is the row-major class index per pixel, each in [0, k).
	Classes [][]int

	// Palette holds the representative colour of each class.
	Palette []color.NRGBA
}

// Classify reduces the image to at most k colour classes via median-cut
// quantization over all pixels, then assigns every pixel to its nearest
// class colour.
func (im *Image) Classify(k int) (*Classification, error) {
	if k < 1 || k > 256 {
		return nil, fmt.Errorf("rimg: class count %d out of range [1, 256]", k)
	}

	quantizer := quantize.MedianCutQuantizer{
		Aggregation:    quantize.Mean,
		Weighting:      nil,
		AddTransparent: false,
	}

	pal := quantizer.Quantize(make([]color.Color, 0, k), im.ToImage())
	if len(pal) == 0 {
		return nil, fmt.Errorf("rimg: quantization produced an empty palette")
	}

	out := &Classification{
		W:       im.W,
		H:       im.H,
		Palette: make([]color.NRGBA, len(pal)),
	}
	for i, c := range pal {
		r, g, b, _ := c.RGBA()
		out.Palette[i] = color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
	}

	out.Classes = make([][]int, im.H)
	for y := 0; y < im.H; y++ {
		out.Classes[y] = make([]int, im.W)
		for x := 0; x < im.W; x++ {
			out.Classes[y][x] = nearestClass(out.Palette, to8Bit(im.R[y][x]), to8Bit(im.G[y][x]), to8Bit(im.B[y][x]))
		}
	}

	return out, nil
}

func nearestClass(palette []color.NRGBA, r, g, b uint8) int {
	best, bestDist := 0, int(^uint(0)>>1)
	for i, p := range palette {
		dr := int(p.R) - int(r)
		dg := int(p.G) - int(g)
		db := int(p.B) - int(b)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = i, d
		}
	}

	return best
}

// ClassImage renders the classification with each pixel replaced by its
// class colour.
func (c *Classification) ClassImage() *Image {
	out := &Image{W: c.W, H: c.H}
	out.R = newPlane(c.W, c.H)
	out.G = newPlane(c.W, c.H)
	out.B = newPlane(c.W, c.H)

	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			p := c.Palette[c.Classes[y][x]]
			out.R[y][x] = float64(p.R) / 255
			out.G[y][x] = float64(p.G) / 255
			out.B[y][x] = float64(p.B) / 255
		}
	}

	return out
}

// Encoded flattens the class matrix row-major and run-length encodes it, for
// compact sidecar storage of large classifications.
func (c *Classification) Encoded() []byte {
	flat := make([]int64, 0, c.W*c.H)
	for _, row := range c.Classes {
		for _, v := range row {
			flat = append(flat, int64(v))
		}
	}

	return rle.EncodeInt64(flat)
}

// DecodeClasses reverses Encoded given the original dimensions.
func DecodeClasses(encoded []byte, w, h int) ([][]int, error) {
	flat, err := rle.DecodeInt64(encoded)
	if err != nil {
		return nil, err
	}
	if len(flat) != w*h {
		return nil, fmt.Errorf("rimg: encoded classes hold %d pixels, expected %dx%d", len(flat), w, h)
	}

	out := make([][]int, h)
	for y := range out {
		out[y] = make([]int, w)
		for x := range out[y] {
			out[y][x] = int(flat[y*w+x])
		}
	}

	return out, nil
}

// ClassStats summarizes one class's share of the pattern.
type ClassStats struct {
	Class int

	// Frequency is the fraction of pixels assigned to the class.
	Frequency float64

	// Patches is the number of 4-connected regions of the class, and
	// PatchAreas their sizes in pixels, largest first.
	Patches    int
	PatchAreas []int

	// RowTransitions and ColTransitions count class changes along rows and
	// columns into or out of this class.
	RowTransitions int
	ColTransitions int
}

// Stats computes per-class frequency, connected-patch counts and areas, and
// row/column adjacency transition counts.
func (c *Classification) Stats() []ClassStats {
	n := c.W * c.H

	// Union 4-connected same-class pixels by linear index.
	uf := unionfind.NewThreadSafeUnionFind(n)
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			idx := y*c.W + x
			if x+1 < c.W && c.Classes[y][x] == c.Classes[y][x+1] {
				uf.Union(idx, idx+1)
			}
			if y+1 < c.H && c.Classes[y][x] == c.Classes[y+1][x] {
				uf.Union(idx, idx+c.W)
			}
		}
	}

	k := len(c.Palette)
	counts := make([]int, k)
	patchAreas := make([]map[int]int, k)
	for i := range patchAreas {
		patchAreas[i] = map[int]int{}
	}

	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			class := c.Classes[y][x]
			counts[class]++

			idx := y*c.W + x
			root := uf.Root(idx)
			if root < 0 {
				root = idx
			}
			patchAreas[class][root]++
		}
	}

	out := make([]ClassStats, k)
	for class := range out {
		areas := make([]int, 0, len(patchAreas[class]))
		for _, area := range patchAreas[class] {
			areas = append(areas, area)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(areas)))

		out[class] = ClassStats{
			Class:      class,
			Frequency:  float64(counts[class]) / float64(n),
			Patches:    len(areas),
			PatchAreas: areas,
		}
	}

	// Adjacency: every class change along a row or column counts once for
	// each side of the boundary.
	for y := 0; y < c.H; y++ {
		for x := 1; x < c.W; x++ {
			if a, b := c.Classes[y][x-1], c.Classes[y][x]; a != b {
				out[a].RowTransitions++
				out[b].RowTransitions++
			}
		}
	}
	for x := 0; x < c.W; x++ {
		for y := 1; y < c.H; y++ {
			if a, b := c.Classes[y-1][x], c.Classes[y][x]; a != b {
				out[a].ColTransitions++
				out[b].ColTransitions++
			}
		}
	}

	return out
}
