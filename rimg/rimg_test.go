package rimg

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func solid(t *testing.T, w, h int, r, g, b float64) *Image {
	t.Helper()

	im, err := New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.R[y][x] = r
			im.G[y][x] = g
			im.B[y][x] = b
		}
	}

	return im
}

func TestRoundTripThroughStdlibImage(t *testing.T) {
	im := solid(t, 3, 2, 0.2, 0.4, 0.8)

	back, err := FromImage(im.ToImage())
	if err != nil {
		t.Fatal(err)
	}

	if back.W != 3 || back.H != 2 {
		t.Fatalf("Round trip gave %dx%d, expected 3x2", back.W, back.H)
	}
	// 8-bit quantization allows half a step of drift.
	if math.Abs(back.B[1][2]-0.8) > 1.0/255 {
		t.Fatalf("Blue channel %v after round trip, expected ~0.8", back.B[1][2])
	}
}

func TestOpenAndWritePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	im := solid(t, 4, 4, 1, 0, 0)
	if err := im.WritePNG(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := OpenLocal(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.File != path {
		t.Fatalf("Loaded file metadata %q, expected %q", loaded.File, path)
	}
	if loaded.R[2][2] < 0.99 || loaded.G[2][2] > 0.01 {
		t.Fatalf("Loaded pixel (%v, %v, %v), expected red", loaded.R[2][2], loaded.G[2][2], loaded.B[2][2])
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenLocal(path); err == nil {
		t.Fatal("Expected a decode error")
	}
}

func TestResizeAdjustsScaleAndOutline(t *testing.T) {
	im := solid(t, 10, 10, 0.5, 0.5, 0.5)

	im, err := im.SetScale(20, 10) // 2 mm per pixel
	if err != nil {
		t.Fatal(err)
	}
	im, err = im.SetOutline([]Point{{1, 1}, {9, 1}, {9, 9}, {1, 9}}, 0)
	if err != nil {
		t.Fatal(err)
	}

	resized, err := im.Resize(0.5)
	if err != nil {
		t.Fatal(err)
	}

	if resized.W != 5 {
		t.Fatalf("Resized width %d, expected 5", resized.W)
	}
	if math.Abs(resized.MMPerPixel-4) > 1e-9 {
		t.Fatalf("Resized scale %v mm/px, expected 4", resized.MMPerPixel)
	}
	if math.Abs(resized.Outline[2].X-4.5) > 1e-9 {
		t.Fatalf("Resized outline vertex %v, expected x=4.5", resized.Outline[2])
	}

	// Input untouched.
	if im.W != 10 || im.MMPerPixel != 2 {
		t.Fatal("Resize mutated its input")
	}
}

func TestResizeInvalidFactor(t *testing.T) {
	im := solid(t, 4, 4, 0, 0, 0)
	if _, err := im.Resize(0); err == nil {
		t.Fatal("Expected an error for factor 0")
	}
}

func TestRotatePreservesBounds(t *testing.T) {
	im := solid(t, 6, 4, 0.1, 0.2, 0.3)

	rotated, err := im.Rotate(90, color.Black)
	if err != nil {
		t.Fatal(err)
	}

	if rotated.W != 4 || rotated.H != 6 {
		t.Fatalf("90-degree rotation gave %dx%d, expected 4x6", rotated.W, rotated.H)
	}
}

func TestChaikinDoublesVertices(t *testing.T) {
	im := solid(t, 10, 10, 0, 0, 0)

	smoothed, err := im.SetOutline([]Point{{0, 0}, {8, 0}, {8, 8}}, 2)
	if err != nil {
		t.Fatal(err)
	}

	// Each round doubles the vertex count of a closed polygon.
	if len(smoothed.Outline) != 12 {
		t.Fatalf("Outline has %d vertices after 2 rounds, expected 12", len(smoothed.Outline))
	}
}

func TestMaskEvenOdd(t *testing.T) {
	im := solid(t, 10, 10, 0, 0, 0)

	im, err := im.SetOutline([]Point{{2, 2}, {8, 2}, {8, 8}, {2, 8}}, 0)
	if err != nil {
		t.Fatal(err)
	}

	mask := im.Mask()
	if !mask[5][5] {
		t.Fatal("Center pixel should be inside the outline")
	}
	if mask[0][0] || mask[9][9] {
		t.Fatal("Corner pixels should be outside the outline")
	}
}

func TestMaskWithoutOutlineIsAllFocal(t *testing.T) {
	im := solid(t, 3, 3, 0, 0, 0)

	for _, row := range im.Mask() {
		for _, v := range row {
			if !v {
				t.Fatal("Every pixel is focal when no outline is set")
			}
		}
	}
}

func TestOutlineTooFewVertices(t *testing.T) {
	im := solid(t, 3, 3, 0, 0, 0)
	if _, err := im.SetOutline([]Point{{0, 0}, {1, 1}}, 0); err == nil {
		t.Fatal("Expected an error for a 2-vertex outline")
	}
}
