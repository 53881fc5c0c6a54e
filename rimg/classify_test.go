package rimg

import (
	"math"
	"testing"
)

// halves builds an image whose left half is red and right half is blue.
func halves(t *testing.T, w, h int) *Image {
	t.Helper()

	im, err := New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				im.R[y][x] = 1
			} else {
				im.B[y][x] = 1
			}
		}
	}

	return im
}

func TestClassifyTwoColors(t *testing.T) {
	im := halves(t, 8, 4)

	c, err := im.Classify(2)
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Palette) != 2 {
		t.Fatalf("Palette has %d entries, expected 2", len(c.Palette))
	}

	// Every pixel gets a class in range, and the two halves disagree.
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			if class := c.Classes[y][x]; class < 0 || class >= len(c.Palette) {
				t.Fatalf("Pixel (%d,%d) class %d out of range", x, y, class)
			}
		}
	}
	if c.Classes[0][0] == c.Classes[0][7] {
		t.Fatal("Left and right halves should land in different classes")
	}
}

func TestStats(t *testing.T) {
	im := halves(t, 8, 4)

	c, err := im.Classify(2)
	if err != nil {
		t.Fatal(err)
	}
	stats := c.Stats()

	for _, s := range stats {
		if math.Abs(s.Frequency-0.5) > 1e-12 {
			t.Fatalf("Class %d frequency %v, expected 0.5", s.Class, s.Frequency)
		}
		if s.Patches != 1 {
			t.Fatalf("Class %d has %d patches, expected 1 contiguous half", s.Class, s.Patches)
		}
		if len(s.PatchAreas) != 1 || s.PatchAreas[0] != 16 {
			t.Fatalf("Class %d patch areas %v, expected [16]", s.Class, s.PatchAreas)
		}
		// One vertical boundary crossed by each of the 4 rows; no column
		// transitions.
		if s.RowTransitions != 4 {
			t.Fatalf("Class %d row transitions %d, expected 4", s.Class, s.RowTransitions)
		}
		if s.ColTransitions != 0 {
			t.Fatalf("Class %d column transitions %d, expected 0", s.Class, s.ColTransitions)
		}
	}
}

func TestStatsSpeckledPatches(t *testing.T) {
	im, err := New(5, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Pattern along the single row: white, black, white, black, white.
	for x := 0; x < 5; x += 2 {
		im.R[0][x] = 1
		im.G[0][x] = 1
		im.B[0][x] = 1
	}

	c, err := im.Classify(2)
	if err != nil {
		t.Fatal(err)
	}
	stats := c.Stats()

	white := c.Classes[0][0]
	if stats[white].Patches != 3 {
		t.Fatalf("White class has %d patches, expected 3", stats[white].Patches)
	}
	if stats[1-white].Patches != 2 {
		t.Fatalf("Black class has %d patches, expected 2", stats[1-white].Patches)
	}
}

func TestEncodedRoundTrip(t *testing.T) {
	im := halves(t, 6, 3)

	c, err := im.Classify(2)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeClasses(c.Encoded(), c.W, c.H)
	if err != nil {
		t.Fatal(err)
	}

	for y := range c.Classes {
		for x := range c.Classes[y] {
			if decoded[y][x] != c.Classes[y][x] {
				t.Fatalf("Decoded class at (%d,%d) = %d, expected %d", x, y, decoded[y][x], c.Classes[y][x])
			}
		}
	}
}

func TestClassifyInvalidK(t *testing.T) {
	im := halves(t, 4, 2)
	if _, err := im.Classify(0); err == nil {
		t.Fatal("Expected an error for k=0")
	}
}
