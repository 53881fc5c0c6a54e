package specplot

import (
	"bytes"
	"testing"

	"github.com/plumelab/chromisc/rimg"
	"github.com/plumelab/chromisc/rspec"
)

func testTable(t *testing.T) *rspec.Spectra {
	t.Helper()

	wl := make([]float64, 0, 401)
	a := make([]float64, 0, 401)
	b := make([]float64, 0, 401)
	for w := 380.0; w <= 780; w++ {
		wl = append(wl, w)
		a = append(a, (w-380)/400)
		b = append(b, 1-(w-380)/400)
	}

	s, err := rspec.New(wl, []string{"rising", "falling"}, [][]float64{a, b})
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'})
}

func TestOverlayRendersPNG(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Overlay(testTable(t), buf); err != nil {
		t.Fatal(err)
	}
	if !isPNG(buf.Bytes()) {
		t.Fatal("Overlay output is not a PNG")
	}
}

func TestStackedRendersPNG(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Stacked(testTable(t), buf); err != nil {
		t.Fatal(err)
	}
	if !isPNG(buf.Bytes()) {
		t.Fatal("Stacked output is not a PNG")
	}
}

func TestAggregateRendersPNGWithAndWithoutSD(t *testing.T) {
	s := testTable(t)

	buf := &bytes.Buffer{}
	if err := Aggregate(s, nil, buf); err != nil {
		t.Fatal(err)
	}
	if !isPNG(buf.Bytes()) {
		t.Fatal("Aggregate output is not a PNG")
	}

	buf.Reset()
	if err := Aggregate(s, s, buf); err != nil {
		t.Fatal(err)
	}
	if !isPNG(buf.Bytes()) {
		t.Fatal("Aggregate-with-band output is not a PNG")
	}
}

func TestHeatmapRendersPNG(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Heatmap(testTable(t), buf); err != nil {
		t.Fatal(err)
	}
	if !isPNG(buf.Bytes()) {
		t.Fatal("Heatmap output is not a PNG")
	}
}

func TestSwatchesRendersPNG(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Swatches(testTable(t), buf); err != nil {
		t.Fatal(err)
	}
	if !isPNG(buf.Bytes()) {
		t.Fatal("Swatches output is not a PNG")
	}
}

func TestOutlineRequiresOutline(t *testing.T) {
	im, err := rimg.New(8, 8)
	if err != nil {
		t.Fatal(err)
	}

	if err := Outline(im, &bytes.Buffer{}); err == nil {
		t.Fatal("Expected an error for an image with no outline")
	}

	withOutline, err := im.SetOutline([]rimg.Point{{X: 1, Y: 1}, {X: 6, Y: 1}, {X: 6, Y: 6}}, 0)
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	if err := Outline(withOutline, buf); err != nil {
		t.Fatal(err)
	}
	if !isPNG(buf.Bytes()) {
		t.Fatal("Outline output is not a PNG")
	}
}
