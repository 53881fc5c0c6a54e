package specsum

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/plumelab/chromisc/rspec"
)

func TestSummarize(t *testing.T) {
	wl := []float64{400, 401, 402, 403}
	s, err := rspec.New(wl, []string{"crown"}, [][]float64{{2, 4, 10, 4}})
	if err != nil {
		t.Fatal(err)
	}

	summaries, err := Summarize(s)
	if err != nil {
		t.Fatal(err)
	}
	got := summaries[0]

	if got.B1 != 20 {
		t.Fatalf("B1 = %v, expected 20", got.B1)
	}
	if got.B2 != 5 {
		t.Fatalf("B2 = %v, expected 5", got.B2)
	}
	if got.B3 != 10 {
		t.Fatalf("B3 = %v, expected 10", got.B3)
	}
	// S8 = (10-2)/5.
	if math.Abs(got.S8-1.6) > 1e-12 {
		t.Fatalf("S8 = %v, expected 1.6", got.S8)
	}
	if got.H1 != 402 {
		t.Fatalf("H1 = %v, expected 402 (wavelength of the peak)", got.H1)
	}
	// Half-max is 6; the series crosses it between 401 (4) and 402 (10), a
	// third of the way along.
	if expected := 401 + 2.0/6.0; math.Abs(got.R50-expected) > 1e-12 {
		t.Fatalf("R50 = %v, expected %v", got.R50, expected)
	}
	if got.Median != 4 {
		t.Fatalf("Median = %v, expected 4", got.Median)
	}
}

func TestSummarizeFlatSeries(t *testing.T) {
	s, err := rspec.New([]float64{400, 401}, []string{"flat"}, [][]float64{{3, 3}})
	if err != nil {
		t.Fatal(err)
	}

	summaries, err := Summarize(s)
	if err != nil {
		t.Fatal(err)
	}

	if summaries[0].S8 != 0 {
		t.Fatalf("Flat series chroma %v, expected 0", summaries[0].S8)
	}
	if summaries[0].R50 != 400 {
		t.Fatalf("Flat series R50 %v, expected the lowest wavelength", summaries[0].R50)
	}
}

func TestWriteTSV(t *testing.T) {
	s, err := rspec.New([]float64{400, 401}, []string{"a", "b"}, [][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}

	summaries, err := Summarize(s)
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	if err := WriteTSV(buf, summaries); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Got %d lines, expected header plus 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "spec") {
		t.Fatalf("Header line %q should start with spec", lines[0])
	}
}
