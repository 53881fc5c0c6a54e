package aggspec

import (
	"math"
	"strings"
	"testing"

	"github.com/plumelab/chromisc/rspec"
)

func testTable(t *testing.T, names []string, series ...[]float64) *rspec.Spectra {
	t.Helper()

	wl := make([]float64, len(series[0]))
	for i := range wl {
		wl[i] = 300 + float64(i)
	}

	s, err := rspec.New(wl, names, series)
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func TestByLabels(t *testing.T) {
	s := testTable(t,
		[]string{"t1", "t2", "c1", "t3"},
		[]float64{1, 2}, []float64{3, 4}, []float64{10, 20}, []float64{5, 6},
	)

	res, err := ByLabels(s, []string{"tanager", "cardinal", "tanager", "cardinal"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// First-appearance order: tanager before cardinal.
	names := res.Summary.Names()
	if names[0] != "tanager" || names[1] != "cardinal" {
		t.Fatalf("Group order %v, expected [tanager cardinal]", names)
	}

	tanager, err := res.Summary.Series("tanager")
	if err != nil {
		t.Fatal(err)
	}
	// tanager = mean of t1 and c1: (1+10)/2, (2+20)/2.
	if tanager[0] != 5.5 || tanager[1] != 11 {
		t.Fatalf("tanager mean %v, expected [5.5 11]", tanager)
	}

	sd, err := res.SD.Series("tanager")
	if err != nil {
		t.Fatal(err)
	}
	// Sample SD of {1, 10} is 9/sqrt(2).
	if expected := 9 / math.Sqrt2; math.Abs(sd[0]-expected) > 1e-9 {
		t.Fatalf("tanager SD %v, expected %v", sd[0], expected)
	}
}

func TestByLabelsOrderInsensitiveValues(t *testing.T) {
	s := testTable(t,
		[]string{"a", "b", "c", "d"},
		[]float64{1, 1}, []float64{2, 2}, []float64{3, 3}, []float64{4, 4},
	)

	// Same grouping expressed with swapped label spellings: numeric results
	// must match because members keep table order either way.
	first, err := ByLabels(s, []string{"g1", "g2", "g1", "g2"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ByLabels(s, []string{"x", "y", "x", "y"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if first.Summary.SeriesAt(0)[0] != second.Summary.SeriesAt(0)[0] {
		t.Fatal("Relabeling the same grouping changed the numbers")
	}
}

func TestByLabelsLengthMismatch(t *testing.T) {
	s := testTable(t, []string{"a", "b"}, []float64{1, 2}, []float64{3, 4})
	if _, err := ByLabels(s, []string{"only-one"}, nil); err == nil {
		t.Fatal("Expected an error when labels do not cover every series")
	}
}

func TestByCount(t *testing.T) {
	s := testTable(t,
		[]string{"a1", "a2", "b1", "b2"},
		[]float64{1, 1}, []float64{3, 3}, []float64{10, 10}, []float64{20, 20},
	)

	res, err := ByCount(s, 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.Summary.NSpec() != 2 {
		t.Fatalf("Got %d groups, expected 2", res.Summary.NSpec())
	}
	if got := res.Summary.SeriesAt(0); got[0] != 2 {
		t.Fatalf("First group mean %v, expected 2", got[0])
	}
	if got := res.Summary.SeriesAt(1); got[0] != 15 {
		t.Fatalf("Second group mean %v, expected 15", got[0])
	}
}

func TestByCountIndivisible(t *testing.T) {
	s := testTable(t, []string{"a", "b", "c"}, []float64{1}, []float64{2}, []float64{3})
	if _, err := ByCount(s, 2, nil); err == nil {
		t.Fatal("Expected an error when k does not divide the series count")
	}
}

func TestCustomSummaryFunc(t *testing.T) {
	s := testTable(t,
		[]string{"a", "b"},
		[]float64{1, 5}, []float64{3, 9},
	)

	maxFn := func(vals []float64) float64 {
		out := math.Inf(-1)
		for _, v := range vals {
			if v > out {
				out = v
			}
		}
		return out
	}

	res, err := ByLabels(s, []string{"g", "g"}, maxFn)
	if err != nil {
		t.Fatal(err)
	}

	if got := res.Summary.SeriesAt(0); got[0] != 3 || got[1] != 9 {
		t.Fatalf("Max summary %v, expected [3 9]", got)
	}
	if res.SD != nil {
		t.Fatal("SD should only be computed for the default mean summary")
	}
}

func TestGroupFile(t *testing.T) {
	mapping, err := ReadGroupFile(strings.NewReader("spec,group\nt1,tanager\nc1,cardinal\n"))
	if err != nil {
		t.Fatal(err)
	}

	s := testTable(t, []string{"t1", "c1"}, []float64{1}, []float64{2})

	labels, err := LabelsFor(s, mapping)
	if err != nil {
		t.Fatal(err)
	}
	if labels[0] != "tanager" || labels[1] != "cardinal" {
		t.Fatalf("Labels %v, expected [tanager cardinal]", labels)
	}
}

func TestGroupFileMissingSeries(t *testing.T) {
	mapping := map[string]string{"t1": "tanager"}
	s := testTable(t, []string{"t1", "c1"}, []float64{1}, []float64{2})

	if _, err := LabelsFor(s, mapping); err == nil {
		t.Fatal("Expected an error for a series with no group assignment")
	}
}
