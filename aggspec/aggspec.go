// Package aggspec averages replicate reflectance measurements into per-unit
// or per-group summaries. Groups are ordered by first appearance in the
// table, never by map iteration, so a reshuffled grouping key cannot change
// the output beyond floating-point summation order.
package aggspec

import (
	"fmt"

	"github.com/carbocation/runningvariance"
	"github.com/plumelab/chromisc/rspec"
)

// SummaryFunc reduces one group's values at a single wavelength. The default
// is the mean.
type SummaryFunc func([]float64) float64

func Mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}

	return sum / float64(len(vals))
}

// Result is an aggregation: one summary series per group, plus the
// per-wavelength standard deviation of each group when the summary is the
// mean (nil otherwise).
type Result struct {
	Summary *rspec.Spectra
	SD      *rspec.Spectra
}

// ByLabels aggregates with one label per input series; series sharing a
// label form a group. The output's groups follow first-appearance order. A
// nil fn means the mean, in which case the per-wavelength SD is also
// computed.
func ByLabels(s *rspec.Spectra, labels []string, fn SummaryFunc) (*Result, error) {
	if len(labels) != s.NSpec() {
		return nil, fmt.Errorf("aggspec: %d labels for %d series", len(labels), s.NSpec())
	}
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("aggspec: series %q has an empty group label", s.Names()[i])
		}
	}

	// First-appearance group order.
	order := []string{}
	members := map[string][]int{}
	for i, label := range labels {
		if _, seen := members[label]; !seen {
			order = append(order, label)
		}
		members[label] = append(members[label], i)
	}

	return aggregate(s, order, func(group string) []int { return members[group] }, fn)
}

// ByCount aggregates every k consecutive series into one group, named after
// the group's first series. The series count must divide evenly by k.
func ByCount(s *rspec.Spectra, k int, fn SummaryFunc) (*Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("aggspec: group size %d must be positive", k)
	}
	if s.NSpec()%k != 0 {
		return nil, fmt.Errorf("aggspec: %d series do not divide into groups of %d", s.NSpec(), k)
	}

	names := s.Names()
	order := []string{}
	members := map[string][]int{}
	for start := 0; start < s.NSpec(); start += k {
		label := names[start]
		order = append(order, label)
		for i := start; i < start+k; i++ {
			members[label] = append(members[label], i)
		}
	}

	return aggregate(s, order, func(group string) []int { return members[group] }, fn)
}

func aggregate(s *rspec.Spectra, order []string, membersOf func(string) []int, fn SummaryFunc) (*Result, error) {
	wantSD := fn == nil
	if fn == nil {
		fn = Mean
	}

	wl := s.Wavelengths()

	summaryCols := make([][]float64, 0, len(order))
	sdCols := make([][]float64, 0, len(order))
	for _, group := range order {
		idx := membersOf(group)

		cols := make([][]float64, len(idx))
		for j, i := range idx {
			cols[j] = s.SeriesAt(i)
		}

		summary := make([]float64, len(wl))
		sd := make([]float64, len(wl))
		vals := make([]float64, len(idx))
		for w := range wl {
			rv := runningvariance.NewRunningStat()
			for j := range idx {
				vals[j] = cols[j][w]
				rv.Push(vals[j])
			}
			summary[w] = fn(vals)
			sd[w] = rv.StandardDeviation()
		}

		summaryCols = append(summaryCols, summary)
		sdCols = append(sdCols, sd)
	}

	out := &Result{}
	var err error
	if out.Summary, err = rspec.New(wl, order, summaryCols); err != nil {
		return nil, err
	}
	if wantSD {
		if out.SD, err = rspec.New(wl, order, sdCols); err != nil {
			return nil, err
		}
	}

	return out, nil
}
