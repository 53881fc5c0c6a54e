// Package rspec holds the tabular spectral dataset used throughout this
// module: a strictly increasing wavelength vector paired with one or more
// named reflectance series that share the wavelength domain. Every
// transformation returns a new Spectra; none mutates its receiver.
package rspec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
)

type Spectra struct {
	wl       []float64
	names    []string
	series   [][]float64
	warnings []string
}

// New validates and assembles a spectral table. The wavelength vector must
// strictly increase, every series must have one value per wavelength, and
// series names must be unique and nonempty.
func New(wl []float64, names []string, series [][]float64) (*Spectra, error) {
	if len(wl) == 0 {
		return nil, fmt.Errorf("rspec: no wavelengths provided")
	}
	if len(names) != len(series) {
		return nil, fmt.Errorf("rspec: %d names for %d series", len(names), len(series))
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("rspec: no reflectance series provided")
	}

	for i := 1; i < len(wl); i++ {
		if wl[i] <= wl[i-1] {
			return nil, fmt.Errorf("rspec: wavelengths must strictly increase, but wl[%d]=%v >= wl[%d]=%v", i-1, wl[i-1], i, wl[i])
		}
	}

	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("rspec: series %d has an empty name", i)
		}
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("rspec: duplicate series name %q", name)
		}
		seen[name] = struct{}{}

		if len(series[i]) != len(wl) {
			return nil, fmt.Errorf("rspec: series %q has %d values for %d wavelengths", name, len(series[i]), len(wl))
		}
	}

	out := &Spectra{
		wl:     append([]float64(nil), wl...),
		names:  append([]string(nil), names...),
		series: make([][]float64, 0, len(series)),
	}
	for _, col := range series {
		out.series = append(out.series, append([]float64(nil), col...))
	}

	return out, nil
}

// Len is the number of wavelength rows.
func (s *Spectra) Len() int { return len(s.wl) }

// NSpec is the number of reflectance series.
func (s *Spectra) NSpec() int { return len(s.series) }

// Wavelengths returns a copy of the wavelength vector.
func (s *Spectra) Wavelengths() []float64 {
	return append([]float64(nil), s.wl...)
}

// Names returns a copy of the series names, in table order.
func (s *Spectra) Names() []string {
	return append([]string(nil), s.names...)
}

// SeriesAt returns a copy of the i'th reflectance series.
func (s *Spectra) SeriesAt(i int) []float64 {
	return append([]float64(nil), s.series[i]...)
}

// Series returns a copy of the named reflectance series.
func (s *Spectra) Series(name string) ([]float64, error) {
	for i, n := range s.names {
		if n == name {
			return s.SeriesAt(i), nil
		}
	}

	return nil, fmt.Errorf("rspec: no series named %q (have: %s)", name, strings.Join(s.names, ", "))
}

// Warnings reports non-fatal conditions recorded while this table was built
// (e.g., a requested wavelength limit that exceeded the measured range).
func (s *Spectra) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

func (s *Spectra) addWarning(format string, args ...interface{}) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}

// Select returns a new table holding only the named series, in the order
// given.
func (s *Spectra) Select(names ...string) (*Spectra, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("rspec: Select requires at least one series name")
	}

	cols := make([][]float64, 0, len(names))
	for _, name := range names {
		col, err := s.Series(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	out, err := New(s.wl, names, cols)
	if err != nil {
		return nil, pfx.Err(err)
	}
	out.warnings = append([]string(nil), s.warnings...)

	return out, nil
}

// SelectMatching returns a new table holding every series whose name contains
// the given substring, preserving table order.
func (s *Spectra) SelectMatching(substring string) (*Spectra, error) {
	matched := []string{}
	for _, name := range s.names {
		if strings.Contains(name, substring) {
			matched = append(matched, name)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("rspec: no series name contains %q", substring)
	}

	return s.Select(matched...)
}

// Merge combines two tables that share an identical wavelength domain into
// one. Name collisions are suffixed with .1, .2, ... in encounter order.
func (s *Spectra) Merge(other *Spectra) (*Spectra, error) {
	if other == nil {
		return nil, fmt.Errorf("rspec: cannot merge a nil table")
	}
	if len(s.wl) != len(other.wl) {
		return nil, fmt.Errorf("rspec: wavelength domains differ in length (%d vs %d)", len(s.wl), len(other.wl))
	}
	for i := range s.wl {
		if s.wl[i] != other.wl[i] {
			return nil, fmt.Errorf("rspec: wavelength domains differ at index %d (%v vs %v)", i, s.wl[i], other.wl[i])
		}
	}

	names := append([]string(nil), s.names...)
	used := make(map[string]int, len(names))
	for _, n := range names {
		used[n] = 0
	}

	for _, n := range other.names {
		candidate := n
		if _, exists := used[candidate]; exists {
			for i := 1; ; i++ {
				candidate = fmt.Sprintf("%s.%d", n, i)
				if _, taken := used[candidate]; !taken {
					break
				}
			}
		}
		used[candidate] = 0
		names = append(names, candidate)
	}

	cols := make([][]float64, 0, len(names))
	cols = append(cols, s.series...)
	cols = append(cols, other.series...)

	out, err := New(s.wl, names, cols)
	if err != nil {
		return nil, pfx.Err(err)
	}
	out.warnings = append(append([]string(nil), s.warnings...), other.warnings...)

	return out, nil
}

// Apply returns a new table where fn has been applied to a copy of each
// series. The table's wavelengths and names carry over unchanged.
func (s *Spectra) Apply(fn func(wl, series []float64) []float64) (*Spectra, error) {
	cols := make([][]float64, 0, len(s.series))
	for i := range s.series {
		col := fn(s.Wavelengths(), s.SeriesAt(i))
		cols = append(cols, col)
	}

	out, err := New(s.wl, s.names, cols)
	if err != nil {
		return nil, pfx.Err(err)
	}
	out.warnings = append([]string(nil), s.warnings...)

	return out, nil
}

// SortedNames returns the series names in lexical order without disturbing
// table order.
func (s *Spectra) SortedNames() []string {
	out := s.Names()
	sort.Strings(out)

	return out
}
