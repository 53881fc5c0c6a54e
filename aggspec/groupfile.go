package aggspec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/plumelab/chromisc"
	"github.com/plumelab/chromisc/rspec"
)

// GroupRow maps one series name to its group label in a grouping file.
type GroupRow struct {
	Series string `csv:"spec"`
	Group  string `csv:"group"`
}

// ReadGroupFile parses a two-column spec/group file (comma- or
// tab-delimited) into a series-to-group mapping.
func ReadGroupFile(r io.Reader) (map[string]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delimiter := chromisc.DetermineDelimiter(bytes.NewReader(raw))

	// Tell gocsv to use the sniffed delimiter
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = delimiter
		cr.LazyQuotes = true
		return cr
	})

	rows := []*GroupRow{}
	if err := gocsv.UnmarshalBytes(raw, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Series == "" {
			continue
		}
		if prior, seen := out[row.Series]; seen && prior != row.Group {
			return nil, fmt.Errorf("aggspec: series %q is assigned to both group %q and group %q", row.Series, prior, row.Group)
		}
		out[row.Series] = row.Group
	}

	return out, nil
}

// LabelsFor turns a series-to-group mapping into the per-series label vector
// ByLabels expects, in table order. Every series must be covered.
func LabelsFor(s *rspec.Spectra, mapping map[string]string) ([]string, error) {
	out := make([]string, 0, s.NSpec())
	for _, name := range s.Names() {
		label, found := mapping[name]
		if !found {
			return nil, fmt.Errorf("aggspec: series %q has no group assignment", name)
		}
		out = append(out, label)
	}

	return out, nil
}
