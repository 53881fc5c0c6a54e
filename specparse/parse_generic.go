package specparse

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/plumelab/chromisc"
)

// parseGeneric handles any delimited wavelength-plus-series table whose
// format no vendor layout claims. The delimiter and decimal separator are
// sniffed unless the layout pins them.
var parseGeneric = func(layout *Layout, filename string, data []byte) (*ParsedSpectrum, error) {
	delimiter := layout.Delimiter
	if delimiter == 0 {
		delimiter = chromisc.DetermineDelimiter(bytes.NewReader(data))
	}

	working := *layout
	working.Delimiter = delimiter
	if !working.DecimalComma {
		// Sniffed decimal only; all-integer comma-delimited tables sniff as
		// digit-comma-digit, but that comma is the field separator.
		working.DecimalComma = chromisc.DetermineDecimalSeparator(bytes.NewReader(data)) == ',' &&
			working.Delimiter != ','
	}
	if working.Delimiter == ',' && working.DecimalComma {
		return nil, fmt.Errorf("',' cannot be both the delimiter and the decimal separator")
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = working.Delimiter
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	out := &ParsedSpectrum{}
	var header []string

	for rowID, fields := range rows {
		if len(fields) < 2 {
			continue
		}

		if !working.numericRow(fields) {
			if len(out.Wavelengths) == 0 {
				header = fields
			}
			continue
		}

		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := working.parseFloat(f)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}

		if len(out.Series) == 0 {
			out.Series = make([][]float64, len(vals)-1)
		}
		if len(vals)-1 != len(out.Series) {
			return nil, fmt.Errorf("row %d has %d columns; expected %d", rowID+1, len(vals), len(out.Series)+1)
		}

		out.Wavelengths = append(out.Wavelengths, vals[0])
		for i, v := range vals[1:] {
			out.Series[i] = append(out.Series[i], v)
		}
	}

	out.Names = columnNames(header, filename, len(out.Series))

	return out, nil
}
