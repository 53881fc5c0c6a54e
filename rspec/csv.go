package rspec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/plumelab/chromisc"
)

// ReadCSVOptions controls parsing of a delimited wide-format spectral table.
// Zero values ask for sniffing: the delimiter and decimal separator are then
// inferred from the file contents.
type ReadCSVOptions struct {
	Delimiter rune
	Decimal   rune
	As        AsOptions
}

// ReadCSV parses a wide-format delimited table (one wavelength column, one
// column per reflectance series) into a Spectra. The reader is consumed
// fully up front so that delimiter and decimal sniffing see the same bytes
// the parser does.
func ReadCSV(r io.Reader, opt ReadCSVOptions) (*Spectra, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("rspec: empty input")
	}

	if opt.Delimiter == 0 {
		opt.Delimiter = chromisc.DetermineDelimiter(bytes.NewReader(raw))
	}
	if opt.Decimal == 0 {
		opt.Decimal = chromisc.DetermineDecimalSeparator(bytes.NewReader(raw))
		if opt.Delimiter == ',' && opt.Decimal == ',' {
			// All-integer comma-delimited tables sniff as digit-comma-digit;
			// the comma there is the field separator, so decimals are dots.
			opt.Decimal = '.'
		}
	}
	if opt.Delimiter == ',' && opt.Decimal == ',' {
		return nil, fmt.Errorf("rspec: ',' cannot be both the delimiter and the decimal separator")
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = opt.Delimiter
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("rspec: table has %d rows; need a header or data plus at least one more row", len(rows))
	}

	headers, dataRows := splitHeader(rows, opt.Decimal)
	if len(dataRows) == 0 {
		return nil, fmt.Errorf("rspec: table contains a header but no data rows")
	}

	cols := make([][]float64, len(headers))
	for i := range cols {
		cols[i] = make([]float64, 0, len(dataRows))
	}

	for rowIdx, row := range dataRows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("rspec: row %d has %d fields; expected %d", rowIdx+1, len(row), len(headers))
		}
		for colIdx, field := range row {
			v, err := strconv.ParseFloat(chromisc.NormalizeDecimals(field, opt.Decimal), 64)
			if err != nil {
				return nil, fmt.Errorf("rspec: row %d, column %q: %v", rowIdx+1, headers[colIdx], err)
			}
			cols[colIdx] = append(cols[colIdx], v)
		}
	}

	return AsSpectra(cols, headers, opt.As)
}

// splitHeader decides whether the first row is a header. A row where any
// field fails to parse as a number is a header; otherwise names are
// synthesized.
func splitHeader(rows [][]string, decimal rune) ([]string, [][]string) {
	first := rows[0]

	numericFirstRow := true
	for _, field := range first {
		if _, err := strconv.ParseFloat(chromisc.NormalizeDecimals(field, decimal), 64); err != nil {
			numericFirstRow = false
			break
		}
	}

	if numericFirstRow {
		headers := make([]string, len(first))
		for i := range headers {
			headers[i] = fmt.Sprintf("spec%d", i+1)
		}
		return headers, rows
	}

	return first, rows[1:]
}

// WriteCSV writes the table in wide format: a "wl" column followed by one
// column per series, comma-delimited with dot decimals.
func (s *Spectra) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"wl"}, s.names...)
	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}

	row := make([]string, 1+len(s.series))
	for i, wl := range s.wl {
		row[0] = strconv.FormatFloat(wl, 'g', -1, 64)
		for j := range s.series {
			row[j+1] = strconv.FormatFloat(s.series[j][i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return pfx.Err(err)
		}
	}

	cw.Flush()

	return pfx.Err(cw.Error())
}

// LongRow is one observation in tidy (long) format, for downstream tools
// that prefer one measurement per row.
type LongRow struct {
	Series      string  `csv:"spec"`
	Wavelength  float64 `csv:"wl"`
	Reflectance float64 `csv:"reflectance"`
}

// LongRows flattens the table into tidy rows, series-major.
func (s *Spectra) LongRows() []*LongRow {
	out := make([]*LongRow, 0, len(s.names)*len(s.wl))
	for j, name := range s.names {
		for i, wl := range s.wl {
			out = append(out, &LongRow{
				Series:      name,
				Wavelength:  wl,
				Reflectance: s.series[j][i],
			})
		}
	}

	return out
}

// WriteLongCSV writes the table in tidy format with a spec/wl/reflectance
// header.
func (s *Spectra) WriteLongCSV(w io.Writer) error {
	return gocsv.Marshal(s.LongRows(), w)
}
