package specparse

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// parseAvaSoft handles Avantes AvaSoft 8 table exports: semicolon-delimited,
// decimal-comma, with column-name and unit lines above the numbers. The last
// non-numeric line before the data supplies the series names when its field
// count matches.
var parseAvaSoft = func(layout *Layout, filename string, data []byte) (*ParsedSpectrum, error) {
	out := &ParsedSpectrum{}

	var lastHeader []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		fields := splitDelimited(line, layout.Delimiter)
		if len(fields) == 0 {
			continue
		}

		if !layout.numericRow(fields) {
			// The first header line carries the column names; later ones are
			// unit rows.
			if len(out.Wavelengths) == 0 && lastHeader == nil {
				lastHeader = fields
			}
			continue
		}

		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := layout.parseFloat(f)
			if err != nil {
				return nil, err
			}
			row[i] = v
		}

		if len(out.Series) == 0 {
			out.Series = make([][]float64, len(row)-1)
		}
		if len(row)-1 != len(out.Series) {
			return nil, fmt.Errorf("row has %d columns; expected %d", len(row), len(out.Series)+1)
		}

		out.Wavelengths = append(out.Wavelengths, row[0])
		for i, v := range row[1:] {
			out.Series[i] = append(out.Series[i], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out.Names = columnNames(lastHeader, filename, len(out.Series))

	return out, nil
}

func columnNames(header []string, filename string, nSeries int) []string {
	// The header row includes the wavelength column's name, and AvaSoft
	// prepends a timestamp column, so the series names are the header's last
	// nSeries fields when the field count lines up.
	if len(header) == nSeries+1 || len(header) == nSeries+2 {
		names := make([]string, nSeries)
		for i := range names {
			names[i] = strings.TrimSpace(header[len(header)-nSeries+i])
		}
		return names
	}

	if nSeries == 1 {
		return []string{seriesName(filename)}
	}

	names := make([]string, nSeries)
	for i := range names {
		names[i] = fmt.Sprintf("%s.%d", seriesName(filename), i+1)
	}

	return names
}
