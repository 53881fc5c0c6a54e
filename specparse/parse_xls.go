package specparse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

// parseXLS handles legacy Excel workbooks: first sheet, wavelength in the
// first column, one reflectance series per remaining column. A non-numeric
// first row supplies the series names.
var parseXLS = func(layout *Layout, filename string, data []byte) (*ParsedSpectrum, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook holds no sheets")
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook's first sheet was nil")
	}

	out := &ParsedSpectrum{}
	var header []string

	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := sheet.Row(rowID)
		if row == nil {
			continue
		}

		fields := make([]string, 0, row.LastCol()+1)
		for colID := row.FirstCol(); colID <= row.LastCol(); colID++ {
			fields = append(fields, strings.TrimSpace(row.Col(colID)))
		}
		if len(fields) < 2 {
			continue
		}

		if !layout.numericRow(fields) {
			if len(out.Wavelengths) == 0 {
				header = fields
			}
			continue
		}

		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := layout.parseFloat(f)
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
