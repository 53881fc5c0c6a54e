package specparse

import (
	"fmt"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/plumelab/chromisc"
)

// Parse converts one vendor file's bytes into a ParsedSpectrum. An empty or
// "auto" layoutName asks for detection from the filename and leading bytes.
func Parse(layoutName, filename string, data []byte) (*ParsedSpectrum, error) {
	return parseWith(layoutName, filename, data, nil)
}

// ParseForcingDecimal behaves like Parse but overrides the layout's decimal
// convention, for batches whose instrument locale differs from the format's
// default.
func ParseForcingDecimal(layoutName, filename string, data []byte, decimalComma bool) (*ParsedSpectrum, error) {
	return parseWith(layoutName, filename, data, &decimalComma)
}

func parseWith(layoutName, filename string, data []byte, decimalComma *bool) (*ParsedSpectrum, error) {
	if layoutName == "" || layoutName == "auto" {
		layoutName = DetectLayout(filename, data)
	}

	layout, found := Layouts[layoutName]
	if !found {
		return nil, fmt.Errorf("specparse: unknown layout %q. Valid layouts include: %s", layoutName, LayoutNames())
	}
	if decimalComma != nil {
		layout.DecimalComma = *decimalComma
	}

	out, err := (*layout.Parser)(&layout, filename, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}

	out.Meta.File = filename

	if err := out.validate(); err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}

	return out, nil
}

func (p *ParsedSpectrum) validate() error {
	if len(p.Wavelengths) == 0 {
		return fmt.Errorf("no spectral data rows found")
	}
	if len(p.Names) != len(p.Series) {
		return pfx.Err(fmt.Errorf("parser produced %d names for %d series", len(p.Names), len(p.Series)))
	}
	for i, col := range p.Series {
		if len(col) != len(p.Wavelengths) {
			return pfx.Err(fmt.Errorf("series %q has %d values for %d wavelengths", p.Names[i], len(col), len(p.Wavelengths)))
		}
	}

	return nil
}

// parseFloat parses one numeric token, honoring the layout's decimal
// separator.
func (l *Layout) parseFloat(token string) (float64, error) {
	decimal := '.'
	if l.DecimalComma {
		decimal = ','
	}

	return strconv.ParseFloat(chromisc.NormalizeDecimals(token, decimal), 64)
}

// numericRow reports whether every field in the row parses as a number under
// the layout's decimal convention.
func (l *Layout) numericRow(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if _, err := l.parseFloat(f); err != nil {
			return false
		}
	}

	return true
}
