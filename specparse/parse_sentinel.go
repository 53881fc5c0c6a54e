package specparse

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
)

// parseSentinel handles the Ocean Optics family of text exports
// (SpectraSuite, OceanView, Jaz): free-text metadata header lines, a
// >>>>>Begin ...<<<<< sentinel, delimited data rows, and an optional
// >>>>>End ...<<<<< sentinel. Jaz files carry W/D/S/P columns; the processed
// (last) column is the reflectance value.
var parseSentinel = func(layout *Layout, filename string, data []byte) (*ParsedSpectrum, error) {
	out := &ParsedSpectrum{}

	inData := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if !inData {
			if strings.HasPrefix(line, layout.BeginSentinel) {
				inData = true
				continue
			}
			scrapeHeaderLine(line, &out.Meta)
			continue
		}

		if layout.EndSentinel != "" && strings.HasPrefix(line, layout.EndSentinel) {
			break
		}

		fields := splitDelimited(line, layout.Delimiter)
		if len(fields) < 2 {
			continue
		}
		// A column-name row (e.g. Jaz's "W  D  S  P") sits between the
		// sentinel and the numbers.
		if !layout.numericRow(fields) {
			continue
		}

		wl, err := layout.parseFloat(fields[0])
		if err != nil {
			return nil, err
		}
		// The processed value is the last column; two-column exports are
		// wavelength/value pairs already.
		val, err := layout.parseFloat(fields[len(fields)-1])
		if err != nil {
			return nil, err
		}

		out.Wavelengths = append(out.Wavelengths, wl)
		out.Series = appendValue(out.Series, val)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !inData {
		return nil, fmt.Errorf("no %q sentinel found", layout.BeginSentinel)
	}

	out.Names = []string{seriesName(filename)}

	return out, nil
}

// scrapeHeaderLine pulls capture metadata out of one "Key: value" header
// line. Unknown keys are ignored.
func scrapeHeaderLine(line string, meta *Metadata) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return
	}
	value = strings.TrimSpace(value)

	switch {
	case strings.EqualFold(strings.TrimSpace(key), "Date"):
		if t, err := dateparse.ParseAny(value); err == nil {
			meta.CaptureDate = t
		}
	case strings.HasPrefix(key, "Integration Time"):
		// "Integration Time (usec): 100000 (USB2E7196)"
		fields := strings.Fields(value)
		if len(fields) > 0 {
			var usec float64
			if _, err := fmt.Sscanf(fields[0], "%f", &usec); err == nil {
				if strings.Contains(key, "(sec)") {
					usec *= 1e6
				}
				meta.IntegrationTimeUsec = usec
			}
		}
	case strings.HasPrefix(key, "Spectrometer"):
		if meta.Spectrometer == "" {
			meta.Spectrometer = value
		}
	}
}

// splitDelimited splits on the layout delimiter, falling back to any
// whitespace: vendor exports are inconsistent about separating columns with
// tabs versus runs of spaces.
func splitDelimited(line string, delimiter rune) []string {
	var raw []string
	if delimiter == '\t' || delimiter == 0 {
		raw = strings.Fields(line)
	} else {
		raw = strings.Split(line, string(delimiter))
	}

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}

	return out
}

// appendValue grows a single-series column set one value at a time.
func appendValue(series [][]float64, v float64) [][]float64 {
	if len(series) == 0 {
		series = [][]float64{{}}
	}
	series[0] = append(series[0], v)

	return series
}
