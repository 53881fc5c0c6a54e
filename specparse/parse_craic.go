package specparse

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/araddon/dateparse"
)

// parseCraic handles CRAIC microspectrophotometer .txt exports: a handful of
// free-text header lines (instrument, timestamp), then two
// whitespace-separated numeric columns.
var parseCraic = func(layout *Layout, filename string, data []byte) (*ParsedSpectrum, error) {
	out := &ParsedSpectrum{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r"))
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || !layout.numericRow(fields) {
			if len(out.Wavelengths) == 0 {
				scrapeCraicHeader(line, &out.Meta)
			}
			continue
		}

		wl, err := layout.parseFloat(fields[0])
		if err != nil {
			return nil, err
		}
		val, err := layout.parseFloat(fields[1])
		if err != nil {
			return nil, err
		}

		out.Wavelengths = append(out.Wavelengths, wl)
		out.Series = appendValue(out.Series, val)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out.Names = []string{seriesName(filename)}

	return out, nil
}

func scrapeCraicHeader(line string, meta *Metadata) {
	if strings.Contains(line, "CRAIC") && meta.Spectrometer == "" {
		meta.Spectrometer = line
		return
	}

	// Header lines without a key are often a bare timestamp.
	if meta.CaptureDate.IsZero() {
		if t, err := dateparse.ParseAny(line); err == nil {
			meta.CaptureDate = t
		}
	}
}
