package specparse

import (
	"path/filepath"
	"strings"
	"time"
)

// ParsedSpectrum is the raw result of parsing one vendor file: explicit
// wavelengths, one or more named value series of the same length, and
// whatever metadata the format carried.
type ParsedSpectrum struct {
	Wavelengths []float64
	Names       []string
	Series      [][]float64
	Meta        Metadata
}

// Metadata holds capture details scraped from a vendor file's header. Fields
// the format does not carry stay zero.
type Metadata struct {
	File string

	// CaptureDate is the acquisition timestamp, when the header declares
	// one.
	CaptureDate time.Time

	// IntegrationTimeUsec is the sensor integration time in microseconds.
	IntegrationTimeUsec float64

	// Spectrometer is the instrument model/serial line, verbatim.
	Spectrometer string
}

// seriesName derives the default series name for single-series vendor
// formats: the file's base name without its extension.
func seriesName(filename string) string {
	base := filepath.Base(filename)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
