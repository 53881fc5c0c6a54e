// Package specparse parses vendor-specific spectrometer export formats into
// wavelength/reflectance columns. Each supported format is described by a
// Layout in the Layouts registry; DetectLayout picks one from the filename
// and leading bytes when the caller does not name one explicitly.
package specparse

import (
	"bytes"
	"path/filepath"
	"strings"
)

type Layout struct {
	// Extensions lists the lowercased filename extensions this layout
	// claims, dot included.
	Extensions []string

	Delimiter    rune
	DecimalComma bool

	// BeginSentinel and EndSentinel bracket the data block in formats that
	// carry a free-text metadata preamble.
	BeginSentinel string
	EndSentinel   string

	Parser *func(layout *Layout, filename string, data []byte) (*ParsedSpectrum, error)
}

var Layouts = map[string]Layout{
	// Ocean Optics SpectraSuite / OceanView text export: metadata header
	// terminated by a >>>>>Begin ...<<<<< sentinel, then tab-separated
	// wavelength/value rows.
	"oceanoptics": {
		Extensions:    []string{".txt", ".transmission", ".sco"},
		Delimiter:     '\t',
		BeginSentinel: ">>>>>Begin",
		EndSentinel:   ">>>>>End",
		Parser:        &parseSentinel,
	},
	// Jaz spectrometer module export: same sentinel framing, but the data
	// block holds W/D/S/P columns of which P is the processed value.
	"jaz": {
		Extensions:    []string{".jaz"},
		Delimiter:     '\t',
		BeginSentinel: ">>>>>Begin",
		EndSentinel:   ">>>>>End",
		Parser:        &parseSentinel,
	},
	"jazirrad": {
		Extensions:    []string{".jazirrad"},
		Delimiter:     '\t',
		BeginSentinel: ">>>>>Begin",
		EndSentinel:   ">>>>>End",
		Parser:        &parseSentinel,
	},
	// Ocean Optics .ProcSpec: a zip container holding an XML serialization
	// of the processed spectrum. The XML frequently declares a non-UTF8
	// charset.
	"procspec": {
		Extensions: []string{".procspec"},
		Parser:     &parseProcSpec,
	},
	// Avantes AvaSoft 8 table export: semicolon-delimited, decimal-comma,
	// column-name and unit header lines above the data.
	"avasoft": {
		Extensions:   []string{".ttt", ".trt", ".txt"},
		Delimiter:    ';',
		DecimalComma: true,
		Parser:       &parseAvaSoft,
	},
	// CRAIC microspectrophotometer .txt: free-text header lines, then two
	// whitespace-separated numeric columns.
	"craic": {
		Extensions: []string{".txt"},
		Parser:     &parseCraic,
	},
	// Legacy Excel workbook: first sheet, wavelength in the first column,
	// one reflectance series per remaining column.
	"xls": {
		Extensions: []string{".xls"},
		Parser:     &parseXLS,
	},
	// Delimiter-sniffed CSV/TSV with an optional header row.
	"generic": {
		Parser: &parseGeneric,
	},
}

func LayoutNames() string {
	b := strings.Builder{}
	i := 0
	for m := range Layouts {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(m)
		i++
	}

	return b.String()
}

// DetectLayout guesses the layout name for a file from its name and leading
// bytes. It falls back to "generic" rather than failing.
func DetectLayout(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".procspec":
		return "procspec"
	case ".jaz":
		return "jaz"
	case ".jazirrad":
		return "jazirrad"
	case ".xls":
		return "xls"
	case ".ttt", ".trt":
		return "avasoft"
	}

	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}

	if bytes.HasPrefix(head, []byte{0x50, 0x4b, 0x03, 0x04}) {
		return "procspec"
	}
	if bytes.Contains(head, []byte("Jaz Data File")) {
		return "jaz"
	}
	if bytes.Contains(head, []byte("SpectraSuite")) || bytes.Contains(head, []byte(">>>>>Begin")) {
		return "oceanoptics"
	}
	if bytes.Contains(head, []byte("CRAIC")) {
		return "craic"
	}
	if bytes.Contains(head, []byte("Avantes")) || bytes.Contains(head, []byte("AvaSoft")) {
		return "avasoft"
	}

	return "generic"
}
