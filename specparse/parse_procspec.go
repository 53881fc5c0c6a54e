package specparse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// parseProcSpec handles Ocean Optics .ProcSpec files: a zip container whose
// payload is an XML serialization of the processed spectrum. The XML often
// declares a non-UTF8 charset, so the decoder is routed through
// charset.NewReaderLabel the same way other XML vendor exports are handled.
var parseProcSpec = func(layout *Layout, filename string, data []byte) (*ParsedSpectrum, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a .ProcSpec zip container: %v", err)
	}

	var xmlBytes []byte
	for _, entry := range zr.File {
		if strings.HasSuffix(strings.ToLower(entry.Name), ".xml") {
			rc, err := entry.Open()
			if err != nil {
				return nil, err
			}
			xmlBytes, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, err
			}
			break
		}
	}
	if xmlBytes == nil {
		return nil, fmt.Errorf("zip container holds no XML document")
	}

	out, err := parseProcSpecXML(xmlBytes)
	if err != nil {
		return nil, err
	}

	out.Names = []string{seriesName(filename)}

	return out, nil
}

// parseProcSpecXML walks the document's tokens rather than unmarshaling into
// a fixed struct: the serialization is a deep Java object graph whose exact
// nesting varies across SpectraSuite versions, but the wavelength and
// processed-pixel arrays are always flat runs of <double> elements under
// recognizable parents.
func parseProcSpecXML(xmlBytes []byte) (*ParsedSpectrum, error) {
	decoder := xml.NewDecoder(bytes.NewReader(xmlBytes))
	decoder.CharsetReader = charset.NewReaderLabel

	out := &ParsedSpectrum{}

	// section tracks which numeric array the <double> run belongs to.
	section := ""
	element := ""
	var wl, px []float64

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch v := token.(type) {
		case xml.StartElement:
			element = v.Name.Local
			switch v.Name.Local {
			case "channelWavelengths", "wavelengths":
				section = "wavelengths"
			case "processedPixels", "pixelValues", "spectrum":
				section = "pixels"
			}
		case xml.EndElement:
			element = ""
			switch v.Name.Local {
			case "channelWavelengths", "wavelengths", "processedPixels", "pixelValues", "spectrum":
				section = ""
			}
		case xml.CharData:
			text := strings.TrimSpace(string(v))
			if text == "" {
				continue
			}

			switch {
			case element == "double" && section == "wavelengths":
				f, err := strconv.ParseFloat(text, 64)
				if err != nil {
					return nil, err
				}
				wl = append(wl, f)
			case element == "double" && section == "pixels":
				f, err := strconv.ParseFloat(text, 64)
				if err != nil {
					return nil, err
				}
				px = append(px, f)
			case element == "integrationTime":
				if f, err := strconv.ParseFloat(text, 64); err == nil {
					out.Meta.IntegrationTimeUsec = f
				}
			case element == "spectrometerSerialNumber":
				out.Meta.Spectrometer = text
			case element == "acquisitionTime" || element == "milliTime":
				if ms, err := strconv.ParseInt(text, 10, 64); err == nil && ms > 0 {
					out.Meta.CaptureDate = time.UnixMilli(ms).UTC()
				}
			}
		}
	}

	if len(wl) == 0 || len(px) == 0 {
		return nil, fmt.Errorf("XML document holds no wavelength/pixel arrays")
	}
	if len(px) != len(wl) {
		return nil, fmt.Errorf("XML document holds %d pixels for %d wavelengths", len(px), len(wl))
	}

	out.Wavelengths = wl
	out.Series = [][]float64{px}

	return out, nil
}
