package specparse

import (
	"archive/zip"
	"bytes"
	"math"
	"strings"
	"testing"
)

const oceanOpticsFile = `SpectraSuite Data File
++++++++++++++++++++++++++++++++++++
Date: Fri Jan 26 10:02:22 GMT 2018
User: lab
Spectrometer: USB2E7196
Integration Time (usec): 100000 (USB2E7196)
Number of Pixels in Processed Spectrum: 4
>>>>>Begin Processed Spectral Data<<<<<
300.00	12.5
301.00	13.0
302.00	13.5
303.00	14.0
>>>>>End Processed Spectral Data<<<<<
`

func TestOceanOpticsLayout(t *testing.T) {
	parsed, err := Parse("oceanoptics", "tanager.txt", []byte(oceanOpticsFile))
	if err != nil {
		t.Fatal(err)
	}

	if len(parsed.Wavelengths) != 4 {
		t.Fatalf("Parsed %d rows, expected 4", len(parsed.Wavelengths))
	}
	if parsed.Names[0] != "tanager" {
		t.Fatalf("Series name %q, expected tanager", parsed.Names[0])
	}
	if parsed.Series[0][2] != 13.5 {
		t.Fatalf("Value %v at row 2, expected 13.5", parsed.Series[0][2])
	}
	if parsed.Meta.IntegrationTimeUsec != 100000 {
		t.Fatalf("Integration time %v, expected 100000", parsed.Meta.IntegrationTimeUsec)
	}
	if parsed.Meta.Spectrometer != "USB2E7196" {
		t.Fatalf("Spectrometer %q, expected USB2E7196", parsed.Meta.Spectrometer)
	}
	if parsed.Meta.CaptureDate.Year() != 2018 {
		t.Fatalf("Capture year %d, expected 2018", parsed.Meta.CaptureDate.Year())
	}
}

const jazFile = `Jaz Data File
Date: Tue Jun 05 09:00:00 GMT 2018
>>>>>Begin Spectral Data<<<<<
W	D	S	P
350.0	120	890	0.12
351.0	121	892	0.13
>>>>>End Spectral Data<<<<<
`

func TestJazProcessedColumn(t *testing.T) {
	parsed, err := Parse("jaz", "wing.jaz", []byte(jazFile))
	if err != nil {
		t.Fatal(err)
	}

	// The processed (P) column is the value, not dark or sample counts.
	if got := parsed.Series[0]; got[0] != 0.12 || got[1] != 0.13 {
		t.Fatalf("Processed column %v, expected [0.12 0.13]", got)
	}
	if parsed.Wavelengths[1] != 351 {
		t.Fatalf("Wavelength %v at row 1, expected 351", parsed.Wavelengths[1])
	}
}

const avaSoftFile = `Timestamp;Wave;Sample1;Sample2
;[nm];[%];[%]
;350,31;12,5;20,0
;351,12;13,0;21,5
`

func TestAvaSoftDecimalComma(t *testing.T) {
	// AvaSoft exports lead each row with an empty timestamp field; the
	// splitter drops empties, so the first field is the wavelength.
	parsed, err := Parse("avasoft", "beetle.ttt", []byte(avaSoftFile))
	if err != nil {
		t.Fatal(err)
	}

	if len(parsed.Series) != 2 {
		t.Fatalf("Parsed %d series, expected 2", len(parsed.Series))
	}
	if parsed.Names[0] != "Sample1" || parsed.Names[1] != "Sample2" {
		t.Fatalf("Names %v, expected [Sample1 Sample2]", parsed.Names)
	}
	if math.Abs(parsed.Wavelengths[0]-350.31) > 1e-9 {
		t.Fatalf("Wavelength %v, expected 350.31", parsed.Wavelengths[0])
	}
	if parsed.Series[1][1] != 21.5 {
		t.Fatalf("Sample2 row 1 = %v, expected 21.5", parsed.Series[1][1])
	}
}

const craicFile = `CRAIC 508 PV
6/5/2018 9:00:00 AM
Reflectance
350.1 12.5
351.2 13.0
`

func TestCraicLayout(t *testing.T) {
	parsed, err := Parse("craic", "elytra.txt", []byte(craicFile))
	if err != nil {
		t.Fatal(err)
	}

	if len(parsed.Wavelengths) != 2 {
		t.Fatalf("Parsed %d rows, expected 2", len(parsed.Wavelengths))
	}
	if parsed.Meta.Spectrometer != "CRAIC 508 PV" {
		t.Fatalf("Spectrometer %q, expected the CRAIC header line", parsed.Meta.Spectrometer)
	}
	if parsed.Meta.CaptureDate.IsZero() {
		t.Fatal("Expected the timestamp header line to populate the capture date")
	}
}

const genericFile = `wl,crown,breast
300,5.1,8.9
301,5.2,9.0
302,5.3,9.1
`

func TestGenericLayout(t *testing.T) {
	parsed, err := Parse("generic", "bird.csv", []byte(genericFile))
	if err != nil {
		t.Fatal(err)
	}

	if len(parsed.Names) != 2 || parsed.Names[0] != "crown" || parsed.Names[1] != "breast" {
		t.Fatalf("Names %v, expected [crown breast]", parsed.Names)
	}
	if parsed.Series[1][2] != 9.1 {
		t.Fatalf("breast row 2 = %v, expected 9.1", parsed.Series[1][2])
	}
}

func TestGenericLayoutAllIntegerCommaDelimited(t *testing.T) {
	// No dots anywhere, so the decimal sniffer sees digit-comma-digit; the
	// comma is the field separator and must not be taken for a decimal comma.
	file := "wl,crown\n300,1\n301,2\n302,3\n"

	parsed, err := Parse("generic", "bird.csv", []byte(file))
	if err != nil {
		t.Fatal(err)
	}

	if len(parsed.Series) != 1 || parsed.Series[0][2] != 3 {
		t.Fatalf("Series %v, expected [[1 2 3]]", parsed.Series)
	}
}

func TestDetectLayout(t *testing.T) {
	for _, v := range []struct {
		filename string
		data     string
		expected string
	}{
		{"a.jaz", "", "jaz"},
		{"a.JazIrrad", "", "jazirrad"},
		{"a.ProcSpec", "", "procspec"},
		{"a.xls", "", "xls"},
		{"a.ttt", "", "avasoft"},
		{"a.txt", oceanOpticsFile, "oceanoptics"},
		{"a.txt", craicFile, "craic"},
		{"a.txt", "Avantes AvaSoft Export\n1;2\n", "avasoft"},
		{"a.csv", genericFile, "generic"},
		{"a.bin", "PK\x03\x04junk", "procspec"},
	} {
		if got := DetectLayout(v.filename, []byte(v.data)); got != v.expected {
			t.Fatalf("DetectLayout(%q): got %q, expected %q", v.filename, got, v.expected)
		}
	}
}

func TestProcSpecContainer(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<sourceSpectra>
  <spectrometerSerialNumber>USB2E7196</spectrometerSerialNumber>
  <acquisitionTime>1528189200000</acquisitionTime>
  <channelWavelengths>
    <double>400.0</double>
    <double>401.0</double>
    <double>402.0</double>
  </channelWavelengths>
  <processedPixels>
    <double>0.11</double>
    <double>0.12</double>
    <double>0.13</double>
  </processedPixels>
</sourceSpectra>`

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("spectrum0.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	parsed, err := Parse("procspec", "spot.ProcSpec", buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	if len(parsed.Wavelengths) != 3 || parsed.Wavelengths[2] != 402 {
		t.Fatalf("Wavelengths %v, expected [400 401 402]", parsed.Wavelengths)
	}
	if parsed.Series[0][1] != 0.12 {
		t.Fatalf("Pixel 1 = %v, expected 0.12", parsed.Series[0][1])
	}
	if parsed.Meta.Spectrometer != "USB2E7196" {
		t.Fatalf("Spectrometer %q, expected USB2E7196", parsed.Meta.Spectrometer)
	}
	if parsed.Meta.CaptureDate.Year() != 2018 {
		t.Fatalf("Capture year %d, expected 2018", parsed.Meta.CaptureDate.Year())
	}
}

func TestUnknownLayout(t *testing.T) {
	_, err := Parse("spectrasuite9000", "a.txt", []byte(genericFile))
	if err == nil || !strings.Contains(err.Error(), "unknown layout") {
		t.Fatalf("Expected an unknown-layout error, got %v", err)
	}
}

func TestSentinelMissing(t *testing.T) {
	_, err := Parse("oceanoptics", "a.txt", []byte("no data here\n"))
	if err == nil {
		t.Fatal("Expected an error for a file with no begin sentinel")
	}
}
