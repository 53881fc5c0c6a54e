// Package specplot renders spectral tables to PNG: overlay and stacked line
// plots, aggregate plots with dispersion bands, wavelength heatmaps, and
// perceptual-colour swatch strips.
package specplot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/plumelab/chromisc/rspec"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	plotWidth  = 1024
	plotHeight = 512
)

// seriesPalette cycles through a fixed set of stroke colours.
var seriesPalette = []drawing.Color{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 255},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
	{R: 0xd6, G: 0x27, B: 0x28, A: 255},
	{R: 0x94, G: 0x67, B: 0xbd, A: 255},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 255},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 255},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 255},
}

func strokeFor(i int) drawing.Color {
	return seriesPalette[i%len(seriesPalette)]
}

// Overlay draws every series on shared axes.
func Overlay(s *rspec.Spectra, w io.Writer) error {
	wl := s.Wavelengths()

	series := make([]chart.Series, 0, s.NSpec())
	for i, name := range s.Names() {
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: wl,
			YValues: s.SeriesAt(i),
			Style: chart.Style{
				StrokeColor: strokeFor(i),
				StrokeWidth: 1.5,
			},
		})
	}

	graph := chart.Chart{
		Width:  plotWidth,
		Height: plotHeight,
		XAxis: chart.XAxis{
			Name: "Wavelength (nm)",
		},
		YAxis: chart.YAxis{
			Name: "Reflectance",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return render(graph, w)
}

// Stacked draws each series offset vertically by its index times the
// tallest series' range, so curves do not overprint.
func Stacked(s *rspec.Spectra, w io.Writer) error {
	wl := s.Wavelengths()

	offset := 0.0
	for i := 0; i < s.NSpec(); i++ {
		if r := seriesRange(s.SeriesAt(i)); r > offset {
			offset = r
		}
	}
	if offset == 0 {
		offset = 1
	}

	series := make([]chart.Series, 0, s.NSpec())
	for i, name := range s.Names() {
		vals := s.SeriesAt(i)
		for j := range vals {
			vals[j] += offset * float64(i)
		}

		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: wl,
			YValues: vals,
			Style: chart.Style{
				StrokeColor: strokeFor(i),
				StrokeWidth: 1.5,
			},
		})
	}

	graph := chart.Chart{
		Width:  plotWidth,
		Height: plotHeight,
		XAxis: chart.XAxis{
			Name: "Wavelength (nm)",
		},
		YAxis: chart.YAxis{
			Name: "Reflectance (stacked)",
		},
		Series: series,
	}

	return render(graph, w)
}

// Aggregate draws group means with a dashed band at one standard deviation;
// sd may be nil to draw the means alone. mean and sd come from the
// aggregator and share names and wavelengths.
func Aggregate(mean, sd *rspec.Spectra, w io.Writer) error {
	wl := mean.Wavelengths()

	series := make([]chart.Series, 0, 3*mean.NSpec())
	for i, name := range mean.Names() {
		stroke := strokeFor(i)

		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: wl,
			YValues: mean.SeriesAt(i),
			Style: chart.Style{
				StrokeColor: stroke,
				StrokeWidth: 2,
			},
		})

		if sd == nil {
			continue
		}

		sdVals, err := sd.Series(name)
		if err != nil {
			return fmt.Errorf("specplot: %v", err)
		}

		meanVals := mean.SeriesAt(i)
		upper := make([]float64, len(meanVals))
		lower := make([]float64, len(meanVals))
		for j := range meanVals {
			upper[j] = meanVals[j] + sdVals[j]
			lower[j] = meanVals[j] - sdVals[j]
		}

		bandStyle := chart.Style{
			StrokeColor:     stroke,
			StrokeWidth:     1,
			StrokeDashArray: []float64{4, 4},
		}
		series = append(series,
			chart.ContinuousSeries{XValues: wl, YValues: upper, Style: bandStyle},
			chart.ContinuousSeries{XValues: wl, YValues: lower, Style: bandStyle},
		)
	}

	graph := chart.Chart{
		Width:  plotWidth,
		Height: plotHeight,
		XAxis: chart.XAxis{
			Name: "Wavelength (nm)",
		},
		YAxis: chart.YAxis{
			Name: "Reflectance",
		},
		Series: series,
	}

	return render(graph, w)
}

func seriesRange(vals []float64) float64 {
	min, max := vals[0], vals[0]
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return max - min
}

func render(graph chart.Chart, w io.Writer) error {
	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	_, err := buffer.WriteTo(w)

	return err
}
