package main

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/gorilla/mux"

	"github.com/plumelab/chromisc/bulkspec"
	"github.com/plumelab/chromisc/rspec"
	"github.com/plumelab/chromisc/specplot"
	"github.com/plumelab/chromisc/specsum"
)

func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	if err := h.Global.RefreshFiles(); err != nil {
		HTTPError(h, w, r, err)
		return
	}

	output := struct {
		Root  string
		Files []string
	}{
		h.Global.SpectraRoot,
		h.Global.Files(),
	}

	Render(h, w, r, h.Global.Site, "index.html", output)
}

func (h *handler) View(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]

	s, err := h.loadSpectra(name)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	summaries, err := specsum.Summarize(s)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	output := struct {
		File      string
		NSpec     int
		NWL       int
		Warnings  []string
		Summaries []specsum.Summary
	}{
		name,
		s.NSpec(),
		s.Len(),
		s.Warnings(),
		summaries,
	}

	Render(h, w, r, name, "view.html", output)
}

// PlotPNG renders the overlay plot for one file straight into the response.
func (h *handler) PlotPNG(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]

	s, err := h.loadSpectra(name)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := specplot.Overlay(s, w); err != nil {
		h.Global.log.Println(r.URL.Path+":", err)
	}
}

func (h *handler) SwatchPNG(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]

	s, err := h.loadSpectra(name)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := specplot.Swatches(s, w); err != nil {
		h.Global.log.Println(r.URL.Path+":", err)
	}
}

func (h *handler) Goroutines(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "%d goroutines are running\n", runtime.NumGoroutine())
}

func (h *handler) loadSpectra(name string) (*rspec.Spectra, error) {
	if !h.Global.HasFile(name) {
		return nil, fmt.Errorf("Unknown file %q", name)
	}

	path := h.Global.SpectraRoot + "/" + name

	s, _, err := bulkspec.ImportFile(path, bulkspec.Options{
		Layout: h.Global.Layout,
		Client: h.Global.storageClient,
	})

	return s, err
}
