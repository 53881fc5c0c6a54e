package main

import (
	"embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/gorilla/mux"
)

//go:embed templates
var embeddedTemplates embed.FS

const BaseFilename = "_base.html"

// handler provides global values that must be safe for concurrent use from
// multiple goroutines to each handler method.
type handler struct {
	*Global

	router *mux.Router

	// Mutex protected values
	mu       sync.RWMutex
	template map[string]*template.Template
}

// Template lazily parses the named page template on top of a clone of the
// base template, so the base is never contaminated by a page's define
// statements.
func (h *handler) Template(templateFilename string) *template.Template {
	h.mu.RLock()
	if h.template == nil {
		h.mu.RUnlock()
		h.mu.Lock()
		if h.template == nil {
			h.Global.log.Println("Initializing HTML templates")
			h.template = make(map[string]*template.Template)

			tpl, err := template.New(BaseFilename).ParseFS(embeddedTemplates, "templates/"+BaseFilename)
			if err != nil {
				h.mu.Unlock()
				panic(fmt.Errorf(`handler.go:Template: %s`, err))
			}
			h.template[BaseFilename] = tpl
		}
		h.mu.Unlock()
		h.mu.RLock()
	}

	if tpl, ok := h.template[templateFilename]; ok {
		h.mu.RUnlock()
		return tpl
	}
	h.mu.RUnlock()

	h.Global.log.Println("Initializing HTML template for", templateFilename)
	tpl, err := template.Must(h.baseClone()).ParseFS(embeddedTemplates, "templates/"+templateFilename)
	if err != nil {
		panic(fmt.Errorf(`handler.go:Template: %s`, err))
	}

	h.mu.Lock()
	h.template[templateFilename] = tpl
	h.mu.Unlock()

	return tpl
}

func (h *handler) baseClone() (*template.Template, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.template[BaseFilename].Clone()
}
