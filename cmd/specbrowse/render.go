package main

import (
	"net/http"
)

type Page struct {
	Title string
	Site  string
	Data  interface{}
}

func Render(h *handler, w http.ResponseWriter, r *http.Request, title string, tpl string, data interface{}) {
	page := Page{
		Title: title,
		Site:  h.Global.Site,
		Data:  data,
	}

	if err := h.Template(tpl).Execute(w, page); err != nil {
		HTTPError(h, w, r, err)
	}
}

func HTTPError(h *handler, w http.ResponseWriter, r *http.Request, err error, code ...int) {
	status := http.StatusInternalServerError
	for _, c := range code {
		status = c
		break
	}

	h.Global.log.Println(r.URL.Path+":", err)
	http.Error(w, http.StatusText(status)+": "+err.Error(), status)
}
