// specbrowse serves a read-only HTTP browser over a folder of spectra
// files: an index of everything importable, per-file summary tables, and
// overlay plots rendered to PNG on the fly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"strings"
	"syscall"

	"cloud.google.com/go/storage"

	_ "github.com/plumelab/chromisc/buildinfoprint"
)

var global *Global

func main() {
	errs := make(chan error, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig,
		os.Interrupt,
		os.Kill,
		syscall.SIGTERM,
	)

	var path, layout, ext string
	var port int
	flag.StringVar(&path, "path", "", "Folder containing spectrometer output files or spectra CSVs. May be a Google Storage URL (gs://).")
	flag.StringVar(&layout, "layout", "auto", "Vendor file layout, or auto.")
	flag.StringVar(&ext, "ext", "", "(Optional) Only list files with this extension.")
	flag.IntVar(&port, "port", 9019, "Port for HTTP server")
	flag.Parse()

	if path == "" {
		flag.PrintDefaults()
		return
	}

	path = strings.TrimSuffix(path, "/")

	var sclient *storage.Client
	var err error
	if strings.HasPrefix(path, "gs://") {
		sclient, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
	}

	global = &Global{
		Site:          "Specbrowse",
		log:           log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime),
		storageClient: sclient,

		SpectraRoot: path,
		Layout:      layout,
		Ext:         ext,
	}

	if err := global.RefreshFiles(); err != nil {
		log.Fatalln(err)
	}

	global.log.Println("Launching", global.Site, "over", path)

	if whoami, err := user.Current(); err == nil {
		if hostname, err := os.Hostname(); err == nil {
			global.log.Println("If remote, you should now run locally:")
			global.log.Printf("gcloud compute ssh %s@%s -- -NnT -L %d:localhost:%d\n", whoami.Username, hostname, port, port)
		}
	}

	go func() {
		handler, err := router(global)
		if err != nil {
			errs <- err
			return
		}

		global.log.Println("Starting HTTP server on port", port)
		if err := http.ListenAndServe(fmt.Sprintf(`:%d`, port), handler); err != nil {
			errs <- err
		}
	}()

	select {
	case sigl := <-sig:
		global.log.Printf("Exit: %s\n", sigl.String())
	case err := <-errs:
		global.log.Println("Exiting due to error", err)
		os.Exit(1)
	}
}
