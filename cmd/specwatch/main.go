// specwatch watches a folder for newly arriving vendor spectrometer files
// and converts each one to a wide-format CSV as it lands. Useful while
// collecting: point the spectrometer software's export folder here and CSVs
// accumulate alongside.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/bulkspec"
)

// settleDelay is how long a file must sit unchanged before conversion, so
// that exports still being written are not read half-finished.
const settleDelay = 500 * time.Millisecond

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	start := time.Now()
	log.Println("specwatch start")
	defer func() {
		log.Printf("specwatch end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	var watchDir, outputDir, layout, ext string

	flag.StringVar(&watchDir, "path", "", "Folder to watch for arriving spectrometer output files.")
	flag.StringVar(&outputDir, "output", "", "Folder where converted CSVs will be written. Defaults to the watched folder.")
	flag.StringVar(&layout, "layout", "auto", "Vendor file layout, or auto.")
	flag.StringVar(&ext, "ext", "", "(Optional) Only convert files with this extension, e.g. .jaz")
	flag.Parse()

	if watchDir == "" {
		flag.Usage()
		os.Exit(1)
	}
	if outputDir == "" {
		outputDir = watchDir
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalln(err)
	}
	defer watcher.Close()

	if err := watcher.Add(watchDir); err != nil {
		log.Fatalln(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	log.Println("Watching", watchDir)

	// Writes arrive as bursts of Create/Write events; a per-file timer
	// resets on each event and fires once the file has settled.
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !keepFile(ev.Name, ext) {
				continue
			}

			path := ev.Name
			mu.Lock()
			if timer, ok := pending[path]; ok {
				timer.Stop()
			}
			pending[path] = time.AfterFunc(settleDelay, func() {
				mu.Lock()
				delete(pending, path)
				mu.Unlock()

				if err := convert(path, outputDir, layout); err != nil {
					log.Println("Skipped:", path+":", err)
					return
				}
				log.Println("Converted", path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Println("Watcher error:", err)

		case s := <-sig:
			log.Printf("Exit: %s\n", s.String())
			return
		}
	}
}

func keepFile(path, ext string) bool {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return false
	}
	if ext == "" {
		return true
	}

	return strings.EqualFold(filepath.Ext(path), ext)
}

func convert(path, outputDir, layout string) error {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return fmt.Errorf("Not a regular file")
	}

	s, _, err := bulkspec.ImportFile(path, bulkspec.Options{Layout: layout})
	if err != nil {
		return err
	}

	base := filepath.Base(path)
	outPath := filepath.Join(outputDir, strings.TrimSuffix(base, filepath.Ext(base))+".csv")

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}

	if err := s.WriteCSV(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
