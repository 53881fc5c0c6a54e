// speclib maintains a local SQLite catalog of imported spectra. Importing
// records each file's content hash, layout, capture metadata, and headline
// colourimetric summaries per series; re-importing an unchanged file is a
// no-op.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	_ "github.com/plumelab/chromisc/buildinfoprint"
	"github.com/plumelab/chromisc/bulkspec"
	"github.com/plumelab/chromisc/speclib"
	"github.com/plumelab/chromisc/specparse"
	"github.com/plumelab/chromisc/specsum"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var dbPath, action, path, layout, ext, group, deleteFile string
	var recursive bool

	flag.StringVar(&dbPath, "db", "", "Path to the catalog SQLite file. Created if it does not yet exist.")
	flag.StringVar(&action, "action", "", "One of: import, list, groups, delete.")
	flag.StringVar(&path, "path", "", "(import) Folder containing spectrometer output files.")
	flag.StringVar(&layout, "layout", "auto", "(import) Vendor file layout, or auto.")
	flag.StringVar(&ext, "ext", "", "(import) Only import files with this extension, e.g. .jaz")
	flag.StringVar(&group, "group", "", "(import) Group label to record for every imported series.")
	flag.BoolVar(&recursive, "recursive", false, "(import) Descend into subdirectories.")
	flag.StringVar(&deleteFile, "file", "", "(delete) Remove all catalog entries for this file path.")
	flag.Parse()

	if dbPath == "" || action == "" {
		flag.Usage()
		os.Exit(1)
	}

	db, err := speclib.Open(dbPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer db.Close()

	switch action {
	case "import":
		if path == "" {
			flag.Usage()
			os.Exit(1)
		}
		if err := runImport(db, path, layout, ext, group, recursive); err != nil {
			log.Fatalln(err)
		}
	case "list":
		entries, err := db.List()
		if err != nil {
			log.Fatalln(err)
		}
		printEntries(entries)
	case "groups":
		groups, err := db.Groups()
		if err != nil {
			log.Fatalln(err)
		}
		for _, g := range groups {
			fmt.Println(g)
		}
	case "delete":
		if deleteFile == "" {
			flag.Usage()
			os.Exit(1)
		}
		n, err := db.DeleteByFile(deleteFile)
		if err != nil {
			log.Fatalln(err)
		}
		log.Printf("Deleted %d entries for %s\n", n, deleteFile)
	default:
		log.Fatalf("Unknown action %q\n", action)
	}
}

func runImport(db *speclib.DB, root, layout, ext, group string, recursive bool) error {
	start := time.Now()
	log.Println("speclib import start")
	defer func() {
		log.Printf("speclib import end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	pattern := filepath.Join(root, "*")
	if recursive {
		pattern = filepath.Join(root, "**", "*")
	}

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return err
	}

	inserted, skipped, failed := 0, 0, 0
	for _, p := range paths {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(p), ext) {
			continue
		}

		n, s, err := importFile(db, p, layout, group)
		if err != nil {
			log.Println("Skipped:", p+":", err)
			failed++
			continue
		}

		inserted += n
		skipped += s
	}

	log.Printf("Cataloged %d new series (%d unchanged, %d files failed)\n", inserted, skipped, failed)

	return nil
}

func importFile(db *speclib.DB, path, layout, group string) (inserted, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	hash := speclib.ContentHash(data)

	opt := bulkspec.Options{Layout: layout}
	spectra, parsed, err := bulkspec.ImportFile(path, opt)
	if err != nil {
		return 0, 0, err
	}

	layoutName := layout
	if layoutName == "" || layoutName == "auto" {
		layoutName = specparse.DetectLayout(path, data)
	}

	summaries, err := specsum.Summarize(spectra)
	if err != nil {
		return 0, 0, err
	}

	for _, sum := range summaries {
		entry := speclib.EntryFor(layoutName, sum.Series, hash, group, parsed.Meta, sum)

		ok, err := db.Insert(entry)
		if err != nil {
			return inserted, skipped, err
		}
		if ok {
			inserted++
		} else {
			skipped++
		}
	}

	return inserted, skipped, nil
}

func printEntries(entries []speclib.Entry) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "id\tfile\tseries\tlayout\tgroup\tcaptured\tb1\tb2\th1")
	for _, e := range entries {
		captured := ""
		if e.CapturedAt.Valid {
			captured = e.CapturedAt.Time.Format("2006-01-02 15:04:05")
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%.4g\t%.4g\t%.4g\n",
			e.ID, e.File, e.Series, e.Layout, e.Group.ValueOrZero(), captured, e.B1, e.B2, e.H1)
	}
	if err := tw.Flush(); err != nil {
		log.Fatalln(err)
	}
}
