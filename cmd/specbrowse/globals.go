package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cloud.google.com/go/storage"

	"github.com/plumelab/chromisc"
)

type Global struct {
	log           logger
	storageClient *storage.Client

	Site string

	// SpectraRoot is the browsed folder; Layout and Ext mirror the import
	// flags of the batch tools.
	SpectraRoot string
	Layout      string
	Ext         string

	m     sync.RWMutex
	files []string
}

// Files returns the base names of the browsable files, sorted.
func (g *Global) Files() []string {
	g.m.RLock()
	defer g.m.RUnlock()

	return g.files
}

// HasFile reports whether name is one of the browsable files, guarding the
// handlers against path traversal.
func (g *Global) HasFile(name string) bool {
	g.m.RLock()
	defer g.m.RUnlock()

	for _, f := range g.files {
		if f == name {
			return true
		}
	}

	return false
}

// RefreshFiles relists the browsed folder.
func (g *Global) RefreshFiles() error {
	var names []string

	if strings.HasPrefix(g.SpectraRoot, "gs://") {
		paths, err := chromisc.ListGoogleStorage(g.SpectraRoot, g.storageClient)
		if err != nil {
			return err
		}
		for _, p := range paths {
			// Only direct children: nested objects would not resolve from
			// their base name.
			rel := strings.TrimPrefix(p, g.SpectraRoot+"/")
			if rel == "" || strings.Contains(rel, "/") {
				continue
			}
			names = append(names, rel)
		}
	} else {
		entries, err := os.ReadDir(chromisc.ExpandHome(g.SpectraRoot))
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			names = append(names, e.Name())
		}
	}

	if g.Ext != "" {
		kept := names[:0]
		for _, n := range names {
			if strings.EqualFold(filepath.Ext(n), g.Ext) {
				kept = append(kept, n)
			}
		}
		names = kept
	}

	sort.Strings(names)

	g.m.Lock()
	g.files = names
	g.m.Unlock()

	return nil
}

type logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}
