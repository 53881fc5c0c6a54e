// Package speclib keeps a local SQLite catalog of imported spectra: which
// file each series came from, a content hash for deduplication, its group
// label, capture date, and headline colourimetric summaries.
package speclib

import (
	"fmt"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
	"github.com/minio/blake2b-simd"
	"github.com/plumelab/chromisc/specparse"
	"github.com/plumelab/chromisc/specsum"
	"gopkg.in/guregu/null.v3"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS spectra (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file TEXT NOT NULL,
	hash TEXT NOT NULL,
	layout TEXT NOT NULL,
	series TEXT NOT NULL,
	group_label TEXT,
	captured_at TIMESTAMP,
	b1 REAL NOT NULL,
	b2 REAL NOT NULL,
	h1 REAL NOT NULL,
	UNIQUE(hash, series)
);
CREATE INDEX IF NOT EXISTS spectra_group_idx ON spectra(group_label);
CREATE INDEX IF NOT EXISTS spectra_file_idx ON spectra(file);
`

// Entry is one catalogued series.
type Entry struct {
	ID     int64  `db:"id"`
	File   string `db:"file"`
	Hash   string `db:"hash"`
	Layout string `db:"layout"`
	Series string `db:"series"`

	Group      null.String `db:"group_label"`
	CapturedAt null.Time   `db:"captured_at"`

	// Headline colourimetric summaries: total brightness, mean brightness,
	// hue wavelength.
	B1 float64 `db:"b1"`
	B2 float64 `db:"b2"`
	H1 float64 `db:"h1"`
}

type DB struct {
	db *sqlx.DB
}

// Open connects to (creating if needed) a catalog database at path.
func Open(path string) (*DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// ContentHash fingerprints raw file bytes for deduplication.
func ContentHash(data []byte) string {
	h, err := blake2b.New(&blake2b.Config{Size: 32})
	if err != nil {
		return ""
	}
	if _, err := h.Write(data); err != nil {
		return ""
	}

	return fmt.Sprintf("%X", h.Sum(nil))
}

// EntryFor assembles a catalog entry from one imported series. group may be
// empty (stored as NULL), as may the capture date.
func EntryFor(layout, series, hash, group string, meta specparse.Metadata, sum specsum.Summary) Entry {
	out := Entry{
		File:   meta.File,
		Hash:   hash,
		Layout: layout,
		Series: series,
		B1:     sum.B1,
		B2:     sum.B2,
		H1:     sum.H1,
	}
	if group != "" {
		out.Group = null.StringFrom(group)
	}
	if !meta.CaptureDate.IsZero() {
		out.CapturedAt = null.TimeFrom(meta.CaptureDate.UTC())
	}

	return out
}

// Insert catalogs one series, skipping silently when an identical content
// hash and series name is already present. It reports whether a row was
// added.
func (d *DB) Insert(e Entry) (bool, error) {
	res, err := d.db.NamedExec(`
INSERT OR IGNORE INTO spectra (file, hash, layout, series, group_label, captured_at, b1, b2, h1)
VALUES (:file, :hash, :layout, :series, :group_label, :captured_at, :b1, :b2, :h1)`, e)
	if err != nil {
		return false, pfx.Err(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, pfx.Err(err)
	}

	return n > 0, nil
}

// List returns every catalogued series, newest first.
func (d *DB) List() ([]Entry, error) {
	out := []Entry{}
	if err := d.db.Select(&out, `SELECT * FROM spectra ORDER BY id DESC`); err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}

// ByGroup returns the catalogued series carrying the given group label.
func (d *DB) ByGroup(group string) ([]Entry, error) {
	out := []Entry{}
	if err := d.db.Select(&out, `SELECT * FROM spectra WHERE group_label = ? ORDER BY id DESC`, group); err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}

// Groups returns the distinct group labels in the catalog.
func (d *DB) Groups() ([]string, error) {
	out := []string{}
	if err := d.db.Select(&out, `SELECT DISTINCT group_label FROM spectra WHERE group_label IS NOT NULL ORDER BY group_label`); err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}

// DeleteByFile removes every series catalogued from the given file,
// reporting how many rows went away.
func (d *DB) DeleteByFile(file string) (int64, error) {
	res, err := d.db.Exec(`DELETE FROM spectra WHERE file = ?`, file)
	if err != nil {
		return 0, pfx.Err(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, pfx.Err(err)
	}

	return n, nil
}

// Since reports entries captured at or after the cutoff.
func (d *DB) Since(cutoff time.Time) ([]Entry, error) {
	out := []Entry{}
	if err := d.db.Select(&out, `SELECT * FROM spectra WHERE captured_at >= ? ORDER BY captured_at`, cutoff.UTC()); err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}
