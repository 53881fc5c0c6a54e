package speclib

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/plumelab/chromisc/specparse"
	"github.com/plumelab/chromisc/specsum"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "catalog.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func testEntry(file, series, hash, group string) Entry {
	return EntryFor("oceanoptics", series, hash, group,
		specparse.Metadata{
			File:        file,
			CaptureDate: time.Date(2018, 1, 26, 10, 2, 22, 0, time.UTC),
		},
		specsum.Summary{B1: 100, B2: 0.25, H1: 620},
	)
}

func TestInsertAndList(t *testing.T) {
	db := testDB(t)

	added, err := db.Insert(testEntry("a.txt", "crown", "HASH-A", "tanager"))
	if err != nil {
		t.Fatal(err)
	}
	if !added {
		t.Fatal("First insert should add a row")
	}

	entries, err := db.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("List returned %d entries, expected 1", len(entries))
	}

	got := entries[0]
	if got.Series != "crown" || got.B1 != 100 || got.H1 != 620 {
		t.Fatalf("Entry mismatch: %+v", got)
	}
	if !got.Group.Valid || got.Group.String != "tanager" {
		t.Fatalf("Group %+v, expected tanager", got.Group)
	}
	if !got.CapturedAt.Valid || got.CapturedAt.Time.Year() != 2018 {
		t.Fatalf("CapturedAt %+v, expected the 2018 capture date", got.CapturedAt)
	}
}

func TestInsertSkipsDuplicateHash(t *testing.T) {
	db := testDB(t)

	if _, err := db.Insert(testEntry("a.txt", "crown", "HASH-A", "")); err != nil {
		t.Fatal(err)
	}

	// Same content catalogued from another path: skipped.
	added, err := db.Insert(testEntry("copy-of-a.txt", "crown", "HASH-A", ""))
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Fatal("Duplicate (hash, series) insert should be skipped")
	}

	// Same hash but a different series is a distinct measurement.
	added, err = db.Insert(testEntry("a.txt", "breast", "HASH-A", ""))
	if err != nil {
		t.Fatal(err)
	}
	if !added {
		t.Fatal("A new series under the same hash should be added")
	}
}

func TestByGroupAndGroups(t *testing.T) {
	db := testDB(t)

	for _, e := range []Entry{
		testEntry("a.txt", "s1", "H1", "tanager"),
		testEntry("b.txt", "s2", "H2", "cardinal"),
		testEntry("c.txt", "s3", "H3", "tanager"),
		testEntry("d.txt", "s4", "H4", ""),
	} {
		if _, err := db.Insert(e); err != nil {
			t.Fatal(err)
		}
	}

	tanagers, err := db.ByGroup("tanager")
	if err != nil {
		t.Fatal(err)
	}
	if len(tanagers) != 2 {
		t.Fatalf("ByGroup(tanager) returned %d, expected 2", len(tanagers))
	}

	groups, err := db.Groups()
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 || groups[0] != "cardinal" || groups[1] != "tanager" {
		t.Fatalf("Groups %v, expected [cardinal tanager]", groups)
	}
}

func TestDeleteByFile(t *testing.T) {
	db := testDB(t)

	if _, err := db.Insert(testEntry("a.txt", "s1", "H1", "")); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Insert(testEntry("a.txt", "s2", "H2", "")); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Insert(testEntry("b.txt", "s3", "H3", "")); err != nil {
		t.Fatal(err)
	}

	n, err := db.DeleteByFile("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("DeleteByFile removed %d rows, expected 2", n)
	}

	entries, err := db.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].File != "b.txt" {
		t.Fatalf("Remaining entries %+v, expected just b.txt", entries)
	}
}

func TestContentHashDistinguishesContent(t *testing.T) {
	a := ContentHash([]byte("spectrum one"))
	b := ContentHash([]byte("spectrum two"))

	if a == "" || a == b {
		t.Fatalf("Hashes %q and %q should be distinct and nonempty", a, b)
	}
	if a != ContentHash([]byte("spectrum one")) {
		t.Fatal("Hashing is not deterministic")
	}
}
