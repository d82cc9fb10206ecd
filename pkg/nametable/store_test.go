package nametable

import (
	"path/filepath"
	"testing"

	"github.com/spicery/nutmeg-desugar/pkg/names"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrateThenUpToDate(t *testing.T) {
	s := openTestStore(t)
	ok, err := s.UpToDate()
	if err != nil {
		t.Fatalf("UpToDate failed: %v", err)
	}
	if !ok {
		t.Errorf("expected a freshly migrated store to be up to date")
	}
}

func TestPersistThenPreloadRoundTripsSpellings(t *testing.T) {
	s := openTestStore(t)

	table := names.NewMemTable()
	table.InternString("foo")
	table.InternString("bar")
	if err := s.Persist(table); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	fresh := names.NewMemTable()
	if err := s.Preload(fresh); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}

	spellings := fresh.Spellings()
	found := map[string]bool{}
	for _, s := range spellings {
		found[s] = true
	}
	if !found["foo"] || !found["bar"] {
		t.Errorf("expected both persisted spellings to be preloaded, got %v", spellings)
	}
}

func TestPersistIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	table := names.NewMemTable()
	table.InternString("dup")

	if err := s.Persist(table); err != nil {
		t.Fatalf("first Persist failed: %v", err)
	}
	if err := s.Persist(table); err != nil {
		t.Fatalf("second Persist failed: %v", err)
	}

	fresh := names.NewMemTable()
	if err := s.Preload(fresh); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	count := 0
	for _, spelling := range fresh.Spellings() {
		if spelling == "dup" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one row for a repeated spelling, got %d occurrences in %v", count, fresh.Spellings())
	}
}

func TestPersistSkipsEmptySpelling(t *testing.T) {
	s := openTestStore(t)
	table := names.NewMemTable() // index 0 is the reserved "" spelling
	if err := s.Persist(table); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	fresh := names.NewMemTable()
	if err := s.Preload(fresh); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	if len(fresh.Spellings()) != 1 {
		t.Errorf("expected no extra rows to be preloaded for an empty table, got %v", fresh.Spellings())
	}
}
