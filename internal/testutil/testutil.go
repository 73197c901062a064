// Package testutil provides shared test helpers for setting up relation
// stores and output vaults.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/starford/vaultgen/internal/models"
	"github.com/starford/vaultgen/internal/relstore"
	"github.com/starford/vaultgen/internal/storage"
)

// TestDB creates a temporary relation store seeded with entries and returns
// its path. The writable handle is closed before returning so callers open
// the file the way generation does.
func TestDB(t *testing.T, entries ...models.Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "responses.db")
	db, err := relstore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for _, e := range entries {
		if err := db.Put(context.Background(), e); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

// TestVault creates a temporary output directory with a storage.FS.
func TestVault(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Entry is a shorthand for an entry that only carries relations.
func Entry(id string, up ...string) models.Entry {
	return models.Entry{ID: id, Content: "About " + id + ".", Author: "u-" + id, Up: up}
}

// LabEntries is a small hierarchy under "m" with one orphan and one cycle.
func LabEntries() []models.Entry {
	return []models.Entry{
		Entry("m"),
		Entry("tools", "m"),
		Entry("spin", "tools"),
		Entry("tube", "spin"),
		Entry("safety", "m"),
		Entry("stray"),
		Entry("p", "q"),
		Entry("q", "p"),
	}
}
