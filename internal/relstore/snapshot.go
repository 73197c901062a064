package relstore

import (
	"slices"

	"github.com/starford/vaultgen/internal/models"
)

// FieldError records a relation column that could not be decoded and was
// treated as empty.
type FieldError struct {
	ID    string
	Field string
	Raw   string
}

// Snapshot is an immutable, in-memory copy of the relation store taken at the
// start of a generation run.
type Snapshot struct {
	ids       []string
	entries   map[string]models.Entry
	malformed []FieldError
}

// NewSnapshot builds a snapshot from already-decoded entries. When an
// identifier appears more than once the last entry wins.
func NewSnapshot(entries []models.Entry) *Snapshot {
	s := &Snapshot{entries: make(map[string]models.Entry, len(entries))}
	for _, e := range entries {
		if _, dup := s.entries[e.ID]; !dup {
			s.ids = append(s.ids, e.ID)
		}
		s.entries[e.ID] = e
	}
	slices.Sort(s.ids)
	return s
}

// IDs returns every identifier in ascending order.
func (s *Snapshot) IDs() []string {
	return slices.Clone(s.ids)
}

// Len returns the number of distinct entries.
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// Entry returns the entry for id.
func (s *Snapshot) Entry(id string) (models.Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Parents returns the parsed up list of id, or nil if there is no such entry.
func (s *Snapshot) Parents(id string) []string {
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	return e.Up
}

// Entries returns all entries ordered by identifier.
func (s *Snapshot) Entries() []models.Entry {
	out := make([]models.Entry, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.entries[id])
	}
	return out
}

// Malformed lists relation fields that were degraded to empty lists.
func (s *Snapshot) Malformed() []FieldError {
	return slices.Clone(s.malformed)
}
