package relstore

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/starford/vaultgen/internal/models"
)

// ImportFile is the YAML document accepted by Import:
//
//	entries:
//	  - id: tools
//	    content: Lab tools.
//	    up: [m]
type ImportFile struct {
	Entries []models.Entry `yaml:"entries"`
}

// Import reads an ImportFile from r and writes every entry, replacing rows
// with the same identifier. It returns the number of entries written.
func (db *DB) Import(ctx context.Context, r io.Reader) (int, error) {
	var f ImportFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return 0, fmt.Errorf("relstore: decode import: %w", err)
	}

	for i, e := range f.Entries {
		if e.ID == "" {
			return i, fmt.Errorf("relstore: import: entry %d has no id", i)
		}
		if err := db.Put(ctx, e); err != nil {
			return i, err
		}
	}
	return len(f.Entries), nil
}
