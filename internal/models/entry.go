// Package models defines the domain types for vaultgen.
package models

// UnknownAuthor is used when an entry has no author recorded.
const UnknownAuthor = "Unknown"

// Entry is one row of the relation store: a community knowledge entry and
// its outgoing relations.
type Entry struct {
	ID           string   `json:"id" yaml:"id"`
	Content      string   `json:"content" yaml:"content"`
	Author       string   `json:"author" yaml:"author"`
	Helpers      []string `json:"helpers" yaml:"helpers"`
	Related      []string `json:"related" yaml:"related"`
	Up           []string `json:"up" yaml:"up"`
	CallCount    int64    `json:"call_count" yaml:"call_count"`
	LastModified string   `json:"last_modified,omitempty" yaml:"last_modified"`
}

// AuthorOrDefault returns the author, or UnknownAuthor when none is set.
func (e Entry) AuthorOrDefault() string {
	if e.Author == "" {
		return UnknownAuthor
	}
	return e.Author
}

// DocumentMetadata is a lightweight representation of a generated document.
type DocumentMetadata struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Size     int64  `json:"size"`
}
