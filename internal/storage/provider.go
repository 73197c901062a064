// Package storage defines the output vault file-system abstraction.
package storage

import "github.com/starford/vaultgen/internal/models"

// Provider is the interface for vault file operations. Paths are relative to
// the vault root.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Clear removes every regular file directly inside dir and returns the
	// removed names. A missing dir is not an error.
	Clear(dir string) ([]string, error)
}
