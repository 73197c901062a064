// Package sitefiles copies the viewer assets (stylesheet and script) into the
// vault so the published site picks them up.
package sitefiles

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/starford/vaultgen/internal/storage"
)

// DefaultFiles are published when no file list is configured.
var DefaultFiles = []string{"publish.css", "publish.js"}

// Publisher copies asset files from SourceDir into TargetDir of a vault.
type Publisher struct {
	SourceDir string
	TargetDir string // relative to the vault root
	Files     []string
	Store     storage.Provider
	Logger    *slog.Logger
}

// Publish copies every configured file and returns the vault-relative paths
// written. A missing source file stops publishing with an error.
func (p *Publisher) Publish() ([]string, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	files := p.Files
	if len(files) == 0 {
		files = DefaultFiles
	}

	var written []string
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(p.SourceDir, name))
		if err != nil {
			return written, fmt.Errorf("sitefiles: read %s: %w", name, err)
		}
		dst := path.Join(p.TargetDir, name)
		if err := p.Store.Write(dst, data); err != nil {
			return written, fmt.Errorf("sitefiles: write %s: %w", dst, err)
		}
		written = append(written, dst)
		logger.Info("sitefiles: copied", slog.String("file", name), slog.String("to", dst))
	}
	return written, nil
}
