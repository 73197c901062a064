// Package vaultservice answers read queries over the relation store and the
// generated vault, and triggers regeneration. It backs the HTTP API and the
// MCP server.
package vaultservice

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"

	"github.com/starford/vaultgen/internal/apperr"
	"github.com/starford/vaultgen/internal/checksum"
	"github.com/starford/vaultgen/internal/entrydoc"
	"github.com/starford/vaultgen/internal/generator"
	"github.com/starford/vaultgen/internal/hierarchy"
	"github.com/starford/vaultgen/internal/indexdoc"
	"github.com/starford/vaultgen/internal/models"
	"github.com/starford/vaultgen/internal/parser"
	"github.com/starford/vaultgen/internal/reach"
	"github.com/starford/vaultgen/internal/relstore"
	"github.com/starford/vaultgen/internal/storage"
)

// EntryDetail is the full representation of an entry.
type EntryDetail struct {
	models.Entry
	Children  []string `json:"children"`
	Reachable bool     `json:"reachable"`
	Document  string   `json:"document"`
}

// EntryListItem is a lightweight item in a list response.
type EntryListItem struct {
	ID        string   `json:"id"`
	Author    string   `json:"author"`
	Up        []string `json:"up"`
	CallCount int64    `json:"call_count"`
}

// DocumentDetail is a generated document read back from the vault.
type DocumentDetail struct {
	Path        string           `json:"path"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Checksum    string           `json:"checksum"`
	Frontmatter map[string]any   `json:"frontmatter,omitempty"`
	Links       []string         `json:"links"`
	Callouts    []parser.Callout `json:"callouts"`
}

// Options configures a Service.
type Options struct {
	Root        string
	Depth       int
	CommandsDir string
}

// Service coordinates the relation store, the vault and the generator.
type Service struct {
	load  generator.Loader
	store storage.Provider
	gen   *generator.Generator
	opts  Options
}

// NewService creates a new vault service.
func NewService(load generator.Loader, store storage.Provider, gen *generator.Generator, opts Options) *Service {
	if opts.Root == "" {
		opts.Root = indexdoc.DefaultRoot
	}
	if opts.Depth <= 0 {
		opts.Depth = hierarchy.MaxDepth
	}
	return &Service{load: load, store: store, gen: gen, opts: opts}
}

// Root returns the identifier at the top of the hierarchy.
func (s *Service) Root() string {
	return s.opts.Root
}

// ListEntries returns a page of entries in identifier order and the total.
func (s *Service) ListEntries(ctx context.Context, limit, offset int) ([]EntryListItem, int, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, 0, err
	}
	entries := snap.Entries()
	total := len(entries)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	items := make([]EntryListItem, 0, end-offset)
	for _, e := range entries[offset:end] {
		items = append(items, EntryListItem{
			ID:        e.ID,
			Author:    e.AuthorOrDefault(),
			Up:        nonNilSlice(e.Up),
			CallCount: e.CallCount,
		})
	}
	return items, total, nil
}

// GetEntry returns an entry with its children and whether it traces back to
// the root.
func (s *Service) GetEntry(ctx context.Context, id string) (*EntryDetail, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := snap.Entry(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	res, err := reach.Classify(ctx, []string{id}, s.opts.Root, snap)
	if err != nil {
		return nil, err
	}
	e.Helpers = nonNilSlice(e.Helpers)
	e.Related = nonNilSlice(e.Related)
	e.Up = nonNilSlice(e.Up)
	return &EntryDetail{
		Entry:     e,
		Children:  hierarchy.New(snap).Children(id),
		Reachable: res.IsReachable(id),
		Document:  path.Join(s.opts.CommandsDir, entrydoc.Filename(id)),
	}, nil
}

// Children returns the direct children of id. The root and every stored
// entry are known; any other identifier is not found.
func (s *Service) Children(ctx context.Context, id string) ([]string, error) {
	snap, b, err := s.builder(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.known(snap, id); err != nil {
		return nil, err
	}
	return b.Children(id), nil
}

// Outline returns the tree under id, limited to the configured depth when
// bounded is set.
func (s *Service) Outline(ctx context.Context, id string, bounded bool) (*hierarchy.Node, error) {
	snap, b, err := s.builder(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.known(snap, id); err != nil {
		return nil, err
	}
	if bounded {
		return b.Bounded(id, s.opts.Depth), nil
	}
	return b.Tree(id), nil
}

// OutlineMarkdown renders the tree under id as a nested Markdown list with
// id as the first line.
func (s *Service) OutlineMarkdown(ctx context.Context, id string, bounded bool) (string, error) {
	n, err := s.Outline(ctx, id, bounded)
	if err != nil {
		return "", err
	}
	return "- [[" + n.ID + "]]\n" + hierarchy.RenderList(n, "", 1), nil
}

// Orphans returns the entries that do not trace back to the root.
func (s *Service) Orphans(ctx context.Context) ([]string, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	res, err := reach.Classify(ctx, snap.IDs(), s.opts.Root, snap)
	if err != nil {
		return nil, err
	}
	return res.Orphans, nil
}

// IndexPreview composes the index for the current store without writing it.
func (s *Service) IndexPreview(ctx context.Context) (*indexdoc.Document, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.gen.Composer().Compose(ctx, snap)
}

// ListDocuments returns metadata for every generated Markdown document.
func (s *Service) ListDocuments(_ context.Context) ([]models.DocumentMetadata, error) {
	docs, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	return nonNilSlice(docs), nil
}

// GetDocument reads a generated document and parses it.
func (s *Service) GetDocument(_ context.Context, p string) (*DocumentDetail, error) {
	if !strings.HasSuffix(p, ".md") {
		return nil, apperr.ErrNotFound
	}
	data, err := s.store.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{
		Path:        p,
		Title:       res.Title,
		Content:     string(data),
		Checksum:    checksum.Sum(data),
		Frontmatter: res.Frontmatter,
		Links:       nonNilSlice(res.Links),
		Callouts:    nonNilSlice(res.Callouts),
	}, nil
}

// Regenerate runs the generator. It fails with apperr.ErrGenerationRunning
// while another run is in progress.
func (s *Service) Regenerate(ctx context.Context, t generator.Targets) (*generator.Report, error) {
	return s.gen.Run(ctx, t)
}

func (s *Service) builder(ctx context.Context) (*relstore.Snapshot, *hierarchy.Builder, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return snap, hierarchy.New(snap), nil
}

func (s *Service) known(snap *relstore.Snapshot, id string) error {
	if id == s.opts.Root {
		return nil
	}
	if _, ok := snap.Entry(id); !ok {
		return apperr.ErrNotFound
	}
	return nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
