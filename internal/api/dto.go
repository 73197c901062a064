package api

import (
	"github.com/starford/vaultgen/internal/generator"
	"github.com/starford/vaultgen/internal/hierarchy"
	"github.com/starford/vaultgen/internal/models"
	"github.com/starford/vaultgen/internal/vaultservice"
)

// EntryDetail is the full entry response type (aliased from the domain layer).
type EntryDetail = vaultservice.EntryDetail

// EntryListItem is a lightweight item in a list response (aliased from the domain layer).
type EntryListItem = vaultservice.EntryListItem

// DocumentDetail is a generated document read back from the vault.
type DocumentDetail = vaultservice.DocumentDetail

// EntryListResponse wraps paginated entry listings.
type EntryListResponse struct {
	Entries []EntryListItem `json:"entries" validate:"required"`
	Total   int             `json:"total" example:"42" validate:"required"`
}

// ChildrenResponse lists the direct children of an entry.
type ChildrenResponse struct {
	ID       string   `json:"id" example:"m" validate:"required"`
	Children []string `json:"children" validate:"required"`
}

// OutlineResponse holds an outline as a tree and as a Markdown list.
type OutlineResponse struct {
	Root     *hierarchy.Node `json:"root" validate:"required"`
	Bounded  bool            `json:"bounded"`
	Markdown string          `json:"markdown" example:"- [[m]]\n\t- [[tools]]\n" validate:"required"`
}

// OrphansResponse lists the entries that do not trace back to the root.
type OrphansResponse struct {
	Root    string   `json:"root" example:"m" validate:"required"`
	Orphans []string `json:"orphans" validate:"required"`
}

// IndexResponse is the index document composed for the current store.
type IndexResponse struct {
	Content     string   `json:"content" validate:"required"`
	Sections    []string `json:"sections" validate:"required"`
	Orphans     []string `json:"orphans" validate:"required"`
	GeneratedAt string   `json:"generated_at" example:"2025-03-14 09:26:53" validate:"required"`
}

// DocumentListResponse lists generated documents.
type DocumentListResponse struct {
	Documents []models.DocumentMetadata `json:"documents" validate:"required"`
}

// GenerateRequest selects what a generation writes. Both false means
// everything.
type GenerateRequest struct {
	CommandsOnly bool `json:"commands_only"`
	IndexOnly    bool `json:"index_only"`
}

// GenerateResponse is the report of a generation run.
type GenerateResponse = generator.Report
