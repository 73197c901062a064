package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vaultgen/internal/apperr"
	"github.com/starford/vaultgen/internal/generator"
	"github.com/starford/vaultgen/internal/indexdoc"
	"github.com/starford/vaultgen/internal/vaultservice"
)

// GenerationNotifier is told about the outcome of API-triggered runs.
type GenerationNotifier func(trigger string, rep *generator.Report, err error)

// Handler holds API route handlers.
type Handler struct {
	svc    *vaultservice.Service
	notify GenerationNotifier
}

// NewHandler creates a new Handler.
func NewHandler(svc *vaultservice.Service, notify GenerationNotifier) *Handler {
	return &Handler{svc: svc, notify: notify}
}

// entryID extracts the {id} URL parameter. Supports encoded slashes from
// OpenAPI clients (e.g. how%2Fto).
func entryID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// documentPath extracts the document path from the URL (everything after
// /api/documents/).
func documentPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListEntries handles GET /api/entries.
//
//	@Summary		List entries with optional pagination
//	@Tags			entries
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			offset	query		int	false	"Page offset"
//	@Success		200		{object}	EntryListResponse
//	@Security		BearerAuth
//	@Router			/entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.svc.ListEntries(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, "list entries", err)
		return
	}
	writeJSON(w, http.StatusOK, EntryListResponse{Entries: items, Total: total})
}

// GetEntry handles GET /api/entries/{id}.
//
//	@Summary		Get a single entry with its children
//	@Tags			entries
//	@Produce		json
//	@Param			id	path		string	true	"Entry identifier"
//	@Success		200	{object}	EntryDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries/{id} [get]
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.GetEntry(r.Context(), entryID(r))
	if err != nil {
		writeServiceError(w, "get entry", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Children handles GET /api/entries/{id}/children.
//
//	@Summary		List the direct children of an entry
//	@Tags			entries
//	@Produce		json
//	@Param			id	path		string	true	"Entry identifier"
//	@Success		200	{object}	ChildrenResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries/{id}/children [get]
func (h *Handler) Children(w http.ResponseWriter, r *http.Request) {
	id := entryID(r)
	kids, err := h.svc.Children(r.Context(), id)
	if err != nil {
		writeServiceError(w, "children", err)
		return
	}
	writeJSON(w, http.StatusOK, ChildrenResponse{ID: id, Children: kids})
}

// Outline handles GET /api/entries/{id}/outline.
//
//	@Summary		Get the outline beneath an entry
//	@Tags			entries
//	@Produce		json
//	@Param			id		path		string	true	"Entry identifier"
//	@Param			bounded	query		bool	false	"Limit to the configured callout depth"
//	@Success		200		{object}	OutlineResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries/{id}/outline [get]
func (h *Handler) Outline(w http.ResponseWriter, r *http.Request) {
	id := entryID(r)
	bounded, _ := strconv.ParseBool(r.URL.Query().Get("bounded"))

	root, err := h.svc.Outline(r.Context(), id, bounded)
	if err != nil {
		writeServiceError(w, "outline", err)
		return
	}
	md, err := h.svc.OutlineMarkdown(r.Context(), id, bounded)
	if err != nil {
		writeServiceError(w, "outline", err)
		return
	}
	writeJSON(w, http.StatusOK, OutlineResponse{Root: root, Bounded: bounded, Markdown: md})
}

// Orphans handles GET /api/orphans.
//
//	@Summary		List entries that do not trace back to the root
//	@Tags			entries
//	@Produce		json
//	@Success		200	{object}	OrphansResponse
//	@Security		BearerAuth
//	@Router			/orphans [get]
func (h *Handler) Orphans(w http.ResponseWriter, r *http.Request) {
	orphans, err := h.svc.Orphans(r.Context())
	if err != nil {
		writeServiceError(w, "orphans", err)
		return
	}
	writeJSON(w, http.StatusOK, OrphansResponse{Root: h.svc.Root(), Orphans: orphans})
}

// IndexPreview handles GET /api/index.
//
//	@Summary		Compose the index for the current store without writing it
//	@Tags			vault
//	@Produce		json
//	@Success		200	{object}	IndexResponse
//	@Security		BearerAuth
//	@Router			/index [get]
func (h *Handler) IndexPreview(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.IndexPreview(r.Context())
	if err != nil {
		writeServiceError(w, "index preview", err)
		return
	}
	writeJSON(w, http.StatusOK, IndexResponse{
		Content:     string(doc.Content),
		Sections:    doc.Sections,
		Orphans:     doc.Orphans,
		GeneratedAt: doc.GeneratedAt.Format(indexdoc.TimeLayout),
	})
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List generated documents
//	@Tags			vault
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		writeServiceError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs})
}

// GetDocument handles GET /api/documents/*.
//
//	@Summary		Read a generated document
//	@Tags			vault
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	DocumentDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.GetDocument(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Generate handles POST /api/generate.
//
//	@Summary		Regenerate the vault
//	@Tags			vault
//	@Accept			json
//	@Produce		json
//	@Param			body	body		GenerateRequest	false	"Targets"
//	@Success		200		{object}	GenerateResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := readOptionalJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	targets, err := generator.SelectTargets(req.CommandsOnly, req.IndexOnly)
	if err != nil {
		writeServiceError(w, "generate", err)
		return
	}

	rep, err := h.svc.Regenerate(r.Context(), targets)
	if h.notify != nil && !errors.Is(err, apperr.ErrGenerationRunning) {
		h.notify("api", rep, err)
	}
	if err != nil {
		writeServiceError(w, "generate", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
