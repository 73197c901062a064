package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vaultgen/internal/vaultservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// notify, if non-nil, is called after every API-triggered generation.
func NewRouter(svc *vaultservice.Service, authEnabled bool, token string, sseHandler http.Handler, notify GenerationNotifier) chi.Router {
	h := NewHandler(svc, notify)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Relation store.
	r.Get("/entries", h.ListEntries)
	r.Get("/entries/{id}", h.GetEntry)
	r.Get("/entries/{id}/children", h.Children)
	r.Get("/entries/{id}/outline", h.Outline)
	r.Get("/orphans", h.Orphans)

	// Generated vault.
	r.Get("/index", h.IndexPreview)
	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/*", h.GetDocument)
	r.Post("/generate", h.Generate)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
