// Package api exposes the read-only JSON API over the record store and the
// enrichment pipeline.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"almanac/internal/enrich"
	"almanac/internal/record"
	pkgerrors "almanac/pkg/errors"
	"almanac/pkg/requestcontext"
)

// Handler is the thin HTTP layer over the store and the orchestrator.
// Enricher sets are injected so tests can swap upstream-facing enrichers
// for local fakes.
type Handler struct {
	logger   *slog.Logger
	store    *record.Store
	orch     *enrich.Orchestrator
	people   enrich.Set
	projects enrich.Set
}

// New creates a Handler.
func New(logger *slog.Logger, store *record.Store, orch *enrich.Orchestrator, people, projects enrich.Set) *Handler {
	return &Handler{
		logger:   logger,
		store:    store,
		orch:     orch,
		people:   people,
		projects: projects,
	}
}

// Register wires the public endpoints onto r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/", http.StatusFound)
	})
	r.Get("/api/", h.handleIndex)
	r.Get("/api/people/", h.handleListPeople)
	r.Get("/api/people/{id}/", h.handleGetPerson)
	r.Get("/api/projects/", h.handleListProjects)
	r.Get("/api/projects/{id}/", h.handleGetProject)
}

// endpointInfo describes one public endpoint in the API index.
type endpointInfo struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"endpoints": map[string]endpointInfo{
			"list_people": {
				URL:         "/api/people/",
				Description: "Returns a list of people in the ecosystem",
			},
			"get_person": {
				URL:         "/api/people/{id}/",
				Description: "Returns detailed information about a specific person",
			},
			"list_projects": {
				URL:         "/api/projects/",
				Description: "Returns a list of projects in the ecosystem",
			},
			"get_project": {
				URL:         "/api/projects/{id}/",
				Description: "Returns detailed information about a specific project",
			},
		},
	})
}

// handleListPeople returns all valid people without enrichment.
func (h *Handler) handleListPeople(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll(record.TypePerson)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	people := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		Link(rec)
		people = append(people, rec.Data)
	}
	writeJSON(w, http.StatusOK, map[string]any{"people": people})
}

// handleGetPerson returns one person, fully enriched.
func (h *Handler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.store.GetByID(record.TypePerson, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	if err := h.orch.Enrich(ctx, rec, h.people); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	Link(rec)
	writeJSON(w, http.StatusOK, rec.Data)
}

// handleListProjects returns all valid projects without enrichment.
func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll(record.TypeProject)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	projects := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		Link(rec)
		projects = append(projects, rec.Data)
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// handleGetProject returns one project, fully enriched.
func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.store.GetByID(record.TypeProject, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	if err := h.orch.Enrich(ctx, rec, h.projects); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	Link(rec)
	writeJSON(w, http.StatusOK, rec.Data)
}

// Link attaches the record's canonical URL, and for projects resolves each
// maintainer slug to the corresponding person resource URL. The snapshot
// builder applies the same linking so static output matches the live API.
func Link(rec *record.Record) {
	rec.Data["id"] = rec.Slug
	rec.Data["url"] = resourceURL(rec.Type, rec.Slug)

	if rec.Type != record.TypeProject {
		return
	}
	if maintainers, ok := rec.Data["maintainers"].(map[string]any); ok {
		for slug := range maintainers {
			maintainers[slug] = resourceURL(record.TypePerson, slug)
		}
	}
}

func resourceURL(t record.Type, slug string) string {
	return "/api/" + t.Plural() + "/" + slug + "/"
}

// writeError maps coded errors to responses: not_found becomes 404, store
// validation failures become 500 with the raw error text as a plaintext
// body so operators see the violated constraint.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := pkgerrors.ToHTTPStatus(pkgerrors.CodeOf(err))
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
