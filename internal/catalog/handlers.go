package catalog

import (
	"net/http"

	"github.com/kingasieminiak/backstage/internal/config"
	"github.com/kingasieminiak/backstage/internal/httputil"
	"go.uber.org/zap"
)

// Handler serves the catalog over HTTP: a JSON API under /api/catalog and
// HTML pages at the site root.
type Handler struct {
	service *Service
	title   string
	logger  *zap.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(cfg *config.ServerConfig, service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		title:   cfg.Title,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/catalog/entities", h.HandleListEntities)
	mux.HandleFunc("/api/catalog/entities/{name}", h.HandleGetEntity)
	mux.HandleFunc("/entities/{name}", h.HandleEntityPage)
	mux.HandleFunc("/{$}", h.HandleIndex)
}

// HandleListEntities returns all entities, optionally filtered by ?kind=.
func (h *Handler) HandleListEntities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteMethodNotAllowed(w, http.MethodGet)
		return
	}

	entities := h.service.ListByKind(r.URL.Query().Get("kind"))
	if entities == nil {
		entities = []Entity{}
	}
	httputil.WriteJSON(w, http.StatusOK, entities)
}

// HandleGetEntity returns a single entity by name.
func (h *Handler) HandleGetEntity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteMethodNotAllowed(w, http.MethodGet)
		return
	}

	name := r.PathValue("name")
	entity, ok := h.service.Get(name)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "no entity named "+name)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entity)
}

type indexView struct {
	Title    string
	Entities []Entity
}

type entityView struct {
	Title  string
	Entity *Entity
}

type errorView struct {
	Title   string
	Message string
}

// HandleIndex renders the entity overview page.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteMethodNotAllowed(w, http.MethodGet)
		return
	}

	view := indexView{
		Title:    h.title,
		Entities: h.service.List(),
	}
	if err := templates.ExecuteTemplate(w, "index.html", view); err != nil {
		h.logger.Error("failed to render index page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// HandleEntityPage renders the page of a single entity.
func (h *Handler) HandleEntityPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteMethodNotAllowed(w, http.MethodGet)
		return
	}

	name := r.PathValue("name")
	entity, ok := h.service.Get(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		if err := templates.ExecuteTemplate(w, "error.html", errorView{
			Title:   h.title,
			Message: "No entity named " + name,
		}); err != nil {
			h.logger.Error("failed to render error page", zap.Error(err))
		}
		return
	}

	view := entityView{
		Title:  h.title,
		Entity: entity,
	}
	if err := templates.ExecuteTemplate(w, "entity.html", view); err != nil {
		h.logger.Error("failed to render entity page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
