package tenants

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/internal/auth"
	"github.com/gfmozzer/lingua/pkg/handlers"
	"github.com/gfmozzer/lingua/pkg/pagination"
	"github.com/gfmozzer/lingua/pkg/routes"
)

// Handler provides HTTP endpoints for tenant workflow operations. Every
// endpoint resolves the acting tenant from the authenticated principal.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "tenant-workflows"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for tenant workflow endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/tenant-workflows",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Clone},
			{Method: "GET", Pattern: "/{id}", Handler: h.Resolve},
			{Method: "PUT", Pattern: "/{id}/settings", Handler: h.SaveSettings},
		},
	}
}

// List returns the tenant's workflows with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := auth.TenantID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, auth.MapHTTPStatus(err), err)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), tenantID, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Clone creates a tenant workflow from a template.
func (h *Handler) Clone(w http.ResponseWriter, r *http.Request) {
	tenantID, err := auth.TenantID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, auth.MapHTTPStatus(err), err)
		return
	}

	var cmd CloneCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	tw, err := h.sys.Clone(r.Context(), tenantID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, tw)
}

// Resolve returns the workflow merged with its compiled template.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	tenantID, err := auth.TenantID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, auth.MapHTTPStatus(err), err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	resolved, err := h.sys.Resolve(r.Context(), tenantID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resolved)
}

// SaveSettings updates workflow settings and per-step overrides.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	tenantID, err := auth.TenantID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, auth.MapHTTPStatus(err), err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	var cmd SaveSettingsCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	tw, err := h.sys.SaveSettings(r.Context(), tenantID, id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, tw)
}
