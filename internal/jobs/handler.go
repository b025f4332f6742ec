package jobs

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

// Handler provides HTTP endpoints for operator job actions. The webhook
// operations on System are routed separately by the webhooks package.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	maxUpload  int64
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxUpload int64) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "jobs"),
		pagination: pagination,
		maxUpload:  maxUpload,
	}
}

// Routes returns the route group definition for job endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/jobs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/{id}/source", Handler: h.UploadSource},
			{Method: "POST", Pattern: "/{id}/start", Handler: h.Start},
			{Method: "POST", Pattern: "/{id}/gates/{gateID}/review", Handler: h.SubmitReview},
			{Method: "GET", Pattern: "/{id}/events", Handler: h.Events},
			{Method: "GET", Pattern: "/{id}/gates", Handler: h.Gates},
		},
	}
}

// List returns the tenant's jobs with optional query parameter filters.
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

// Find returns a single job by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	tenantID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	job, err := h.sys.Find(r.Context(), tenantID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, job)
}

// Create compiles and freezes the workflow definition and queues a job.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := auth.TenantID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, auth.MapHTTPStatus(err), err)
		return
	}

	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	created, err := h.sys.Create(r.Context(), tenantID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, created)
}

// UploadSource accepts the job's source PDF as a multipart "file" part.
func (h *Handler) UploadSource(w http.ResponseWriter, r *http.Request) {
	tenantID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}
	defer file.Close()

	job, err := h.sys.UploadSource(r.Context(), tenantID, id, file)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, job)
}

// Start dispatches a queued job to the orchestrator.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	tenantID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	principal, _ := auth.FromContext(r.Context())

	job, err := h.sys.Start(r.Context(), tenantID, id, principal.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, job)
}

// SubmitReview approves a pending review gate with the operator's key edits.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	tenantID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	gateID := r.PathValue("gateID")
	if gateID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	var cmd SubmitReviewCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	principal, _ := auth.FromContext(r.Context())

	gate, err := h.sys.SubmitReview(r.Context(), tenantID, id, gateID, cmd, principal.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, gate)
}

// Events returns the job's append-only event log.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	tenantID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	events, err := h.sys.Events(r.Context(), tenantID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, events)
}

// Gates returns the job's review gates.
func (h *Handler) Gates(w http.ResponseWriter, r *http.Request) {
	tenantID, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	gates, err := h.sys.Gates(r.Context(), tenantID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, gates)
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := auth.TenantID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, auth.MapHTTPStatus(err), err)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, id, true
}
