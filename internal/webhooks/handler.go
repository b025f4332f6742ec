// Package webhooks handles inbound orchestrator callbacks. One endpoint
// receives every callback; the payload shape decides whether it opens a
// review gate or finishes the job. Authenticity comes from the HMAC
// signature middleware applied at route registration, not from bearer auth.
package webhooks

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/internal/jobs"
	"github.com/gfmozzer/lingua/pkg/handlers"
	"github.com/gfmozzer/lingua/pkg/routes"
)

var errMalformed = errors.New("malformed webhook payload")

// Payload is the orchestrator callback body. GateID present means a review
// opening; otherwise Status must be a terminal state.
type Payload struct {
	TenantID uuid.UUID `json:"tenant_id"`
	JobID    uuid.UUID `json:"job_id"`

	GateID         string            `json:"gate_id,omitempty"`
	InputKind      string            `json:"input_kind,omitempty"`
	RefID          *string           `json:"ref_id,omitempty"`
	Keys           map[string]string `json:"keys,omitempty"`
	KeySources     map[string]string `json:"key_sources,omitempty"`
	KeysTranslated map[string]string `json:"keys_translated,omitempty"`
	Pages          []string          `json:"pages,omitempty"`
	Context        map[string]any    `json:"context,omitempty"`

	Status             string         `json:"status,omitempty"`
	PDFURLFinal        string         `json:"pdf_url_final,omitempty"`
	Error              string         `json:"error,omitempty"`
	Reason             string         `json:"reason,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CompletionMetadata map[string]any `json:"completion_metadata,omitempty"`
	FailureMetadata    map[string]any `json:"failure_metadata,omitempty"`
}

// Terminal callbacks carry their metadata either under the generic "metadata"
// key or under the explicit per-outcome keys; the explicit key wins when both
// are present.

func (p *Payload) completion() map[string]any {
	if len(p.CompletionMetadata) > 0 {
		return p.CompletionMetadata
	}
	return p.Metadata
}

func (p *Payload) failure() map[string]any {
	if len(p.FailureMetadata) > 0 {
		return p.FailureMetadata
	}
	return p.Metadata
}

// FailureReason picks the failure message: error, then reason, then a default.
func (p *Payload) FailureReason() string {
	if p.Error != "" {
		return p.Error
	}
	if p.Reason != "" {
		return p.Reason
	}
	return "workflow failed without a reason"
}

// Handler receives orchestrator callbacks and applies them to the job system.
type Handler struct {
	jobs   jobs.System
	logger *slog.Logger
}

// NewHandler creates a webhook Handler backed by the job system.
func NewHandler(sys jobs.System, logger *slog.Logger) *Handler {
	return &Handler{
		jobs:   sys,
		logger: logger.With("handler", "webhooks"),
	}
}

// Routes returns the route group definition for webhook endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/webhooks",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/n8n", Handler: h.Receive},
		},
	}
}

// Receive applies one orchestrator callback to its job.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var p Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.logger.Warn("undecodable webhook payload", "error", err)
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMalformed)
		return
	}

	if p.JobID == uuid.Nil || p.TenantID == uuid.Nil {
		h.logger.Warn("webhook payload missing job or tenant id")
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMalformed)
		return
	}

	var (
		job *jobs.Job
		err error
	)

	switch {
	case p.GateID != "":
		job, err = h.jobs.OpenReviewGate(r.Context(), p.TenantID, p.JobID, jobs.GateOpening{
			GateID:         p.GateID,
			InputKind:      p.InputKind,
			RefID:          p.RefID,
			Keys:           p.Keys,
			KeySources:     p.KeySources,
			KeysTranslated: p.KeysTranslated,
			Pages:          p.Pages,
			Context:        p.Context,
		})
	case p.Status == jobs.StatusDone:
		job, err = h.jobs.ApplyDone(r.Context(), p.TenantID, p.JobID, p.PDFURLFinal, p.completion())
	case p.Status == jobs.StatusFailed:
		job, err = h.jobs.ApplyFailed(r.Context(), p.TenantID, p.JobID, p.FailureReason(), p.failure())
	default:
		h.logger.Warn("webhook payload with no gate and unknown status",
			"job_id", p.JobID, "status", p.Status)
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMalformed)
		return
	}

	if err != nil {
		handlers.RespondError(w, h.logger, jobs.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, job)
}
