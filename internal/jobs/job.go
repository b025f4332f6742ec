// Package jobs implements the job lifecycle: creation from a ready tenant
// workflow, dispatch to the orchestrator, review gate handling, and terminal
// completion. State transitions pair a guarded update with an event row in
// one transaction.
package jobs

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/workflow"
)

// Job statuses. review:<gateID> is a parameterized state; CurrentGateID is
// non-nil exactly while the job sits in one.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"

	reviewPrefix = "review:"
)

// ReviewStatus returns the parameterized status for a gate.
func ReviewStatus(gateID string) string {
	return reviewPrefix + gateID
}

// InReview reports whether the status is a review:<gateID> state.
func InReview(status string) bool {
	return strings.HasPrefix(status, reviewPrefix)
}

// Terminal reports whether the status is done or failed.
func Terminal(status string) bool {
	return status == StatusDone || status == StatusFailed
}

// Job is a document translation run against a frozen workflow definition.
type Job struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	WorkflowID    uuid.UUID  `json:"workflow_id"`
	Status        string     `json:"status"`
	SourcePDFURL  string     `json:"source_pdf_url"`
	Result        Result     `json:"result"`
	CurrentGateID *string    `json:"current_gate_id,omitempty"`
	Error         *string    `json:"error,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FrozenWorkflow identifies the immutable definition row a job was created
// against.
type FrozenWorkflow struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Version  int       `json:"version"`
}

// Created is the creation response: the new job together with the frozen
// definition it will run, so callers can show what was snapshotted.
type Created struct {
	Job      Job                  `json:"job"`
	Workflow FrozenWorkflow       `json:"workflow"`
	Steps    []workflow.FinalStep `json:"steps"`
}

// CreateCommand creates a job from a ready tenant workflow. SourcePDFURL may
// be empty when the document is uploaded separately after creation.
type CreateCommand struct {
	TenantWorkflowID uuid.UUID      `json:"tenant_workflow_id"`
	SourcePDFURL     string         `json:"source_pdf_url,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// Validate enforces a tenant workflow reference.
func (c *CreateCommand) Validate() error {
	if c.TenantWorkflowID == uuid.Nil {
		return ErrInvalid
	}
	return nil
}

// SubmitReviewCommand carries the operator's reviewed key values for a gate.
type SubmitReviewCommand struct {
	KeysReviewed map[string]string `json:"keys_reviewed"`
}

// Validate enforces a non-empty reviewed key set.
func (c *SubmitReviewCommand) Validate() error {
	if len(c.KeysReviewed) == 0 {
		return ErrInvalid
	}
	return nil
}

// ReviewGate is the persisted state of one review pause. One row per
// (job, gate); webhook redelivery upserts it back to pending.
type ReviewGate struct {
	ID             uuid.UUID         `json:"id"`
	TenantID       uuid.UUID         `json:"tenant_id"`
	JobID          uuid.UUID         `json:"job_id"`
	GateID         string            `json:"gate_id"`
	InputKind      string            `json:"input_kind"`
	RefID          *string           `json:"ref_id,omitempty"`
	Status         string            `json:"status"`
	Keys           map[string]string `json:"keys"`
	KeySources     map[string]string `json:"key_sources,omitempty"`
	KeysTranslated map[string]string `json:"keys_translated,omitempty"`
	KeysReviewed   map[string]string `json:"keys_reviewed,omitempty"`
	Pages          []string          `json:"pages,omitempty"`
	Context        map[string]any    `json:"context,omitempty"`
	ReviewerID     *string           `json:"reviewer_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	ClosedAt       *time.Time        `json:"closed_at,omitempty"`
}

// Review gate statuses.
const (
	GatePending  = "pending"
	GateInReview = "in_review"
	GateApproved = "approved"
	GateRejected = "rejected"
)

// GateOpening is the review payload delivered by the orchestrator when a job
// reaches a review gate.
type GateOpening struct {
	GateID         string            `json:"gate_id"`
	InputKind      string            `json:"input_kind"`
	RefID          *string           `json:"ref_id,omitempty"`
	Keys           map[string]string `json:"keys"`
	KeySources     map[string]string `json:"key_sources,omitempty"`
	KeysTranslated map[string]string `json:"keys_translated,omitempty"`
	Pages          []string          `json:"pages,omitempty"`
	Context        map[string]any    `json:"context,omitempty"`
}

// KeyAudit is one append-only edit record, written on review submit for each
// key whose reviewed value differs from the original.
type KeyAudit struct {
	ID            uuid.UUID `json:"id"`
	ReviewGateID  uuid.UUID `json:"review_gate_id"`
	JobID         uuid.UUID `json:"job_id"`
	GateID        string    `json:"gate_id"`
	KeyName       string    `json:"key_name"`
	OldValue      string    `json:"old_value"`
	NewValue      string    `json:"new_value"`
	SourceAgentID *string   `json:"source_agent_id,omitempty"`
	EditedBy      string    `json:"edited_by"`
	EditedAt      time.Time `json:"edited_at"`
}

// Event types recorded in the job event log.
const (
	EventJobStarted            = "job_started"
	EventJobStartBlocked       = "job_start_blocked"
	EventJobStartFailed        = "job_start_failed"
	EventReviewGateOpened      = "review_gate_opened"
	EventReviewApproved        = "review_approved"
	EventJobCompleted          = "job_completed"
	EventJobFailed             = "job_failed"
	EventWebhookTenantMismatch = "webhook_tenant_mismatch"
	EventWebhookConflict       = "webhook_conflict"
)

// Event is one append-only job event log row.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	TenantID  uuid.UUID      `json:"tenant_id"`
	JobID     uuid.UUID      `json:"job_id"`
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
