package jobs

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/pkg/pagination"
)

// System defines the public contract for job operations. Operator-facing
// operations are tenant-scoped; the webhook operations at the bottom are
// called by the inbound webhook handler and locate the job by id alone,
// since the orchestrator is not a tenant.
type System interface {
	Handler() *Handler

	List(ctx context.Context, tenantID uuid.UUID, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Job], error)
	Find(ctx context.Context, tenantID, id uuid.UUID) (*Job, error)

	// Create compiles the tenant workflow into a frozen definition, upserts
	// the workflows row for (tenant, name, version), and inserts a queued job.
	// The response carries the frozen definition alongside the job.
	Create(ctx context.Context, tenantID uuid.UUID, cmd CreateCommand) (*Created, error)

	// UploadSource stores the job's source document, validates it as a PDF,
	// and points source_pdf_url at a signed URL for it.
	UploadSource(ctx context.Context, tenantID, id uuid.UUID, content io.Reader) (*Job, error)

	// Start dispatches a queued job to the orchestrator. The status update is
	// guarded so concurrent starts collapse to one dispatch; a failed dispatch
	// re-queues the job for retry.
	Start(ctx context.Context, tenantID, id uuid.UUID, startedBy string) (*Job, error)

	// SubmitReview approves a pending gate with the operator's reviewed keys.
	// The orchestrator is notified before anything is persisted.
	SubmitReview(ctx context.Context, tenantID, id uuid.UUID, gateID string, cmd SubmitReviewCommand, reviewerID string) (*ReviewGate, error)

	Events(ctx context.Context, tenantID, id uuid.UUID) ([]Event, error)
	Gates(ctx context.Context, tenantID, id uuid.UUID) ([]ReviewGate, error)

	// OpenReviewGate applies an inbound review webhook: upserts the gate back
	// to pending and parks the job in review:<gateID>. The payload tenant must
	// match the job's tenant.
	OpenReviewGate(ctx context.Context, payloadTenantID, id uuid.UUID, opening GateOpening) (*Job, error)

	// ApplyDone applies a terminal completion webhook. First write wins; a
	// later conflicting webhook gets ErrTerminal and a conflict event.
	ApplyDone(ctx context.Context, payloadTenantID, id uuid.UUID, finalPDFURL string, completion map[string]any) (*Job, error)

	// ApplyFailed applies a terminal failure webhook under the same guard.
	ApplyFailed(ctx context.Context, payloadTenantID, id uuid.UUID, reason string, failure map[string]any) (*Job, error)
}
