package tenants

import (
	"context"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/pkg/pagination"
)

// System defines the public contract for tenant workflow operations.
// Every operation is scoped to the calling tenant; lookups filter on
// tenantID inside the query itself, never as a secondary check.
type System interface {
	Handler() *Handler

	List(ctx context.Context, tenantID uuid.UUID, page pagination.PageRequest, filters Filters) (*pagination.PageResult[TenantWorkflow], error)

	// Clone creates a tenant workflow from a template: metadata copied at the
	// template's current version, one structural mirror row per template step.
	// The template must compile and contain a render step.
	Clone(ctx context.Context, tenantID uuid.UUID, cmd CloneCommand) (*TenantWorkflow, error)

	// Resolve returns the tenant workflow merged with its compiled template.
	// Fails with ErrStaleClone when the clone no longer mirrors the template.
	Resolve(ctx context.Context, tenantID, id uuid.UUID) (*ResolvedWorkflow, error)

	// SaveSettings updates workflow settings and per-step overrides.
	SaveSettings(ctx context.Context, tenantID, id uuid.UUID, cmd SaveSettingsCommand) (*TenantWorkflow, error)
}
