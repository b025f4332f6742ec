package templates

import (
	"context"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/pkg/pagination"
	"github.com/gfmozzer/lingua/workflow"
)

// System defines the public contract for workflow template operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Template], error)
	Find(ctx context.Context, id uuid.UUID) (*Template, error)
	Create(ctx context.Context, cmd SaveCommand) (*Template, error)
	Update(ctx context.Context, id uuid.UUID, cmd SaveCommand) (*Template, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ReplaceSteps swaps the template's full step-set in one transaction,
	// compiling the new set first and bumping the template version.
	ReplaceSteps(ctx context.Context, id uuid.UUID, cmd ReplaceStepsCommand) (*workflow.Runtime, error)

	// BuildRuntimeWorkflow loads the template's raw rows and compiles them
	// into the ordered, fully-typed runtime.
	BuildRuntimeWorkflow(ctx context.Context, id uuid.UUID) (*workflow.Runtime, error)
}
