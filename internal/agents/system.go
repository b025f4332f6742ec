package agents

import (
	"context"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/pkg/pagination"
)

// System defines the public contract for agent catalog operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Agent], error)

	Find(ctx context.Context, id uuid.UUID) (*Agent, error)
	Create(ctx context.Context, cmd SaveCommand) (*Agent, error)
	Update(ctx context.Context, id uuid.UUID, cmd SaveCommand) (*Agent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
