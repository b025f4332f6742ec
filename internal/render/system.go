package render

import (
	"context"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/pkg/pagination"
)

// System defines the public contract for render template operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Template], error)
	Find(ctx context.Context, id uuid.UUID) (*Template, error)
	Create(ctx context.Context, cmd SaveCommand) (*Template, error)
	Update(ctx context.Context, id uuid.UUID, cmd SaveCommand) (*Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
