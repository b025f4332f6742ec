package render

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/pkg/pagination"
	"github.com/gfmozzer/lingua/pkg/query"
	"github.com/gfmozzer/lingua/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a render template repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "render"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Template], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count render templates: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTemplate)
	if err != nil {
		return nil, fmt.Errorf("query render templates: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Template, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) Create(ctx context.Context, cmd SaveCommand) (*Template, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO render_templates(id, name, html)
		VALUES ($1, $2, $3)
		RETURNING id, name, html, created_at, updated_at`

	t, err := repository.QueryOne(ctx, r.db, q, []any{uuid.New(), cmd.Name, Sanitize(cmd.HTML)}, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("render template created", "id", t.ID, "name", t.Name)
	return &t, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd SaveCommand) (*Template, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		UPDATE render_templates
		SET name = $2, html = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, name, html, created_at, updated_at`

	t, err := repository.QueryOne(ctx, r.db, q, []any{id, cmd.Name, Sanitize(cmd.HTML)}, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("render template updated", "id", t.ID, "name", t.Name)
	return &t, nil
}

// Delete removes a render template unless a render step still references it.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var refs int
		countQ := "SELECT COUNT(*) FROM workflow_steps WHERE render_template_id = $1"
		if err := tx.QueryRowContext(ctx, countQ, id).Scan(&refs); err != nil {
			return struct{}{}, fmt.Errorf("count render template references: %w", err)
		}
		if refs > 0 {
			return struct{}{}, ErrInUse
		}

		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM render_templates WHERE id = $1", id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("render template deleted", "id", id)
	return nil
}
