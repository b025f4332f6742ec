package agents

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

// New creates an agent catalog repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "agents"),
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
) (*pagination.PageResult[Agent], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "DefaultProvider", "DefaultModel")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count agents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAgent)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Agent, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, cmd SaveCommand) (*Agent, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO agents(id, name, kind, system_prompt, input_example, output_schema, default_provider, default_model, webhook_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, name, kind, system_prompt, input_example, output_schema, default_provider, default_model, webhook_url, created_at, updated_at`

	args := []any{
		uuid.New(),
		cmd.Name,
		cmd.Kind,
		cmd.SystemPrompt,
		cmd.InputExample,
		nullableSchema(cmd),
		cmd.DefaultProvider,
		cmd.DefaultModel,
		cmd.WebhookURL,
	}

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("agent created", "id", a.ID, "name", a.Name, "kind", a.Kind)
	return &a, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd SaveCommand) (*Agent, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		UPDATE agents
		SET name = $2, kind = $3, system_prompt = $4, input_example = $5, output_schema = $6,
			default_provider = $7, default_model = $8, webhook_url = $9, updated_at = now()
		WHERE id = $1
		RETURNING id, name, kind, system_prompt, input_example, output_schema, default_provider, default_model, webhook_url, created_at, updated_at`

	args := []any{
		id,
		cmd.Name,
		cmd.Kind,
		cmd.SystemPrompt,
		cmd.InputExample,
		nullableSchema(cmd),
		cmd.DefaultProvider,
		cmd.DefaultModel,
		cmd.WebhookURL,
	}

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAgent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("agent updated", "id", a.ID, "name", a.Name)
	return &a, nil
}

// Delete removes an agent. Steps referencing the agent block deletion:
// catalog entries are hard-deleted, so dangling references would silently
// corrupt templates that still compile today.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var refs int
		countQ := `
			SELECT (SELECT COUNT(*) FROM workflow_steps WHERE agent_id = $1)
				 + (SELECT COUNT(*) FROM workflow_step_members WHERE agent_id = $1)`
		if err := tx.QueryRowContext(ctx, countQ, id).Scan(&refs); err != nil {
			return struct{}{}, fmt.Errorf("count agent references: %w", err)
		}
		if refs > 0 {
			return struct{}{}, ErrInUse
		}

		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM agents WHERE id = $1", id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("agent deleted", "id", id)
	return nil
}

func nullableSchema(cmd SaveCommand) any {
	if len(cmd.OutputSchema) == 0 {
		return nil
	}
	return []byte(cmd.OutputSchema)
}
