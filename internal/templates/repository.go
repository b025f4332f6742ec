package templates

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/pkg/pagination"
	"github.com/gfmozzer/lingua/pkg/query"
	"github.com/gfmozzer/lingua/pkg/repository"
	"github.com/gfmozzer/lingua/workflow"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a workflow template repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "templates"),
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
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count templates: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTemplate)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
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
		INSERT INTO workflow_templates(id, name, description, version)
		VALUES ($1, $2, $3, 1)
		RETURNING id, name, description, version, created_at, updated_at`

	t, err := repository.QueryOne(ctx, r.db, q, []any{uuid.New(), cmd.Name, cmd.Description}, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template created", "id", t.ID, "name", t.Name)
	return &t, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd SaveCommand) (*Template, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		UPDATE workflow_templates
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, version, created_at, updated_at`

	t, err := repository.QueryOne(ctx, r.db, q, []any{id, cmd.Name, cmd.Description}, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template updated", "id", t.ID, "name", t.Name)
	return &t, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM workflow_templates WHERE id = $1", id)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template deleted", "id", id)
	return nil
}

// ReplaceSteps swaps the template's full step-set. The new set is compiled
// before the transaction commits; any structural violation rolls everything
// back, so a template's persisted steps always compile. Each successful
// save bumps the template version.
func (r *repo) ReplaceSteps(ctx context.Context, id uuid.UUID, cmd ReplaceStepsCommand) (*workflow.Runtime, error) {
	rows, members, reviews := stepsFromInput(cmd.Steps)

	return repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*workflow.Runtime, error) {
		bumpQ := `
			UPDATE workflow_templates
			SET version = version + 1, updated_at = now()
			WHERE id = $1
			RETURNING id, name, description, version, created_at, updated_at`

		tpl, err := repository.QueryOne(ctx, tx, bumpQ, []any{id}, scanTemplate)
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM workflow_steps WHERE template_id = $1", id); err != nil {
			return nil, fmt.Errorf("clear template steps: %w", err)
		}

		for i, step := range cmd.Steps {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO workflow_steps(id, template_id, position, kind, label, agent_id, source_step_id, render_template_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				step.ID, id, i+1, step.Kind, step.Label, step.AgentID, step.SourceStepID, step.RenderTemplateID,
			)
			if err != nil {
				return nil, repository.MapError(fmt.Errorf("insert step %s: %w", step.ID, err), ErrNotFound, ErrDuplicate)
			}

			for _, m := range step.Members {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO workflow_step_members(step_id, agent_id, position)
					VALUES ($1, $2, $3)`,
					step.ID, m.AgentID, m.Position,
				)
				if err != nil {
					return nil, fmt.Errorf("insert group member for step %s: %w", step.ID, err)
				}
			}

			if step.Review != nil {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO workflow_step_reviews(step_id, gate_key, source_kind, title, instructions)
					VALUES ($1, $2, $3, $4, $5)`,
					step.ID, step.Review.GateKey, step.Review.SourceKind, step.Review.Title, step.Review.Instructions,
				)
				if err != nil {
					return nil, fmt.Errorf("insert review config for step %s: %w", step.ID, err)
				}
			}
		}

		renderTemplates, err := loadRenderTemplates(ctx, tx, renderTemplateIDs(rows))
		if err != nil {
			return nil, err
		}

		runtime, err := workflow.Compile(tpl.Meta(), rows, members, reviews, renderTemplates)
		if err != nil {
			return nil, err
		}

		r.logger.Info("template steps replaced",
			"id", tpl.ID,
			"version", tpl.Version,
			"steps", len(runtime.Steps),
		)
		return runtime, nil
	})
}

func stepsFromInput(steps []StepInput) (
	[]workflow.StepRow,
	map[uuid.UUID][]workflow.GroupMember,
	map[uuid.UUID]workflow.ReviewConfig,
) {
	rows := make([]workflow.StepRow, 0, len(steps))
	members := make(map[uuid.UUID][]workflow.GroupMember)
	reviews := make(map[uuid.UUID]workflow.ReviewConfig)

	for i, step := range steps {
		rows = append(rows, workflow.StepRow{
			ID:               step.ID,
			Position:         i + 1,
			Kind:             step.Kind,
			Label:            step.Label,
			AgentID:          step.AgentID,
			SourceStepID:     step.SourceStepID,
			RenderTemplateID: step.RenderTemplateID,
		})
		if len(step.Members) > 0 {
			members[step.ID] = step.Members
		}
		if step.Review != nil {
			reviews[step.ID] = *step.Review
		}
	}

	return rows, members, reviews
}
