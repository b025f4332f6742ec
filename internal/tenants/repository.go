package tenants

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gfmozzer/lingua/internal/render"
	"github.com/gfmozzer/lingua/internal/templates"
	"github.com/gfmozzer/lingua/pkg/pagination"
	"github.com/gfmozzer/lingua/pkg/query"
	"github.com/gfmozzer/lingua/pkg/repository"
	"github.com/gfmozzer/lingua/workflow"
)

type repo struct {
	db         *sql.DB
	templates  templates.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a tenant workflow repository implementing the System interface.
// Template compilation is delegated to the templates system.
func New(db *sql.DB, tmpl templates.System, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		templates:  tmpl,
		logger:     logger.With("system", "tenant-workflows"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	tenantID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[TenantWorkflow], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("TenantID", &tenantID).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tenant workflows: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTenantWorkflow)
	if err != nil {
		return nil, fmt.Errorf("query tenant workflows: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Clone(ctx context.Context, tenantID uuid.UUID, cmd CloneCommand) (*TenantWorkflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	runtime, err := r.templates.BuildRuntimeWorkflow(ctx, cmd.TemplateID)
	if err != nil {
		return nil, err
	}
	if runtime.Render() == nil {
		return nil, ErrNoRenderStep
	}

	return repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*TenantWorkflow, error) {
		tw, err := repository.QueryOne(ctx, tx, `
			INSERT INTO tenant_workflows (id, tenant_id, template_id, name, version, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, tenant_id, template_id, name, version, status,
				llm_token_ref_default, created_at, updated_at`,
			[]any{uuid.New(), tenantID, cmd.TemplateID, cmd.Name, runtime.Template.Version, StatusDraft},
			scanTenantWorkflow,
		)
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		for _, step := range runtime.Steps {
			err := repository.ExecExpectOne(ctx, tx, `
				INSERT INTO tenant_workflow_steps
					(id, tenant_workflow_id, template_step_id, kind, position, label, source_step_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.New(), tw.ID, step.StepID(), step.StepKind(),
				step.StepPosition(), step.StepLabel(), workflow.SourceOf(step),
			)
			if err != nil {
				return nil, fmt.Errorf("insert tenant step %s: %w", step.StepID(), err)
			}
		}

		return &tw, nil
	})
}

func (r *repo) Resolve(ctx context.Context, tenantID, id uuid.UUID) (*ResolvedWorkflow, error) {
	tw, err := r.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	runtime, err := r.templates.BuildRuntimeWorkflow(ctx, tw.TemplateID)
	if err != nil {
		return nil, err
	}

	tenantSteps, err := r.loadTenantSteps(ctx, tw.ID)
	if err != nil {
		return nil, err
	}

	steps, err := workflow.ResolveSteps(runtime, tenantSteps)
	if err != nil {
		return nil, err
	}

	var (
		agents          map[uuid.UUID]workflow.AgentRef
		renderTemplates map[uuid.UUID]workflow.RenderTemplate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		agents, err = r.loadAgentRefs(gctx, agentIDs(runtime))
		return err
	})
	g.Go(func() error {
		var err error
		renderTemplates, err = r.loadRenderTemplates(gctx, renderTemplateIDs(runtime))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ResolvedWorkflow{
		Workflow:        *tw,
		Template:        runtime.Template,
		Steps:           steps,
		Agents:          agents,
		RenderTemplates: renderTemplates,
		Runtime:         runtime,
	}, nil
}

func (r *repo) SaveSettings(
	ctx context.Context,
	tenantID, id uuid.UUID,
	cmd SaveSettingsCommand,
) (*TenantWorkflow, error) {
	return repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*TenantWorkflow, error) {
		tw, err := repository.QueryOne(ctx, tx, `
			SELECT id, tenant_id, template_id, name, version, status,
				llm_token_ref_default, created_at, updated_at
			FROM tenant_workflows
			WHERE id = $1 AND tenant_id = $2
			FOR UPDATE`,
			[]any{id, tenantID}, scanTenantWorkflow,
		)
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		stored, err := repository.QueryMany(ctx, tx, tenantStepSQL,
			[]any{tw.ID}, scanTenantStep,
		)
		if err != nil {
			return nil, fmt.Errorf("query tenant steps: %w", err)
		}

		if len(cmd.Steps) != len(stored) {
			return nil, fmt.Errorf("settings cover %d of %d steps: %w",
				len(cmd.Steps), len(stored), ErrInvalid)
		}

		byID := make(map[uuid.UUID]workflow.TenantStep, len(stored))
		for _, ts := range stored {
			byID[ts.ID] = ts
		}

		for _, s := range cmd.Steps {
			ts, ok := byID[s.ID]
			if !ok {
				return nil, fmt.Errorf("unknown step %s: %w", s.ID, ErrInvalid)
			}
			if err := checkStructureEcho(s, ts); err != nil {
				return nil, err
			}

			// Override HTML goes through the same policy as the catalog's
			// render templates before it is persisted.
			if s.Overrides.RenderHTML != nil {
				clean := render.Sanitize(*s.Overrides.RenderHTML)
				s.Overrides.RenderHTML = &clean
			}

			var configJSON []byte
			if len(s.Overrides.Config) > 0 {
				if configJSON, err = marshalConfig(s.Overrides.Config); err != nil {
					return nil, fmt.Errorf("step %s: %w", s.ID, err)
				}
			}

			err := repository.ExecExpectOne(ctx, tx, `
				UPDATE tenant_workflow_steps
				SET system_prompt_override = $1,
					llm_provider_override = $2,
					llm_token_ref_override = $3,
					render_html_override = $4,
					config_override = $5
				WHERE id = $6 AND tenant_workflow_id = $7`,
				s.Overrides.SystemPrompt,
				s.Overrides.LLMProvider,
				s.Overrides.LLMTokenRef,
				s.Overrides.RenderHTML,
				configJSON,
				s.ID, tw.ID,
			)
			if err != nil {
				return nil, fmt.Errorf("update step %s: %w", s.ID, err)
			}
		}

		status := tw.Status
		if cmd.Status != nil {
			if *cmd.Status != StatusDraft && *cmd.Status != StatusReady {
				return nil, fmt.Errorf("status %q: %w", *cmd.Status, ErrInvalid)
			}
			status = *cmd.Status
		}

		token := tw.LLMTokenRefDefault
		if cmd.LLMTokenRefDefault != nil {
			token = cmd.LLMTokenRefDefault
		}
		if status == StatusReady && (token == nil || *token == "") {
			return nil, ErrTokenRequired
		}

		updated, err := repository.QueryOne(ctx, tx, `
			UPDATE tenant_workflows
			SET status = $1, llm_token_ref_default = $2, updated_at = $3
			WHERE id = $4 AND tenant_id = $5
			RETURNING id, tenant_id, template_id, name, version, status,
				llm_token_ref_default, created_at, updated_at`,
			[]any{status, token, time.Now().UTC(), tw.ID, tenantID},
			scanTenantWorkflow,
		)
		if err != nil {
			return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		return &updated, nil
	})
}

func (r *repo) find(ctx context.Context, tenantID, id uuid.UUID) (*TenantWorkflow, error) {
	tw, err := repository.QueryOne(ctx, r.db, `
		SELECT id, tenant_id, template_id, name, version, status,
			llm_token_ref_default, created_at, updated_at
		FROM tenant_workflows
		WHERE id = $1 AND tenant_id = $2`,
		[]any{id, tenantID}, scanTenantWorkflow,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &tw, nil
}

const tenantStepSQL = `
	SELECT id, template_step_id, kind, position, label, source_step_id,
		system_prompt_override, llm_provider_override, llm_token_ref_override,
		render_html_override, config_override
	FROM tenant_workflow_steps
	WHERE tenant_workflow_id = $1
	ORDER BY position`

func (r *repo) loadTenantSteps(ctx context.Context, workflowID uuid.UUID) ([]workflow.TenantStep, error) {
	steps, err := repository.QueryMany(ctx, r.db, tenantStepSQL, []any{workflowID}, scanTenantStep)
	if err != nil {
		return nil, fmt.Errorf("query tenant steps: %w", err)
	}
	return steps, nil
}

func (r *repo) loadAgentRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]workflow.AgentRef, error) {
	refs := make(map[uuid.UUID]workflow.AgentRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	clause, args := repository.InClause(1, uuidArgs(ids))
	rows, err := repository.QueryMany(ctx, r.db, `
		SELECT id, name, kind, system_prompt, default_provider, default_model
		FROM agents
		WHERE id IN `+clause,
		args,
		func(s repository.Scanner) (workflow.AgentRef, error) {
			var a workflow.AgentRef
			err := s.Scan(&a.ID, &a.Name, &a.Kind, &a.SystemPrompt, &a.DefaultProvider, &a.DefaultModel)
			return a, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query agent refs: %w", err)
	}

	for _, a := range rows {
		refs[a.ID] = a
	}
	return refs, nil
}

func (r *repo) loadRenderTemplates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]workflow.RenderTemplate, error) {
	templates := make(map[uuid.UUID]workflow.RenderTemplate, len(ids))
	if len(ids) == 0 {
		return templates, nil
	}

	clause, args := repository.InClause(1, uuidArgs(ids))
	rows, err := repository.QueryMany(ctx, r.db,
		"SELECT id, name, html FROM render_templates WHERE id IN "+clause,
		args,
		func(s repository.Scanner) (workflow.RenderTemplate, error) {
			var rt workflow.RenderTemplate
			err := s.Scan(&rt.ID, &rt.Name, &rt.HTML)
			return rt, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query render templates: %w", err)
	}

	for _, rt := range rows {
		templates[rt.ID] = rt
	}
	return templates, nil
}

// checkStructureEcho rejects settings payloads that try to rewrite a step's
// structural fields. Absent echo fields are accepted as-is.
func checkStructureEcho(s StepSettings, stored workflow.TenantStep) error {
	if s.Kind != nil && *s.Kind != stored.Kind {
		return fmt.Errorf("step %s kind: %w", s.ID, ErrImmutableField)
	}
	if s.Position != nil && *s.Position != stored.Position {
		return fmt.Errorf("step %s position: %w", s.ID, ErrImmutableField)
	}
	if s.SourceStepID != nil {
		if stored.SourceStepID == nil || *s.SourceStepID != *stored.SourceStepID {
			return fmt.Errorf("step %s source: %w", s.ID, ErrImmutableField)
		}
	}
	return nil
}

func agentIDs(runtime *workflow.Runtime) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, step := range runtime.Steps {
		switch s := step.(type) {
		case *workflow.AgentStep:
			add(s.AgentID)
		case *workflow.GroupStep:
			for _, m := range s.Members {
				add(m.AgentID)
			}
		case *workflow.TranslatorStep:
			add(s.TranslatorAgentID)
		}
	}
	return ids
}

func renderTemplateIDs(runtime *workflow.Runtime) []uuid.UUID {
	var ids []uuid.UUID
	for _, step := range runtime.Steps {
		if rs, ok := step.(*workflow.RenderStep); ok {
			ids = append(ids, rs.RenderTemplateID)
		}
	}
	return ids
}

func uuidArgs(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
