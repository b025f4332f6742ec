package templates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/pkg/repository"
	"github.com/gfmozzer/lingua/workflow"
)

// BuildRuntimeWorkflow loads a template's raw step rows, group members,
// review configs, and referenced render templates, then compiles them into
// the ordered, fully-typed runtime. Pure read plus validation: no writes.
func (r *repo) BuildRuntimeWorkflow(ctx context.Context, id uuid.UUID) (*workflow.Runtime, error) {
	tpl, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, members, reviews, err := loadStepRows(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	renderTemplates, err := loadRenderTemplates(ctx, r.db, renderTemplateIDs(rows))
	if err != nil {
		return nil, err
	}

	return workflow.Compile(tpl.Meta(), rows, members, reviews, renderTemplates)
}

func loadStepRows(ctx context.Context, q repository.Querier, templateID uuid.UUID) (
	[]workflow.StepRow,
	map[uuid.UUID][]workflow.GroupMember,
	map[uuid.UUID]workflow.ReviewConfig,
	error,
) {
	rows, err := repository.QueryMany(ctx, q, `
		SELECT id, position, kind, label, agent_id, source_step_id, render_template_id
		FROM workflow_steps
		WHERE template_id = $1
		ORDER BY position`,
		[]any{templateID}, scanStepRow,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query template steps: %w", err)
	}

	members := make(map[uuid.UUID][]workflow.GroupMember)
	memberRows, err := q.QueryContext(ctx, `
		SELECT m.step_id, m.agent_id, m.position
		FROM workflow_step_members m
		JOIN workflow_steps s ON s.id = m.step_id
		WHERE s.template_id = $1
		ORDER BY m.step_id, m.position`,
		templateID,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query group members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var stepID uuid.UUID
		var m workflow.GroupMember
		if err := memberRows.Scan(&stepID, &m.AgentID, &m.Position); err != nil {
			return nil, nil, nil, fmt.Errorf("scan group member: %w", err)
		}
		members[stepID] = append(members[stepID], m)
	}
	if err := memberRows.Err(); err != nil {
		return nil, nil, nil, err
	}

	reviews := make(map[uuid.UUID]workflow.ReviewConfig)
	reviewRows, err := q.QueryContext(ctx, `
		SELECT rc.step_id, rc.gate_key, rc.source_kind, rc.title, rc.instructions
		FROM workflow_step_reviews rc
		JOIN workflow_steps s ON s.id = rc.step_id
		WHERE s.template_id = $1`,
		templateID,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query review configs: %w", err)
	}
	defer reviewRows.Close()

	for reviewRows.Next() {
		var stepID uuid.UUID
		var rc workflow.ReviewConfig
		if err := reviewRows.Scan(&stepID, &rc.GateKey, &rc.SourceKind, &rc.Title, &rc.Instructions); err != nil {
			return nil, nil, nil, fmt.Errorf("scan review config: %w", err)
		}
		reviews[stepID] = rc
	}
	if err := reviewRows.Err(); err != nil {
		return nil, nil, nil, err
	}

	return rows, members, reviews, nil
}

func loadRenderTemplates(ctx context.Context, q repository.Querier, ids []uuid.UUID) (map[uuid.UUID]workflow.RenderTemplate, error) {
	templates := make(map[uuid.UUID]workflow.RenderTemplate, len(ids))
	if len(ids) == 0 {
		return templates, nil
	}

	clause, args := repository.InClause(1, uuidArgs(ids))
	rows, err := repository.QueryMany(ctx, q,
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

func renderTemplateIDs(rows []workflow.StepRow) []uuid.UUID {
	var ids []uuid.UUID
	for _, row := range rows {
		if row.Kind == workflow.KindRender && row.RenderTemplateID != nil {
			ids = append(ids, *row.RenderTemplateID)
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
