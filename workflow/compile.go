package workflow

import (
	"github.com/google/uuid"
)

// Compile validates raw step rows against the template invariants and
// produces the ordered, fully-typed runtime. It is a pure function: loading
// rows from storage is the caller's job (see internal/templates).
//
// Invariants enforced, in order:
//   - positions form a contiguous 1..N sequence
//   - every source reference resolves to an existing, strictly earlier step
//   - references are type-compatible per the step kind
//   - group steps have at least one member
//   - render steps reference an existing render template
//   - at most one render step exists
//
// Rows must already be sorted by position.
func Compile(
	tpl Template,
	rows []StepRow,
	members map[uuid.UUID][]GroupMember,
	reviews map[uuid.UUID]ReviewConfig,
	renderTemplates map[uuid.UUID]RenderTemplate,
) (*Runtime, error) {
	for i, row := range rows {
		if row.Position != i+1 {
			return nil, structuralf(row.ID, "position %d breaks contiguous 1..%d sequence", row.Position, len(rows))
		}
		if !row.Kind.Valid() {
			return nil, structuralf(row.ID, "unknown step kind %q", row.Kind)
		}
	}

	index := make(map[uuid.UUID]StepRow, len(rows))
	for _, row := range rows {
		index[row.ID] = row
	}

	steps := make([]Step, 0, len(rows))
	renderSeen := false

	for _, row := range rows {
		meta := StepMeta{ID: row.ID, Position: row.Position, Label: row.Label}

		switch row.Kind {
		case KindAgent:
			if row.AgentID == nil {
				return nil, structuralf(row.ID, "agent step missing agent reference")
			}
			steps = append(steps, &AgentStep{StepMeta: meta, AgentID: *row.AgentID})

		case KindGroup:
			source, err := resolveSource(index, row, KindAgent, KindGroup, KindTranslator)
			if err != nil {
				return nil, err
			}
			groupMembers := members[row.ID]
			if len(groupMembers) == 0 {
				return nil, structuralf(row.ID, "group step has no members")
			}
			steps = append(steps, &GroupStep{
				StepMeta:  meta,
				InputFrom: source.ID,
				Members:   groupMembers,
			})

		case KindReviewGate:
			review, ok := reviews[row.ID]
			if !ok {
				return nil, structuralf(row.ID, "review gate step missing review config")
			}
			allowed, err := reviewSourceKinds(row.ID, review.SourceKind)
			if err != nil {
				return nil, err
			}
			source, err := resolveSource(index, row, allowed...)
			if err != nil {
				return nil, err
			}
			steps = append(steps, &ReviewGateStep{
				StepMeta:     meta,
				SourceStepID: source.ID,
				SourceKind:   review.SourceKind,
				GateKey:      review.GateKey,
				Title:        review.Title,
				Instructions: review.Instructions,
			})

		case KindTranslator:
			if row.AgentID == nil {
				return nil, structuralf(row.ID, "translator step missing translator agent reference")
			}
			source, err := resolveSource(index, row, KindGroup, KindReviewGate)
			if err != nil {
				return nil, err
			}
			steps = append(steps, &TranslatorStep{
				StepMeta:          meta,
				TranslatorAgentID: *row.AgentID,
				SourceStepID:      source.ID,
			})

		case KindRender:
			if renderSeen {
				return nil, structuralf(row.ID, "template has more than one render step")
			}
			renderSeen = true

			source, err := resolveSource(index, row, KindTranslator, KindReviewGate)
			if err != nil {
				return nil, err
			}
			if row.RenderTemplateID == nil {
				return nil, structuralf(row.ID, "render step missing render template reference")
			}
			if _, ok := renderTemplates[*row.RenderTemplateID]; !ok {
				return nil, structuralf(row.ID, "render template %s does not exist", *row.RenderTemplateID)
			}
			steps = append(steps, &RenderStep{
				StepMeta:         meta,
				SourceStepID:     source.ID,
				RenderTemplateID: *row.RenderTemplateID,
			})
		}
	}

	return &Runtime{Template: tpl, Steps: steps}, nil
}

// resolveSource looks up the row's source reference and validates that it
// exists, precedes the referencing step, and is of an allowed kind.
func resolveSource(index map[uuid.UUID]StepRow, row StepRow, allowed ...Kind) (StepRow, error) {
	if row.SourceStepID == nil {
		return StepRow{}, structuralf(row.ID, "%s step missing source reference", row.Kind)
	}

	source, ok := index[*row.SourceStepID]
	if !ok {
		return StepRow{}, structuralf(row.ID, "source step %s does not exist", *row.SourceStepID)
	}
	if source.Position >= row.Position {
		return StepRow{}, structuralf(row.ID, "source step %s does not precede step (position %d >= %d)",
			source.ID, source.Position, row.Position)
	}

	for _, kind := range allowed {
		if source.Kind == kind {
			return source, nil
		}
	}
	return StepRow{}, structuralf(row.ID, "source step %s has kind %s, want one of %v", source.ID, source.Kind, allowed)
}

// reviewSourceKinds maps a gate's declared source kind to the step kinds the
// referenced step may actually have: group gates review groups; agent gates
// review single agents or translators.
func reviewSourceKinds(stepID uuid.UUID, sourceKind Kind) ([]Kind, error) {
	switch sourceKind {
	case KindGroup:
		return []Kind{KindGroup}, nil
	case KindAgent:
		return []Kind{KindAgent, KindTranslator}, nil
	default:
		return nil, structuralf(stepID, "review gate source kind %q must be agent or group", sourceKind)
	}
}
