package workflow_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/workflow"
)

var (
	ocrAgentID        = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	extractAgentID    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	translatorAgentID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	renderTemplateID  = uuid.MustParse("44444444-4444-4444-4444-444444444444")

	ocrStepID        = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	groupStepID      = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	gateStepID       = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000003")
	translateStepID  = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000004")
	renderStepID     = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000005")
)

func ptr[T any](v T) *T { return &v }

// pipelineRows returns a valid five-step template: ocr agent, extraction
// group over it, review gate on the group, translator, final render.
func pipelineRows() []workflow.StepRow {
	return []workflow.StepRow{
		{ID: ocrStepID, Position: 1, Kind: workflow.KindAgent, Label: "ocr", AgentID: ptr(ocrAgentID)},
		{ID: groupStepID, Position: 2, Kind: workflow.KindGroup, Label: "extract", SourceStepID: ptr(ocrStepID)},
		{ID: gateStepID, Position: 3, Kind: workflow.KindReviewGate, Label: "review", SourceStepID: ptr(groupStepID)},
		{ID: translateStepID, Position: 4, Kind: workflow.KindTranslator, Label: "translate", AgentID: ptr(translatorAgentID), SourceStepID: ptr(gateStepID)},
		{ID: renderStepID, Position: 5, Kind: workflow.KindRender, Label: "render", SourceStepID: ptr(translateStepID), RenderTemplateID: ptr(renderTemplateID)},
	}
}

func pipelineMembers() map[uuid.UUID][]workflow.GroupMember {
	return map[uuid.UUID][]workflow.GroupMember{
		groupStepID: {{AgentID: extractAgentID, Position: 1}},
	}
}

func pipelineReviews() map[uuid.UUID]workflow.ReviewConfig {
	return map[uuid.UUID]workflow.ReviewConfig{
		gateStepID: {GateKey: "rv1", SourceKind: workflow.KindGroup, Title: "Check extraction"},
	}
}

func pipelineRenderTemplates() map[uuid.UUID]workflow.RenderTemplate {
	return map[uuid.UUID]workflow.RenderTemplate{
		renderTemplateID: {ID: renderTemplateID, Name: "certificate", HTML: "<html></html>"},
	}
}

func compile(rows []workflow.StepRow) (*workflow.Runtime, error) {
	return workflow.Compile(
		workflow.Template{ID: uuid.New(), Name: "birth-certificate", Version: 3},
		rows,
		pipelineMembers(),
		pipelineReviews(),
		pipelineRenderTemplates(),
	)
}

func TestCompileValidPipeline(t *testing.T) {
	rt, err := compile(pipelineRows())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rt.Steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(rt.Steps))
	}

	group, ok := rt.Steps[1].(*workflow.GroupStep)
	if !ok {
		t.Fatalf("step 2 is %T, want *GroupStep", rt.Steps[1])
	}
	if group.InputFrom != ocrStepID {
		t.Errorf("group input from %s, want %s", group.InputFrom, ocrStepID)
	}
	if len(group.Members) != 1 || group.Members[0].AgentID != extractAgentID {
		t.Errorf("unexpected group members: %+v", group.Members)
	}

	gate, ok := rt.Steps[2].(*workflow.ReviewGateStep)
	if !ok {
		t.Fatalf("step 3 is %T, want *ReviewGateStep", rt.Steps[2])
	}
	if gate.GateKey != "rv1" || gate.SourceStepID != groupStepID {
		t.Errorf("unexpected gate: %+v", gate)
	}

	render := rt.Render()
	if render == nil {
		t.Fatal("expected a render step")
	}
	if render.RenderTemplateID != renderTemplateID {
		t.Errorf("render template %s, want %s", render.RenderTemplateID, renderTemplateID)
	}
}

func TestCompileStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(rows []workflow.StepRow) []workflow.StepRow
	}{
		{
			name: "position gap",
			mutate: func(rows []workflow.StepRow) []workflow.StepRow {
				rows[4].Position = 7
				return rows
			},
		},
		{
			name: "duplicate position",
			mutate: func(rows []workflow.StepRow) []workflow.StepRow {
				rows[1].Position = 1
				return rows
			},
		},
		{
			name: "forward reference",
			mutate: func(rows []workflow.StepRow) []workflow.StepRow {
				rows[1].SourceStepID = ptr(gateStepID)
				return rows
			},
		},
		{
			name: "missing source step",
			mutate: func(rows []workflow.StepRow) []workflow.StepRow {
				rows[1].SourceStepID = ptr(uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"))
				return rows
			},
		},
		{
			name: "agent step without agent",
			mutate: func(rows []workflow.StepRow) []workflow.StepRow {
				rows[0].AgentID = nil
				return rows
			},
		},
		{
			name: "render sourcing an agent",
			mutate: func(rows []workflow.StepRow) []workflow.StepRow {
				rows[4].SourceStepID = ptr(ocrStepID)
				return rows
			},
		},
		{
			name: "second render step",
			mutate: func(rows []workflow.StepRow) []workflow.StepRow {
				return append(rows, workflow.StepRow{
					ID:               uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000006"),
					Position:         6,
					Kind:             workflow.KindRender,
					SourceStepID:     ptr(translateStepID),
					RenderTemplateID: ptr(renderTemplateID),
				})
			},
		},
		{
			name: "render without template",
			mutate: func(rows []workflow.StepRow) []workflow.StepRow {
				rows[4].RenderTemplateID = nil
				return rows
			},
		},
		{
			name: "unknown kind",
			mutate: func(rows []workflow.StepRow) []workflow.StepRow {
				rows[0].Kind = workflow.Kind("summarize")
				return rows
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(tt.mutate(pipelineRows()))
			if err == nil {
				t.Fatal("expected structural error, got nil")
			}
			if !errors.Is(err, workflow.ErrInvalidStructure) {
				t.Errorf("error %v does not wrap ErrInvalidStructure", err)
			}
		})
	}
}

func TestCompileGroupWithoutMembers(t *testing.T) {
	_, err := workflow.Compile(
		workflow.Template{ID: uuid.New()},
		pipelineRows(),
		map[uuid.UUID][]workflow.GroupMember{},
		pipelineReviews(),
		pipelineRenderTemplates(),
	)
	if !errors.Is(err, workflow.ErrInvalidStructure) {
		t.Fatalf("expected ErrInvalidStructure, got %v", err)
	}
}

func TestCompileGateWithoutConfig(t *testing.T) {
	_, err := workflow.Compile(
		workflow.Template{ID: uuid.New()},
		pipelineRows(),
		pipelineMembers(),
		map[uuid.UUID]workflow.ReviewConfig{},
		pipelineRenderTemplates(),
	)
	if !errors.Is(err, workflow.ErrInvalidStructure) {
		t.Fatalf("expected ErrInvalidStructure, got %v", err)
	}
}

func TestCompileAgentGateAcceptsTranslatorSource(t *testing.T) {
	// An agent-sourced gate placed after the translator reviews its output.
	rows := []workflow.StepRow{
		{ID: ocrStepID, Position: 1, Kind: workflow.KindAgent, AgentID: ptr(ocrAgentID)},
		{ID: groupStepID, Position: 2, Kind: workflow.KindGroup, SourceStepID: ptr(ocrStepID)},
		{ID: translateStepID, Position: 3, Kind: workflow.KindTranslator, AgentID: ptr(translatorAgentID), SourceStepID: ptr(groupStepID)},
		{ID: gateStepID, Position: 4, Kind: workflow.KindReviewGate, SourceStepID: ptr(translateStepID)},
		{ID: renderStepID, Position: 5, Kind: workflow.KindRender, SourceStepID: ptr(gateStepID), RenderTemplateID: ptr(renderTemplateID)},
	}

	_, err := workflow.Compile(
		workflow.Template{ID: uuid.New()},
		rows,
		pipelineMembers(),
		map[uuid.UUID]workflow.ReviewConfig{
			gateStepID: {GateKey: "rv1", SourceKind: workflow.KindAgent},
		},
		pipelineRenderTemplates(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
