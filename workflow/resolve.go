package workflow

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// ResolveSteps merges a compiled runtime with a tenant workflow's steps.
// Structural fields always come from the template runtime; overrides pass
// through verbatim from the tenant step, with Config normalized to a non-nil
// map so downstream merges never branch on nil.
//
// A step-count mismatch, or a template step with no matching tenant row,
// fails loudly with ErrStaleClone: the clone predates a template edit and
// can no longer be trusted.
func ResolveSteps(rt *Runtime, tenantSteps []TenantStep) ([]ResolvedStep, error) {
	if len(tenantSteps) != len(rt.Steps) {
		return nil, fmt.Errorf("%w: template has %d steps, clone has %d",
			ErrStaleClone, len(rt.Steps), len(tenantSteps))
	}

	byTemplateStep := make(map[uuid.UUID]TenantStep, len(tenantSteps))
	for _, ts := range tenantSteps {
		byTemplateStep[ts.TemplateStepID] = ts
	}

	resolved := make([]ResolvedStep, 0, len(rt.Steps))
	for _, step := range rt.Steps {
		tenantStep, ok := byTemplateStep[step.StepID()]
		if !ok {
			return nil, fmt.Errorf("%w: no tenant step mirrors template step %s",
				ErrStaleClone, step.StepID())
		}

		overrides := tenantStep.Overrides
		if overrides.Config == nil {
			overrides.Config = map[string]any{}
		}

		resolved = append(resolved, ResolvedStep{
			TemplateStepID: step.StepID(),
			TenantStepID:   tenantStep.ID,
			Kind:           step.StepKind(),
			Position:       step.StepPosition(),
			Label:          step.StepLabel(),
			SourceStepID:   SourceOf(step),
			TemplateConfig: templateConfig(step),
			Overrides:      overrides,
		})
	}

	return resolved, nil
}

// templateConfig projects a step's structural metadata into the open config
// map carried by resolved steps and, merged with overrides, by job definitions.
func templateConfig(step Step) map[string]any {
	cfg := map[string]any{}

	switch s := step.(type) {
	case *AgentStep:
		cfg["agent_id"] = s.AgentID.String()
	case *GroupStep:
		cfg["input_from"] = s.InputFrom.String()
		cfg["members"] = s.Members
	case *ReviewGateStep:
		cfg["gate_key"] = s.GateKey
		cfg["input_kind"] = string(s.SourceKind)
		cfg["title"] = s.Title
		cfg["instructions"] = s.Instructions
		cfg["source_step_id"] = s.SourceStepID.String()
	case *TranslatorStep:
		cfg["translator_agent_id"] = s.TranslatorAgentID.String()
		cfg["source_step_id"] = s.SourceStepID.String()
	case *RenderStep:
		cfg["render_template_id"] = s.RenderTemplateID.String()
		cfg["source_step_id"] = s.SourceStepID.String()
	}

	return cfg
}

// mergeConfig overlays override keys onto base; override wins on collision.
func mergeConfig(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	maps.Copy(merged, base)
	maps.Copy(merged, override)
	return merged
}

// SourceOf returns the step's source reference (input_from for groups,
// source_step_id otherwise), or nil for agent steps.
func SourceOf(step Step) *uuid.UUID {
	switch s := step.(type) {
	case *GroupStep:
		id := s.InputFrom
		return &id
	case *ReviewGateStep:
		id := s.SourceStepID
		return &id
	case *TranslatorStep:
		id := s.SourceStepID
		return &id
	case *RenderStep:
		id := s.SourceStepID
		return &id
	}
	return nil
}
