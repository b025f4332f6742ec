package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefinitionInput carries everything BuildDefinition needs beyond the
// runtime and resolved steps: the tenant workflow identity, its default
// token, and the referenced agent and render-template rows.
type DefinitionInput struct {
	TenantWorkflowID uuid.UUID
	DefaultTokenRef  string
	GeneratedAt      time.Time
	Agents           map[uuid.UUID]AgentRef
	RenderTemplates  map[uuid.UUID]RenderTemplate
}

// BuildDefinition flattens a resolved tenant workflow into the frozen job
// definition. Per step, effective content resolves override-then-template-
// then-default: system prompt and provider fall back to the referenced
// agent's defaults, token ref to the tenant default, render HTML to the
// referenced render template's HTML. Group topology and review-gate metadata
// always come from the template runtime, never from overrides.
func BuildDefinition(rt *Runtime, resolved []ResolvedStep, in DefinitionInput) (*Definition, error) {
	if len(resolved) != len(rt.Steps) {
		return nil, fmt.Errorf("%w: %d resolved steps for %d runtime steps",
			ErrStaleClone, len(resolved), len(rt.Steps))
	}

	generatedAt := in.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	finals := make([]FinalStep, 0, len(resolved))
	for i, rs := range resolved {
		step := rt.Steps[i]
		if step.StepID() != rs.TemplateStepID {
			return nil, fmt.Errorf("%w: resolved step %s out of order with runtime step %s",
				ErrStaleClone, rs.TemplateStepID, step.StepID())
		}

		final := FinalStep{
			ID:       step.StepID(),
			Kind:     step.StepKind(),
			Position: step.StepPosition(),
			Label:    step.StepLabel(),
			Config:   mergeConfig(rs.TemplateConfig, rs.Overrides.Config),
			TokenRef: coalesce(rs.Overrides.LLMTokenRef, in.DefaultTokenRef),
		}

		switch s := step.(type) {
		case *AgentStep:
			agent, err := lookupAgent(in.Agents, s.AgentID, s.ID)
			if err != nil {
				return nil, err
			}
			id := s.AgentID
			final.AgentID = &id
			final.SystemPrompt = coalesce(rs.Overrides.SystemPrompt, agent.SystemPrompt)
			final.Provider = coalesce(rs.Overrides.LLMProvider, agent.DefaultProvider)

		case *GroupStep:
			from := s.InputFrom
			final.InputFrom = &from
			final.Members = s.Members
			final.SystemPrompt = coalesce(rs.Overrides.SystemPrompt, "")
			final.Provider = coalesce(rs.Overrides.LLMProvider, "")

		case *ReviewGateStep:
			src := s.SourceStepID
			final.SourceStepID = &src
			final.GateKey = s.GateKey
			final.InputKind = s.SourceKind
			final.Title = s.Title
			final.Instructions = s.Instructions

		case *TranslatorStep:
			agent, err := lookupAgent(in.Agents, s.TranslatorAgentID, s.ID)
			if err != nil {
				return nil, err
			}
			id := s.TranslatorAgentID
			src := s.SourceStepID
			final.TranslatorAgentID = &id
			final.SourceStepID = &src
			final.SystemPrompt = coalesce(rs.Overrides.SystemPrompt, agent.SystemPrompt)
			final.Provider = coalesce(rs.Overrides.LLMProvider, agent.DefaultProvider)

		case *RenderStep:
			src := s.SourceStepID
			final.SourceStepID = &src
			final.RenderHTML = renderHTML(rs.Overrides.RenderHTML, in.RenderTemplates, s.RenderTemplateID)
		}

		finals = append(finals, final)
	}

	return &Definition{
		TenantWorkflowID: in.TenantWorkflowID,
		TemplateID:       rt.Template.ID,
		DefaultTokenRef:  in.DefaultTokenRef,
		GeneratedAt:      generatedAt,
		Steps:            finals,
	}, nil
}

func lookupAgent(agents map[uuid.UUID]AgentRef, agentID, stepID uuid.UUID) (AgentRef, error) {
	agent, ok := agents[agentID]
	if !ok {
		return AgentRef{}, structuralf(stepID, "agent %s does not exist", agentID)
	}
	return agent, nil
}

func renderHTML(override *string, templates map[uuid.UUID]RenderTemplate, id uuid.UUID) string {
	if override != nil && *override != "" {
		return *override
	}
	if tpl, ok := templates[id]; ok {
		return tpl.HTML
	}
	return ""
}

func coalesce(override *string, fallback string) string {
	if override != nil && *override != "" {
		return *override
	}
	return fallback
}
