// Package tenants implements tenant workflows: per-tenant clones of global
// workflow templates carrying local prompt, provider, token, and render
// overrides. Structure is copied from the template at clone time and stays
// immutable; only the five override fields and workflow settings may change.
package tenants

import (
	"time"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/workflow"
)

// Tenant workflow statuses. Transitions are operator-controlled; ready
// requires a non-empty default token.
const (
	StatusDraft = "draft"
	StatusReady = "ready"
)

// TenantWorkflow is a tenant-scoped clone of a workflow template.
type TenantWorkflow struct {
	ID                 uuid.UUID `json:"id"`
	TenantID           uuid.UUID `json:"tenant_id"`
	TemplateID         uuid.UUID `json:"template_id"`
	Name               string    `json:"name"`
	Version            int       `json:"version"`
	Status             string    `json:"status"`
	LLMTokenRefDefault *string   `json:"llm_token_ref_default,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CloneCommand creates a tenant workflow from a template.
type CloneCommand struct {
	TemplateID uuid.UUID `json:"template_id"`
	Name       string    `json:"name"`
}

// Validate enforces a template reference and non-empty name.
func (c *CloneCommand) Validate() error {
	if c.TemplateID == uuid.Nil || c.Name == "" {
		return ErrInvalid
	}
	return nil
}

// StepSettings carries one step's override fields for a settings save.
// The structural echo fields, when present, must match the stored step;
// any attempt to rewrite structure is rejected rather than ignored.
type StepSettings struct {
	ID           uuid.UUID          `json:"id"`
	Kind         *workflow.Kind     `json:"kind,omitempty"`
	Position     *int               `json:"position,omitempty"`
	SourceStepID *uuid.UUID         `json:"source_step_id,omitempty"`
	Overrides    workflow.Overrides `json:"overrides"`
}

// SaveSettingsCommand updates a tenant workflow's settings and per-step
// overrides in one transaction. Steps must cover the clone's full step-set.
type SaveSettingsCommand struct {
	Status             *string        `json:"status,omitempty"`
	LLMTokenRefDefault *string        `json:"llm_token_ref_default,omitempty"`
	Steps              []StepSettings `json:"steps"`
}

// ResolvedWorkflow is a tenant workflow merged with its compiled template:
// workflow and template metadata, the resolved step list, and the agent and
// render-template rows the steps reference.
type ResolvedWorkflow struct {
	Workflow        TenantWorkflow                        `json:"workflow"`
	Template        workflow.Template                     `json:"template"`
	Steps           []workflow.ResolvedStep               `json:"steps"`
	Agents          map[uuid.UUID]workflow.AgentRef       `json:"agents"`
	RenderTemplates map[uuid.UUID]workflow.RenderTemplate `json:"render_templates"`

	// Runtime is the compiled template backing this resolution; consumed by
	// the job compiler, not serialized.
	Runtime *workflow.Runtime `json:"-"`
}
