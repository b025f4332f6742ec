// Package workflow defines the typed step graph for document-translation
// workflow templates and the pure transformations over it: compiling raw step
// rows into a validated runtime, merging tenant overrides, and flattening a
// resolved workflow into the frozen definition a job carries for its lifetime.
package workflow

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the step variants of a workflow template.
type Kind string

const (
	KindAgent      Kind = "agent"
	KindGroup      Kind = "group"
	KindReviewGate Kind = "review_gate"
	KindTranslator Kind = "translator"
	KindRender     Kind = "render"
)

// Valid reports whether k is one of the five step kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindAgent, KindGroup, KindReviewGate, KindTranslator, KindRender:
		return true
	}
	return false
}

// Template carries workflow template metadata.
type Template struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     int       `json:"version"`
}

// StepRow is a raw workflow step as stored, prior to compilation.
// Kind-specific columns are nullable; Compile enforces which must be set.
type StepRow struct {
	ID               uuid.UUID  `json:"id"`
	Position         int        `json:"position"`
	Kind             Kind       `json:"kind"`
	Label            string     `json:"label"`
	AgentID          *uuid.UUID `json:"agent_id,omitempty"`
	SourceStepID     *uuid.UUID `json:"source_step_id,omitempty"`
	RenderTemplateID *uuid.UUID `json:"render_template_id,omitempty"`
}

// GroupMember is one agent reference inside a group step's fan-out.
type GroupMember struct {
	AgentID  uuid.UUID `json:"agent_id"`
	Position int       `json:"position"`
}

// ReviewConfig is the review-gate configuration row keyed by step id.
// SourceKind is restricted to KindAgent or KindGroup.
type ReviewConfig struct {
	GateKey      string `json:"gate_key"`
	SourceKind   Kind   `json:"source_kind"`
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
}

// RenderTemplate is the render-template row referenced by render steps.
type RenderTemplate struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	HTML string    `json:"html"`
}

// AgentRef carries the agent catalog fields the compiler and definition
// builder need; the full Agent entity lives in the agents domain.
type AgentRef struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Kind            string    `json:"kind"`
	SystemPrompt    string    `json:"system_prompt"`
	DefaultProvider string    `json:"default_provider"`
	DefaultModel    string    `json:"default_model"`
}

// Step is the tagged union over the five step variants. Consumption sites
// switch on the concrete type; adding a variant is a compile-checked change.
type Step interface {
	StepID() uuid.UUID
	StepKind() Kind
	StepPosition() int
	StepLabel() string
}

// StepMeta holds the fields common to every step variant.
type StepMeta struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
	Label    string    `json:"label"`
}

func (m StepMeta) StepID() uuid.UUID { return m.ID }
func (m StepMeta) StepPosition() int { return m.Position }
func (m StepMeta) StepLabel() string { return m.Label }

// AgentStep runs a single catalog agent over the job's current input.
type AgentStep struct {
	StepMeta
	AgentID uuid.UUID `json:"agent_id"`
}

func (AgentStep) StepKind() Kind { return KindAgent }

// GroupStep fans a set of structured-extraction agents out over the output
// of an earlier step.
type GroupStep struct {
	StepMeta
	InputFrom uuid.UUID     `json:"input_from"`
	Members   []GroupMember `json:"members"`
}

func (GroupStep) StepKind() Kind { return KindGroup }

// ReviewGateStep pauses the job for human review of a prior step's keys.
type ReviewGateStep struct {
	StepMeta
	SourceStepID uuid.UUID `json:"source_step_id"`
	SourceKind   Kind      `json:"source_kind"`
	GateKey      string    `json:"gate_key"`
	Title        string    `json:"title"`
	Instructions string    `json:"instructions"`
}

func (ReviewGateStep) StepKind() Kind { return KindReviewGate }

// TranslatorStep runs a translator agent over a group's or gate's output.
type TranslatorStep struct {
	StepMeta
	TranslatorAgentID uuid.UUID `json:"translator_agent_id"`
	SourceStepID      uuid.UUID `json:"source_step_id"`
}

func (TranslatorStep) StepKind() Kind { return KindTranslator }

// RenderStep produces the final document from a render template.
type RenderStep struct {
	StepMeta
	SourceStepID     uuid.UUID `json:"source_step_id"`
	RenderTemplateID uuid.UUID `json:"render_template_id"`
}

func (RenderStep) StepKind() Kind { return KindRender }

// Runtime is a compiled template: its metadata plus the ordered, fully-typed
// step list. Produced by Compile; all structural invariants hold.
type Runtime struct {
	Template Template `json:"template"`
	Steps    []Step   `json:"steps"`
}

// Render returns the runtime's render step, or nil when the template has none.
func (r *Runtime) Render() *RenderStep {
	for _, s := range r.Steps {
		if rs, ok := s.(*RenderStep); ok {
			return rs
		}
	}
	return nil
}

// Step returns the step with the given id, or nil.
func (r *Runtime) Step(id uuid.UUID) Step {
	for _, s := range r.Steps {
		if s.StepID() == id {
			return s
		}
	}
	return nil
}

// Overrides are the tenant-mutable content fields of a cloned step.
// All structural fields stay read-only after cloning.
type Overrides struct {
	SystemPrompt *string        `json:"system_prompt,omitempty"`
	LLMProvider  *string        `json:"llm_provider,omitempty"`
	LLMTokenRef  *string        `json:"llm_token_ref,omitempty"`
	RenderHTML   *string        `json:"render_html,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
}

// TenantStep is a tenant workflow's structural mirror of a template step
// plus its local overrides.
type TenantStep struct {
	ID             uuid.UUID  `json:"id"`
	TemplateStepID uuid.UUID  `json:"template_step_id"`
	Kind           Kind       `json:"kind"`
	Position       int        `json:"position"`
	Label          string     `json:"label"`
	SourceStepID   *uuid.UUID `json:"source_step_id,omitempty"`
	Overrides      Overrides  `json:"overrides"`
}

// ResolvedStep combines a template step's structure with a tenant step's
// overrides. Overrides.Config is always non-nil.
type ResolvedStep struct {
	TemplateStepID uuid.UUID      `json:"template_step_id"`
	TenantStepID   uuid.UUID      `json:"tenant_step_id"`
	Kind           Kind           `json:"kind"`
	Position       int            `json:"position"`
	Label          string         `json:"label"`
	SourceStepID   *uuid.UUID     `json:"source_step_id,omitempty"`
	TemplateConfig map[string]any `json:"template_config"`
	Overrides      Overrides      `json:"overrides"`
}

// FinalStep is one fully-resolved step of a frozen job definition: structure
// from the template runtime, content from override-then-template-then-default
// precedence.
type FinalStep struct {
	ID           uuid.UUID      `json:"id"`
	Kind         Kind           `json:"kind"`
	Position     int            `json:"position"`
	Label        string         `json:"label"`
	SystemPrompt string         `json:"system_prompt,omitempty"`
	Provider     string         `json:"provider,omitempty"`
	TokenRef     string         `json:"token_ref,omitempty"`
	Config       map[string]any `json:"config"`

	AgentID           *uuid.UUID    `json:"agent_id,omitempty"`
	InputFrom         *uuid.UUID    `json:"input_from,omitempty"`
	Members           []GroupMember `json:"members,omitempty"`
	SourceStepID      *uuid.UUID    `json:"source_step_id,omitempty"`
	GateKey           string        `json:"gate_key,omitempty"`
	InputKind         Kind          `json:"input_kind,omitempty"`
	Title             string        `json:"title,omitempty"`
	Instructions      string        `json:"instructions,omitempty"`
	TranslatorAgentID *uuid.UUID    `json:"translator_agent_id,omitempty"`
	RenderHTML        string        `json:"render_html,omitempty"`
}

// Definition is the frozen job definition persisted as the compiled workflow
// row. Later tenant-workflow edits never alter it.
type Definition struct {
	TenantWorkflowID uuid.UUID   `json:"tenant_workflow_id"`
	TemplateID       uuid.UUID   `json:"template_id"`
	DefaultTokenRef  string      `json:"default_token_ref"`
	GeneratedAt      time.Time   `json:"generated_at"`
	Steps            []FinalStep `json:"steps"`
}

// DefaultProvider returns the first non-empty step provider, used as the
// job-level LLM provider when dispatching to the orchestrator.
func (d *Definition) DefaultProvider() string {
	for _, s := range d.Steps {
		if s.Provider != "" {
			return s.Provider
		}
	}
	return ""
}

// Gate returns the final step carrying the given gate key, or nil.
func (d *Definition) Gate(gateKey string) *FinalStep {
	for i := range d.Steps {
		if d.Steps[i].Kind == KindReviewGate && d.Steps[i].GateKey == gateKey {
			return &d.Steps[i]
		}
	}
	return nil
}
