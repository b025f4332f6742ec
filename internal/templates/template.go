// Package templates implements the global workflow template domain: template
// metadata, the raw step rows authored by the builder, and compilation of
// those rows into a validated runtime via the workflow package.
package templates

import (
	"time"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/workflow"
)

// Template is a global workflow definition authored by super-admins.
// Version bumps on every step-set save, invalidating stale tenant clones.
type Template struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Meta converts the row into the workflow package's template metadata.
func (t *Template) Meta() workflow.Template {
	return workflow.Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Version:     t.Version,
	}
}

// SaveCommand carries the writable template metadata fields.
type SaveCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate enforces a non-empty template name.
func (c *SaveCommand) Validate() error {
	if c.Name == "" {
		return ErrInvalid
	}
	return nil
}

// StepInput is one step in a builder step-set save. The client assigns step
// ids so that source references inside the same payload can point at them;
// the full set is compiled before anything is persisted.
type StepInput struct {
	ID               uuid.UUID              `json:"id"`
	Kind             workflow.Kind          `json:"kind"`
	Label            string                 `json:"label"`
	AgentID          *uuid.UUID             `json:"agent_id,omitempty"`
	SourceStepID     *uuid.UUID             `json:"source_step_id,omitempty"`
	RenderTemplateID *uuid.UUID             `json:"render_template_id,omitempty"`
	Members          []workflow.GroupMember `json:"members,omitempty"`
	Review           *workflow.ReviewConfig `json:"review,omitempty"`
}

// ReplaceStepsCommand is the full step-set for a template, replacing any
// previous steps in one transaction.
type ReplaceStepsCommand struct {
	Steps []StepInput `json:"steps"`
}
