// Package agents implements the global agent catalog: the reusable OCR,
// extraction, translation, and render agents that workflow template steps
// reference. Catalog entries are managed by super-admins only.
package agents

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Agent kinds.
const (
	KindOCR        = "ocr"
	KindStructured = "structured"
	KindTranslator = "translator"
	KindRender     = "render"
)

// ValidKind reports whether kind is a known agent kind.
func ValidKind(kind string) bool {
	switch kind {
	case KindOCR, KindStructured, KindTranslator, KindRender:
		return true
	}
	return false
}

// Agent is a global catalog entry referenced by workflow template steps.
// OutputSchema is a JSON Schema document; it is required and non-empty for
// structured agents.
type Agent struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Kind            string          `json:"kind"`
	SystemPrompt    string          `json:"system_prompt"`
	InputExample    string          `json:"input_example"`
	OutputSchema    json.RawMessage `json:"output_schema,omitempty"`
	DefaultProvider string          `json:"default_provider"`
	DefaultModel    string          `json:"default_model"`
	WebhookURL      *string         `json:"webhook_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SaveCommand carries the writable fields for create and update.
type SaveCommand struct {
	Name            string          `json:"name"`
	Kind            string          `json:"kind"`
	SystemPrompt    string          `json:"system_prompt"`
	InputExample    string          `json:"input_example"`
	OutputSchema    json.RawMessage `json:"output_schema,omitempty"`
	DefaultProvider string          `json:"default_provider"`
	DefaultModel    string          `json:"default_model"`
	WebhookURL      *string         `json:"webhook_url,omitempty"`
}

// Validate enforces catalog invariants: known kind, non-empty name, and a
// non-empty output schema for structured agents.
func (c *SaveCommand) Validate() error {
	if c.Name == "" {
		return ErrInvalid
	}
	if !ValidKind(c.Kind) {
		return ErrInvalidKind
	}
	if c.Kind == KindStructured && emptySchema(c.OutputSchema) {
		return ErrSchemaRequired
	}
	return nil
}

func emptySchema(schema json.RawMessage) bool {
	switch string(schema) {
	case "", "null", "{}":
		return true
	}
	return false
}
