package agents

import (
	"net/url"

	"github.com/gfmozzer/lingua/pkg/query"
	"github.com/gfmozzer/lingua/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "agents", "a").
	Project("id", "ID").
	Project("name", "Name").
	Project("kind", "Kind").
	Project("system_prompt", "SystemPrompt").
	Project("input_example", "InputExample").
	Project("output_schema", "OutputSchema").
	Project("default_provider", "DefaultProvider").
	Project("default_model", "DefaultModel").
	Project("webhook_url", "WebhookURL").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for agent queries.
type Filters struct {
	Kind            *string `json:"kind,omitempty"`
	DefaultProvider *string `json:"default_provider,omitempty"`
	Name            *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Kind", f.Kind).
		WhereEquals("DefaultProvider", f.DefaultProvider).
		WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if k := values.Get("kind"); k != "" {
		f.Kind = &k
	}
	if p := values.Get("default_provider"); p != "" {
		f.DefaultProvider = &p
	}
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	return f
}

func scanAgent(s repository.Scanner) (Agent, error) {
	var a Agent
	err := s.Scan(
		&a.ID,
		&a.Name,
		&a.Kind,
		&a.SystemPrompt,
		&a.InputExample,
		&a.OutputSchema,
		&a.DefaultProvider,
		&a.DefaultModel,
		&a.WebhookURL,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
