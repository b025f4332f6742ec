package templates

import (
	"net/url"

	"github.com/gfmozzer/lingua/pkg/query"
	"github.com/gfmozzer/lingua/pkg/repository"
	"github.com/gfmozzer/lingua/workflow"
)

var projection = query.
	NewProjectionMap("public", "workflow_templates", "wt").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("version", "Version").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for template queries.
type Filters struct {
	Name *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	return f
}

func scanTemplate(s repository.Scanner) (Template, error) {
	var t Template
	err := s.Scan(&t.ID, &t.Name, &t.Description, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanStepRow(s repository.Scanner) (workflow.StepRow, error) {
	var row workflow.StepRow
	err := s.Scan(
		&row.ID,
		&row.Position,
		&row.Kind,
		&row.Label,
		&row.AgentID,
		&row.SourceStepID,
		&row.RenderTemplateID,
	)
	return row, err
}
