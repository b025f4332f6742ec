package render

import (
	"net/url"

	"github.com/gfmozzer/lingua/pkg/query"
	"github.com/gfmozzer/lingua/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "render_templates", "rt").
	Project("id", "ID").
	Project("name", "Name").
	Project("html", "HTML").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for render template queries.
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
	err := s.Scan(&t.ID, &t.Name, &t.HTML, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
