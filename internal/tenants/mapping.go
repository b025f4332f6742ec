package tenants

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gfmozzer/lingua/pkg/query"
	"github.com/gfmozzer/lingua/pkg/repository"
	"github.com/gfmozzer/lingua/workflow"
)

var projection = query.
	NewProjectionMap("public", "tenant_workflows", "tw").
	Project("id", "ID").
	Project("tenant_id", "TenantID").
	Project("template_id", "TemplateID").
	Project("name", "Name").
	Project("version", "Version").
	Project("status", "Status").
	Project("llm_token_ref_default", "LLMTokenRefDefault").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for tenant workflow queries.
type Filters struct {
	Status *string `json:"status,omitempty"`
	Name   *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	return f
}

func scanTenantWorkflow(s repository.Scanner) (TenantWorkflow, error) {
	var tw TenantWorkflow
	err := s.Scan(
		&tw.ID,
		&tw.TenantID,
		&tw.TemplateID,
		&tw.Name,
		&tw.Version,
		&tw.Status,
		&tw.LLMTokenRefDefault,
		&tw.CreatedAt,
		&tw.UpdatedAt,
	)
	return tw, err
}

func scanTenantStep(s repository.Scanner) (workflow.TenantStep, error) {
	var ts workflow.TenantStep
	var configRaw []byte

	err := s.Scan(
		&ts.ID,
		&ts.TemplateStepID,
		&ts.Kind,
		&ts.Position,
		&ts.Label,
		&ts.SourceStepID,
		&ts.Overrides.SystemPrompt,
		&ts.Overrides.LLMProvider,
		&ts.Overrides.LLMTokenRef,
		&ts.Overrides.RenderHTML,
		&configRaw,
	)
	if err != nil {
		return ts, err
	}

	if len(configRaw) > 0 {
		if err := json.Unmarshal(configRaw, &ts.Overrides.Config); err != nil {
			return ts, err
		}
	}

	return ts, nil
}

func marshalConfig(config map[string]any) ([]byte, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config override: %w", err)
	}
	return raw, nil
}
