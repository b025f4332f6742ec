package jobs

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gfmozzer/lingua/pkg/query"
	"github.com/gfmozzer/lingua/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "jobs", "j").
	Project("id", "ID").
	Project("tenant_id", "TenantID").
	Project("workflow_id", "WorkflowID").
	Project("status", "Status").
	Project("source_pdf_url", "SourcePDFURL").
	Project("result", "Result").
	Project("current_gate_id", "CurrentGateID").
	Project("error", "Error").
	Project("started_at", "StartedAt").
	Project("finished_at", "FinishedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters contains optional filtering criteria for job queries.
type Filters struct {
	Status     *string `json:"status,omitempty"`
	WorkflowID *string `json:"workflow_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("WorkflowID", f.WorkflowID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if w := values.Get("workflow_id"); w != "" {
		f.WorkflowID = &w
	}
	return f
}

const jobColumns = `id, tenant_id, workflow_id, status, source_pdf_url, result,
	current_gate_id, error, started_at, finished_at, created_at, updated_at`

func scanJob(s repository.Scanner) (Job, error) {
	var j Job
	err := s.Scan(
		&j.ID,
		&j.TenantID,
		&j.WorkflowID,
		&j.Status,
		&j.SourcePDFURL,
		&j.Result,
		&j.CurrentGateID,
		&j.Error,
		&j.StartedAt,
		&j.FinishedAt,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	return j, err
}

const gateColumns = `id, tenant_id, job_id, gate_id, input_kind, ref_id, status,
	keys, key_sources, keys_translated, keys_reviewed, pages, context,
	reviewer_id, created_at, updated_at, closed_at`

func scanGate(s repository.Scanner) (ReviewGate, error) {
	var g ReviewGate
	var keys, sources, translated, reviewed, pages, context []byte

	err := s.Scan(
		&g.ID,
		&g.TenantID,
		&g.JobID,
		&g.GateID,
		&g.InputKind,
		&g.RefID,
		&g.Status,
		&keys,
		&sources,
		&translated,
		&reviewed,
		&pages,
		&context,
		&g.ReviewerID,
		&g.CreatedAt,
		&g.UpdatedAt,
		&g.ClosedAt,
	)
	if err != nil {
		return g, err
	}

	for _, col := range []struct {
		raw  []byte
		dest any
	}{
		{keys, &g.Keys},
		{sources, &g.KeySources},
		{translated, &g.KeysTranslated},
		{reviewed, &g.KeysReviewed},
		{pages, &g.Pages},
		{context, &g.Context},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return g, fmt.Errorf("decode gate column: %w", err)
		}
	}

	return g, nil
}

func scanEvent(s repository.Scanner) (Event, error) {
	var e Event
	var payload []byte

	err := s.Scan(&e.ID, &e.TenantID, &e.JobID, &e.EventType, &payload, &e.CreatedAt)
	if err != nil {
		return e, err
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &e.Payload); err != nil {
			return e, fmt.Errorf("decode event payload: %w", err)
		}
	}

	return e, nil
}

func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb column: %w", err)
	}
	return raw, nil
}
