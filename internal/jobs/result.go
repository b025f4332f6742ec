package jobs

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Result is the job's free-form JSON accumulator. Well-known entries are
// reached through the typed accessors below, never by key at call sites.
type Result map[string]any

const (
	resultFinalPDFURL = "finalPdfUrl"
	resultReviewGates = "reviewGates"
	resultMetadata    = "metadata"
	resultCompletion  = "completionMetadata"
	resultFailure     = "failureMetadata"
)

// Value serializes the result for a jsonb column.
func (r Result) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

// Scan deserializes a jsonb column into the result.
func (r *Result) Scan(src any) error {
	if src == nil {
		*r = Result{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported result source %T", src)
	}

	if len(raw) == 0 {
		*r = Result{}
		return nil
	}
	return json.Unmarshal(raw, r)
}

// FinalPDFURL returns the rendered document URL, or "" before completion.
func (r Result) FinalPDFURL() string {
	s, _ := r[resultFinalPDFURL].(string)
	return s
}

// SetFinalPDFURL records the rendered document URL.
func (r Result) SetFinalPDFURL(url string) {
	r[resultFinalPDFURL] = url
}

// Metadata returns the caller-supplied job metadata.
func (r Result) Metadata() map[string]any {
	m, _ := r[resultMetadata].(map[string]any)
	return m
}

// SetMetadata replaces the caller-supplied job metadata.
func (r Result) SetMetadata(m map[string]any) {
	if m == nil {
		m = map[string]any{}
	}
	r[resultMetadata] = m
}

// SetMetadataField sets one metadata entry, creating the map if needed.
func (r Result) SetMetadataField(key string, value any) {
	m := r.Metadata()
	if m == nil {
		m = map[string]any{}
		r[resultMetadata] = m
	}
	m[key] = value
}

// ReviewGates returns the per-gate payload map accumulated from review
// webhooks, keyed by gate id.
func (r Result) ReviewGates() map[string]any {
	m, _ := r[resultReviewGates].(map[string]any)
	return m
}

// MergeGate records a gate's webhook payload under its gate id.
func (r Result) MergeGate(gateID string, payload map[string]any) {
	gates := r.ReviewGates()
	if gates == nil {
		gates = map[string]any{}
		r[resultReviewGates] = gates
	}
	gates[gateID] = payload
}

// CompletionMetadata returns the orchestrator's completion payload.
func (r Result) CompletionMetadata() map[string]any {
	m, _ := r[resultCompletion].(map[string]any)
	return m
}

// SetCompletionMetadata records the orchestrator's completion payload.
func (r Result) SetCompletionMetadata(m map[string]any) {
	if len(m) == 0 {
		return
	}
	r[resultCompletion] = m
}

// FailureMetadata returns the orchestrator's failure payload.
func (r Result) FailureMetadata() map[string]any {
	m, _ := r[resultFailure].(map[string]any)
	return m
}

// SetFailureMetadata records the orchestrator's failure payload.
func (r Result) SetFailureMetadata(m map[string]any) {
	if len(m) == 0 {
		return
	}
	r[resultFailure] = m
}
