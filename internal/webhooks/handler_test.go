package webhooks_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/internal/jobs"
	"github.com/gfmozzer/lingua/internal/webhooks"
	"github.com/gfmozzer/lingua/pkg/pagination"
)

// mockJobs implements jobs.System for the three webhook operations; the
// operator-facing methods are never reached from this handler.
type mockJobs struct {
	openGateFn    func(ctx context.Context, payloadTenantID, id uuid.UUID, opening jobs.GateOpening) (*jobs.Job, error)
	applyDoneFn   func(ctx context.Context, payloadTenantID, id uuid.UUID, finalPDFURL string, completion map[string]any) (*jobs.Job, error)
	applyFailedFn func(ctx context.Context, payloadTenantID, id uuid.UUID, reason string, failure map[string]any) (*jobs.Job, error)
}

func (m *mockJobs) Handler() *jobs.Handler { return nil }

func (m *mockJobs) List(context.Context, uuid.UUID, pagination.PageRequest, jobs.Filters) (*pagination.PageResult[jobs.Job], error) {
	panic("not routed through webhooks")
}

func (m *mockJobs) Find(context.Context, uuid.UUID, uuid.UUID) (*jobs.Job, error) {
	panic("not routed through webhooks")
}

func (m *mockJobs) Create(context.Context, uuid.UUID, jobs.CreateCommand) (*jobs.Created, error) {
	panic("not routed through webhooks")
}

func (m *mockJobs) UploadSource(context.Context, uuid.UUID, uuid.UUID, io.Reader) (*jobs.Job, error) {
	panic("not routed through webhooks")
}

func (m *mockJobs) Start(context.Context, uuid.UUID, uuid.UUID, string) (*jobs.Job, error) {
	panic("not routed through webhooks")
}

func (m *mockJobs) SubmitReview(context.Context, uuid.UUID, uuid.UUID, string, jobs.SubmitReviewCommand, string) (*jobs.ReviewGate, error) {
	panic("not routed through webhooks")
}

func (m *mockJobs) Events(context.Context, uuid.UUID, uuid.UUID) ([]jobs.Event, error) {
	panic("not routed through webhooks")
}

func (m *mockJobs) Gates(context.Context, uuid.UUID, uuid.UUID) ([]jobs.ReviewGate, error) {
	panic("not routed through webhooks")
}

func (m *mockJobs) OpenReviewGate(ctx context.Context, payloadTenantID, id uuid.UUID, opening jobs.GateOpening) (*jobs.Job, error) {
	return m.openGateFn(ctx, payloadTenantID, id, opening)
}

func (m *mockJobs) ApplyDone(ctx context.Context, payloadTenantID, id uuid.UUID, finalPDFURL string, completion map[string]any) (*jobs.Job, error) {
	return m.applyDoneFn(ctx, payloadTenantID, id, finalPDFURL, completion)
}

func (m *mockJobs) ApplyFailed(ctx context.Context, payloadTenantID, id uuid.UUID, reason string, failure map[string]any) (*jobs.Job, error) {
	return m.applyFailedFn(ctx, payloadTenantID, id, reason, failure)
}

func setupMux(sys *mockJobs) *http.ServeMux {
	h := webhooks.NewHandler(sys, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

var (
	tenantID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	jobID    = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
)

func deliver(t *testing.T, mux *http.ServeMux, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhooks/n8n", bytes.NewReader(body))
	mux.ServeHTTP(rec, req)
	return rec
}

func TestReceiveReviewOpening(t *testing.T) {
	var captured jobs.GateOpening
	sys := &mockJobs{
		openGateFn: func(_ context.Context, tid, id uuid.UUID, opening jobs.GateOpening) (*jobs.Job, error) {
			if tid != tenantID || id != jobID {
				t.Errorf("scope = (%v, %v)", tid, id)
			}
			captured = opening
			return &jobs.Job{ID: id, TenantID: tid, Status: jobs.ReviewStatus(opening.GateID)}, nil
		},
	}
	mux := setupMux(sys)

	rec := deliver(t, mux, webhooks.Payload{
		TenantID:       tenantID,
		JobID:          jobID,
		GateID:         "rv1",
		InputKind:      "group",
		Keys:           map[string]string{"name": "Ana"},
		KeysTranslated: map[string]string{"name": "Anna"},
		Pages:          []string{"https://blob/page-1.png"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.GateID != "rv1" || captured.Keys["name"] != "Ana" {
		t.Errorf("opening = %+v", captured)
	}

	var job jobs.Job
	if err := json.NewDecoder(rec.Body).Decode(&job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.Status != "review:rv1" {
		t.Errorf("status = %q, want review:rv1", job.Status)
	}
}

func TestReceiveDone(t *testing.T) {
	sys := &mockJobs{
		applyDoneFn: func(_ context.Context, _, id uuid.UUID, finalPDFURL string, completion map[string]any) (*jobs.Job, error) {
			if finalPDFURL != "https://blob/final.pdf" {
				t.Errorf("final url = %q", finalPDFURL)
			}
			if completion["durationMs"] != float64(12000) {
				t.Errorf("completion = %v", completion)
			}
			return &jobs.Job{ID: id, Status: jobs.StatusDone}, nil
		},
	}
	mux := setupMux(sys)

	rec := deliver(t, mux, webhooks.Payload{
		TenantID:           tenantID,
		JobID:              jobID,
		Status:             jobs.StatusDone,
		PDFURLFinal:        "https://blob/final.pdf",
		CompletionMetadata: map[string]any{"durationMs": 12000},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestReceiveTerminalMetadataKeys(t *testing.T) {
	t.Run("done with generic metadata key", func(t *testing.T) {
		var completion map[string]any
		sys := &mockJobs{
			applyDoneFn: func(_ context.Context, _, id uuid.UUID, _ string, m map[string]any) (*jobs.Job, error) {
				completion = m
				return &jobs.Job{ID: id, Status: jobs.StatusDone}, nil
			},
		}
		mux := setupMux(sys)

		rec := deliver(t, mux, webhooks.Payload{
			TenantID:    tenantID,
			JobID:       jobID,
			Status:      jobs.StatusDone,
			PDFURLFinal: "https://blob/final.pdf",
			Metadata:    map[string]any{"duration_ms": 1234},
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if completion == nil || completion["duration_ms"] != float64(1234) {
			t.Errorf("completion = %v, want the payload metadata", completion)
		}
	})

	t.Run("failed with generic metadata key", func(t *testing.T) {
		var failure map[string]any
		sys := &mockJobs{
			applyFailedFn: func(_ context.Context, _, id uuid.UUID, _ string, m map[string]any) (*jobs.Job, error) {
				failure = m
				return &jobs.Job{ID: id, Status: jobs.StatusFailed}, nil
			},
		}
		mux := setupMux(sys)

		rec := deliver(t, mux, webhooks.Payload{
			TenantID: tenantID,
			JobID:    jobID,
			Status:   jobs.StatusFailed,
			Error:    "render crashed",
			Metadata: map[string]any{"stage": "render"},
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if failure == nil || failure["stage"] != "render" {
			t.Errorf("failure = %v, want the payload metadata", failure)
		}
	})

	t.Run("explicit key wins over generic", func(t *testing.T) {
		var completion map[string]any
		sys := &mockJobs{
			applyDoneFn: func(_ context.Context, _, id uuid.UUID, _ string, m map[string]any) (*jobs.Job, error) {
				completion = m
				return &jobs.Job{ID: id, Status: jobs.StatusDone}, nil
			},
		}
		mux := setupMux(sys)

		rec := deliver(t, mux, webhooks.Payload{
			TenantID:           tenantID,
			JobID:              jobID,
			Status:             jobs.StatusDone,
			Metadata:           map[string]any{"source": "generic"},
			CompletionMetadata: map[string]any{"source": "explicit"},
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if completion["source"] != "explicit" {
			t.Errorf("completion = %v, want the explicit key", completion)
		}
	})
}

func TestReceiveFailed(t *testing.T) {
	tests := []struct {
		name       string
		payload    webhooks.Payload
		wantReason string
	}{
		{
			name:       "explicit error",
			payload:    webhooks.Payload{Status: jobs.StatusFailed, Error: "render crashed"},
			wantReason: "render crashed",
		},
		{
			name:       "reason fallback",
			payload:    webhooks.Payload{Status: jobs.StatusFailed, Reason: "timeout"},
			wantReason: "timeout",
		},
		{
			name:       "no reason at all",
			payload:    webhooks.Payload{Status: jobs.StatusFailed},
			wantReason: "workflow failed without a reason",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotReason string
			sys := &mockJobs{
				applyFailedFn: func(_ context.Context, _, id uuid.UUID, reason string, _ map[string]any) (*jobs.Job, error) {
					gotReason = reason
					return &jobs.Job{ID: id, Status: jobs.StatusFailed}, nil
				},
			}
			mux := setupMux(sys)

			tt.payload.TenantID = tenantID
			tt.payload.JobID = jobID
			rec := deliver(t, mux, tt.payload)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if gotReason != tt.wantReason {
				t.Errorf("reason = %q, want %q", gotReason, tt.wantReason)
			}
		})
	}
}

func TestReceiveRejectsMalformed(t *testing.T) {
	sys := &mockJobs{}
	mux := setupMux(sys)

	t.Run("undecodable body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/webhooks/n8n", bytes.NewReader([]byte("{")))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing identifiers", func(t *testing.T) {
		rec := deliver(t, mux, webhooks.Payload{Status: jobs.StatusDone})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("no gate and unknown status", func(t *testing.T) {
		rec := deliver(t, mux, webhooks.Payload{TenantID: tenantID, JobID: jobID, Status: "paused"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestReceiveErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown job", jobs.ErrNotFound, http.StatusNotFound},
		{"tenant mismatch", jobs.ErrTenantMismatch, http.StatusConflict},
		{"terminal job", jobs.ErrTerminal, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockJobs{
				openGateFn: func(context.Context, uuid.UUID, uuid.UUID, jobs.GateOpening) (*jobs.Job, error) {
					return nil, tt.err
				},
			}
			mux := setupMux(sys)

			rec := deliver(t, mux, webhooks.Payload{TenantID: tenantID, JobID: jobID, GateID: "rv1"})
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
