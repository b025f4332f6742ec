package jobs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/internal/auth"
	"github.com/gfmozzer/lingua/internal/jobs"
	"github.com/gfmozzer/lingua/pkg/pagination"
	"github.com/gfmozzer/lingua/workflow"
)

type mockSystem struct {
	listFn         func(ctx context.Context, tenantID uuid.UUID, page pagination.PageRequest, filters jobs.Filters) (*pagination.PageResult[jobs.Job], error)
	findFn         func(ctx context.Context, tenantID, id uuid.UUID) (*jobs.Job, error)
	createFn       func(ctx context.Context, tenantID uuid.UUID, cmd jobs.CreateCommand) (*jobs.Created, error)
	uploadSourceFn func(ctx context.Context, tenantID, id uuid.UUID, content io.Reader) (*jobs.Job, error)
	startFn        func(ctx context.Context, tenantID, id uuid.UUID, startedBy string) (*jobs.Job, error)
	submitReviewFn func(ctx context.Context, tenantID, id uuid.UUID, gateID string, cmd jobs.SubmitReviewCommand, reviewerID string) (*jobs.ReviewGate, error)
	eventsFn       func(ctx context.Context, tenantID, id uuid.UUID) ([]jobs.Event, error)
	gatesFn        func(ctx context.Context, tenantID, id uuid.UUID) ([]jobs.ReviewGate, error)
	openGateFn     func(ctx context.Context, payloadTenantID, id uuid.UUID, opening jobs.GateOpening) (*jobs.Job, error)
	applyDoneFn    func(ctx context.Context, payloadTenantID, id uuid.UUID, finalPDFURL string, completion map[string]any) (*jobs.Job, error)
	applyFailedFn  func(ctx context.Context, payloadTenantID, id uuid.UUID, reason string, failure map[string]any) (*jobs.Job, error)
}

func (m *mockSystem) Handler() *jobs.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, tenantID uuid.UUID, page pagination.PageRequest, filters jobs.Filters) (*pagination.PageResult[jobs.Job], error) {
	return m.listFn(ctx, tenantID, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, tenantID, id uuid.UUID) (*jobs.Job, error) {
	return m.findFn(ctx, tenantID, id)
}

func (m *mockSystem) Create(ctx context.Context, tenantID uuid.UUID, cmd jobs.CreateCommand) (*jobs.Created, error) {
	return m.createFn(ctx, tenantID, cmd)
}

func (m *mockSystem) UploadSource(ctx context.Context, tenantID, id uuid.UUID, content io.Reader) (*jobs.Job, error) {
	return m.uploadSourceFn(ctx, tenantID, id, content)
}

func (m *mockSystem) Start(ctx context.Context, tenantID, id uuid.UUID, startedBy string) (*jobs.Job, error) {
	return m.startFn(ctx, tenantID, id, startedBy)
}

func (m *mockSystem) SubmitReview(ctx context.Context, tenantID, id uuid.UUID, gateID string, cmd jobs.SubmitReviewCommand, reviewerID string) (*jobs.ReviewGate, error) {
	return m.submitReviewFn(ctx, tenantID, id, gateID, cmd, reviewerID)
}

func (m *mockSystem) Events(ctx context.Context, tenantID, id uuid.UUID) ([]jobs.Event, error) {
	return m.eventsFn(ctx, tenantID, id)
}

func (m *mockSystem) Gates(ctx context.Context, tenantID, id uuid.UUID) ([]jobs.ReviewGate, error) {
	return m.gatesFn(ctx, tenantID, id)
}

func (m *mockSystem) OpenReviewGate(ctx context.Context, payloadTenantID, id uuid.UUID, opening jobs.GateOpening) (*jobs.Job, error) {
	return m.openGateFn(ctx, payloadTenantID, id, opening)
}

func (m *mockSystem) ApplyDone(ctx context.Context, payloadTenantID, id uuid.UUID, finalPDFURL string, completion map[string]any) (*jobs.Job, error) {
	return m.applyDoneFn(ctx, payloadTenantID, id, finalPDFURL, completion)
}

func (m *mockSystem) ApplyFailed(ctx context.Context, payloadTenantID, id uuid.UUID, reason string, failure map[string]any) (*jobs.Job, error) {
	return m.applyFailedFn(ctx, payloadTenantID, id, reason, failure)
}

func newTestHandler(sys *mockSystem) *jobs.Handler {
	return jobs.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		1<<20,
	)
}

var (
	tenantID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	jobID    = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
)

func operatorPrincipal() auth.Principal {
	tid := tenantID
	return auth.Principal{UserID: "user-1", Role: auth.RoleOperator, TenantID: &tid}
}

// setupMux mounts the handler's routes behind a principal-injecting wrapper,
// standing in for the bearer middleware.
func setupMux(h *jobs.Handler, p auth.Principal) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		handler := route.Handler
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			handler(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
	return mux
}

func sampleJob() jobs.Job {
	return jobs.Job{
		ID:         jobID,
		TenantID:   tenantID,
		WorkflowID: uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8"),
		Status:     jobs.StatusQueued,
		Result:     jobs.Result{},
	}
}

func TestHandlerList(t *testing.T) {
	j := sampleJob()
	sys := &mockSystem{
		listFn: func(_ context.Context, tid uuid.UUID, _ pagination.PageRequest, _ jobs.Filters) (*pagination.PageResult[jobs.Job], error) {
			if tid != tenantID {
				t.Errorf("tenant = %v, want %v", tid, tenantID)
			}
			result := pagination.NewPageResult([]jobs.Job{j}, 1, 1, 20)
			return &result, nil
		},
	}

	mux := setupMux(newTestHandler(sys), operatorPrincipal())

	t.Run("returns paginated list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result pagination.PageResult[jobs.Job]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Total != 1 || len(result.Data) != 1 {
			t.Fatalf("total = %d, data = %d", result.Total, len(result.Data))
		}
		if result.Data[0].ID != j.ID {
			t.Errorf("id = %v, want %v", result.Data[0].ID, j.ID)
		}
	})

	t.Run("passes query filters", func(t *testing.T) {
		var captured jobs.Filters
		sys.listFn = func(_ context.Context, _ uuid.UUID, _ pagination.PageRequest, f jobs.Filters) (*pagination.PageResult[jobs.Job], error) {
			captured = f
			result := pagination.NewPageResult([]jobs.Job{}, 0, 1, 20)
			return &result, nil
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs?status=processing", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Status == nil || *captured.Status != "processing" {
			t.Errorf("status filter = %v, want processing", captured.Status)
		}
	})
}

func TestHandlerTenantScoping(t *testing.T) {
	sys := &mockSystem{
		listFn: func(_ context.Context, tid uuid.UUID, _ pagination.PageRequest, _ jobs.Filters) (*pagination.PageResult[jobs.Job], error) {
			result := pagination.NewPageResult([]jobs.Job{}, 0, 1, 20)
			if tid != tenantID {
				t.Errorf("tenant = %v, want %v", tid, tenantID)
			}
			return &result, nil
		},
	}
	h := newTestHandler(sys)

	t.Run("super-admin without tenant header", func(t *testing.T) {
		mux := setupMux(h, auth.Principal{UserID: "admin-1", Role: auth.RoleSuperAdmin})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("super-admin with tenant header", func(t *testing.T) {
		mux := setupMux(h, auth.Principal{UserID: "admin-1", Role: auth.RoleSuperAdmin})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs", nil)
		req.Header.Set(auth.TenantHeader, tenantID.String())
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}

func TestHandlerCreate(t *testing.T) {
	t.Run("queues a job with its frozen definition", func(t *testing.T) {
		j := sampleJob()
		created := jobs.Created{
			Job: j,
			Workflow: jobs.FrozenWorkflow{
				ID:       j.WorkflowID,
				TenantID: tenantID,
				Name:     "birth-certificate-de",
				Version:  3,
			},
			Steps: []workflow.FinalStep{
				{ID: uuid.New(), Kind: workflow.KindAgent, Position: 1, Label: "ocr"},
			},
		}
		var captured jobs.CreateCommand
		sys := &mockSystem{
			createFn: func(_ context.Context, _ uuid.UUID, cmd jobs.CreateCommand) (*jobs.Created, error) {
				captured = cmd
				return &created, nil
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		body, _ := json.Marshal(jobs.CreateCommand{
			TenantWorkflowID: uuid.MustParse("6ba7b812-9dad-11d1-80b4-00c04fd430c8"),
			Metadata:         map[string]any{"country": "DE"},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.TenantWorkflowID == uuid.Nil {
			t.Error("command not forwarded")
		}
		if captured.Metadata["country"] != "DE" {
			t.Errorf("metadata = %v", captured.Metadata)
		}

		var got struct {
			Job      jobs.Job             `json:"job"`
			Workflow jobs.FrozenWorkflow  `json:"workflow"`
			Steps    []workflow.FinalStep `json:"steps"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if got.Job.ID != j.ID {
			t.Errorf("job id = %v, want %v", got.Job.ID, j.ID)
		}
		if got.Workflow.Name != "birth-certificate-de" || got.Workflow.Version != 3 {
			t.Errorf("workflow = %+v", got.Workflow)
		}
		if len(got.Steps) != 1 || got.Steps[0].Label != "ocr" {
			t.Errorf("steps = %+v", got.Steps)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs", bytes.NewReader([]byte("{")))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("maps workflow not ready", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(_ context.Context, _ uuid.UUID, _ jobs.CreateCommand) (*jobs.Created, error) {
				return nil, jobs.ErrNotReady
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		body, _ := json.Marshal(jobs.CreateCommand{TenantWorkflowID: uuid.New()})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs", bytes.NewReader(body))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	t.Run("returns job", func(t *testing.T) {
		j := sampleJob()
		sys := &mockSystem{
			findFn: func(_ context.Context, _, id uuid.UUID) (*jobs.Job, error) {
				if id != jobID {
					t.Errorf("id = %v, want %v", id, jobID)
				}
				return &j, nil
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs/"+jobID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("maps missing job", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _, _ uuid.UUID) (*jobs.Job, error) {
				return nil, jobs.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs/"+jobID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerUploadSource(t *testing.T) {
	multipartBody := func(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
		t.Helper()
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		part, err := mw.CreateFormFile(field, "original.pdf")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write(content)
		mw.Close()
		return buf, mw.FormDataContentType()
	}

	t.Run("forwards file content", func(t *testing.T) {
		j := sampleJob()
		var received []byte
		sys := &mockSystem{
			uploadSourceFn: func(_ context.Context, _, _ uuid.UUID, content io.Reader) (*jobs.Job, error) {
				received, _ = io.ReadAll(content)
				return &j, nil
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		buf, contentType := multipartBody(t, "file", []byte("%PDF-1.7 fake"))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs/"+jobID.String()+"/source", buf)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if string(received) != "%PDF-1.7 fake" {
			t.Errorf("content = %q", received)
		}
	})

	t.Run("rejects missing file part", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		buf, contentType := multipartBody(t, "document", []byte("misplaced"))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs/"+jobID.String()+"/source", buf)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("maps invalid pdf", func(t *testing.T) {
		sys := &mockSystem{
			uploadSourceFn: func(_ context.Context, _, _ uuid.UUID, _ io.Reader) (*jobs.Job, error) {
				return nil, jobs.ErrNotPDF
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		buf, contentType := multipartBody(t, "file", []byte("plain text"))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs/"+jobID.String()+"/source", buf)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	})
}

func TestHandlerStart(t *testing.T) {
	t.Run("records the acting user", func(t *testing.T) {
		j := sampleJob()
		j.Status = jobs.StatusProcessing
		var startedBy string
		sys := &mockSystem{
			startFn: func(_ context.Context, _, _ uuid.UUID, by string) (*jobs.Job, error) {
				startedBy = by
				return &j, nil
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs/"+jobID.String()+"/start", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if startedBy != "user-1" {
			t.Errorf("startedBy = %q, want user-1", startedBy)
		}
	})

	t.Run("maps concurrent start", func(t *testing.T) {
		sys := &mockSystem{
			startFn: func(_ context.Context, _, _ uuid.UUID, _ string) (*jobs.Job, error) {
				return nil, jobs.ErrStateChanged
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs/"+jobID.String()+"/start", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("maps missing token", func(t *testing.T) {
		sys := &mockSystem{
			startFn: func(_ context.Context, _, _ uuid.UUID, _ string) (*jobs.Job, error) {
				return nil, jobs.ErrTokenMissing
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs/"+jobID.String()+"/start", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
	})
}

func TestHandlerSubmitReview(t *testing.T) {
	reviewBody := func(t *testing.T) *bytes.Reader {
		t.Helper()
		body, err := json.Marshal(jobs.SubmitReviewCommand{
			KeysReviewed: map[string]string{"name": "Anna"},
		})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return bytes.NewReader(body)
	}

	t.Run("approves the gate", func(t *testing.T) {
		gate := jobs.ReviewGate{
			ID:     uuid.New(),
			JobID:  jobID,
			GateID: "rv1",
			Status: jobs.GateApproved,
		}
		var gotGate, gotReviewer string
		sys := &mockSystem{
			submitReviewFn: func(_ context.Context, _, _ uuid.UUID, gateID string, cmd jobs.SubmitReviewCommand, reviewer string) (*jobs.ReviewGate, error) {
				gotGate, gotReviewer = gateID, reviewer
				if cmd.KeysReviewed["name"] != "Anna" {
					t.Errorf("keys = %v", cmd.KeysReviewed)
				}
				return &gate, nil
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs/"+jobID.String()+"/gates/rv1/review", reviewBody(t))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotGate != "rv1" {
			t.Errorf("gate = %q, want rv1", gotGate)
		}
		if gotReviewer != "user-1" {
			t.Errorf("reviewer = %q, want user-1", gotReviewer)
		}
	})

	t.Run("maps non-pending gate", func(t *testing.T) {
		sys := &mockSystem{
			submitReviewFn: func(_ context.Context, _, _ uuid.UUID, _ string, _ jobs.SubmitReviewCommand, _ string) (*jobs.ReviewGate, error) {
				return nil, jobs.ErrGateNotPending
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs/"+jobID.String()+"/gates/rv1/review", reviewBody(t))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("maps unknown gate", func(t *testing.T) {
		sys := &mockSystem{
			submitReviewFn: func(_ context.Context, _, _ uuid.UUID, _ string, _ jobs.SubmitReviewCommand, _ string) (*jobs.ReviewGate, error) {
				return nil, jobs.ErrGateNotFound
			},
		}
		mux := setupMux(newTestHandler(sys), operatorPrincipal())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/jobs/"+jobID.String()+"/gates/rv9/review", reviewBody(t))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerEventsAndGates(t *testing.T) {
	sys := &mockSystem{
		eventsFn: func(_ context.Context, _, _ uuid.UUID) ([]jobs.Event, error) {
			return []jobs.Event{
				{JobID: jobID, EventType: jobs.EventJobStarted},
				{JobID: jobID, EventType: jobs.EventReviewGateOpened},
			}, nil
		},
		gatesFn: func(_ context.Context, _, _ uuid.UUID) ([]jobs.ReviewGate, error) {
			return []jobs.ReviewGate{{JobID: jobID, GateID: "rv1", Status: jobs.GatePending}}, nil
		},
	}
	mux := setupMux(newTestHandler(sys), operatorPrincipal())

	t.Run("events", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs/"+jobID.String()+"/events", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var events []jobs.Event
		if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(events) != 2 || events[0].EventType != jobs.EventJobStarted {
			t.Errorf("events = %v", events)
		}
	})

	t.Run("gates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/jobs/"+jobID.String()+"/gates", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var gates []jobs.ReviewGate
		if err := json.NewDecoder(rec.Body).Decode(&gates); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(gates) != 1 || gates[0].GateID != "rv1" {
			t.Errorf("gates = %v", gates)
		}
	})
}
