package jobs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/gfmozzer/lingua/internal/orchestrator"
	"github.com/gfmozzer/lingua/internal/tenants"
	"github.com/gfmozzer/lingua/pkg/pagination"
	"github.com/gfmozzer/lingua/pkg/query"
	"github.com/gfmozzer/lingua/pkg/repository"
	"github.com/gfmozzer/lingua/pkg/storage"
	"github.com/gfmozzer/lingua/workflow"
)

type repo struct {
	db           *sql.DB
	tenants      tenants.System
	orchestrator orchestrator.System
	storage      storage.System
	logger       *slog.Logger
	pagination   pagination.Config
	maxUpload    int64
}

// New creates a job repository implementing the System interface.
func New(
	db *sql.DB,
	tenantWorkflows tenants.System,
	engine orchestrator.System,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUpload int64,
) System {
	return &repo{
		db:           db,
		tenants:      tenantWorkflows,
		orchestrator: engine,
		storage:      store,
		logger:       logger.With("system", "jobs"),
		pagination:   pagination,
		maxUpload:    maxUpload,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.maxUpload)
}

func (r *repo) List(
	ctx context.Context,
	tenantID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Job], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("TenantID", &tenantID)

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanJob)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, tenantID, id uuid.UUID) (*Job, error) {
	job, err := repository.QueryOne(ctx, r.db,
		"SELECT "+jobColumns+" FROM jobs WHERE id = $1 AND tenant_id = $2",
		[]any{id, tenantID}, scanJob,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrInvalid)
	}
	return &job, nil
}

func (r *repo) Create(ctx context.Context, tenantID uuid.UUID, cmd CreateCommand) (*Created, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	resolved, err := r.tenants.Resolve(ctx, tenantID, cmd.TenantWorkflowID)
	if err != nil {
		if errors.Is(err, tenants.ErrNotFound) {
			return nil, fmt.Errorf("tenant workflow %s: %w", cmd.TenantWorkflowID, ErrNotFound)
		}
		return nil, err
	}

	if resolved.Workflow.Status != tenants.StatusReady {
		return nil, ErrNotReady
	}
	token := resolved.Workflow.LLMTokenRefDefault
	if token == nil || *token == "" {
		return nil, ErrTokenMissing
	}

	def, err := workflow.BuildDefinition(resolved.Runtime, resolved.Steps, workflow.DefinitionInput{
		TenantWorkflowID: resolved.Workflow.ID,
		DefaultTokenRef:  *token,
		Agents:           resolved.Agents,
		RenderTemplates:  resolved.RenderTemplates,
	})
	if err != nil {
		return nil, err
	}

	definitionJSON, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}

	result := Result{}
	if len(cmd.Metadata) > 0 {
		result.SetMetadata(cmd.Metadata)
	}

	return repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Created, error) {
		var workflowID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO workflows (id, tenant_id, name, version, definition)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (tenant_id, name, version)
			DO UPDATE SET definition = EXCLUDED.definition
			RETURNING id`,
			uuid.New(), tenantID, resolved.Workflow.Name, resolved.Workflow.Version, definitionJSON,
		).Scan(&workflowID)
		if err != nil {
			return nil, fmt.Errorf("upsert workflow definition: %w", err)
		}

		job, err := repository.QueryOne(ctx, tx, `
			INSERT INTO jobs (id, tenant_id, workflow_id, status, source_pdf_url, result)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+jobColumns,
			[]any{uuid.New(), tenantID, workflowID, StatusQueued, cmd.SourcePDFURL, result},
			scanJob,
		)
		if err != nil {
			return nil, fmt.Errorf("insert job: %w", err)
		}

		return &Created{
			Job: job,
			Workflow: FrozenWorkflow{
				ID:       workflowID,
				TenantID: tenantID,
				Name:     resolved.Workflow.Name,
				Version:  resolved.Workflow.Version,
			},
			Steps: def.Steps,
		}, nil
	})
}

func (r *repo) UploadSource(ctx context.Context, tenantID, id uuid.UUID, content io.Reader) (*Job, error) {
	job, err := r.Find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	buf, err := io.ReadAll(io.LimitReader(content, r.maxUpload))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(buf), nil)
	if err != nil || pages == 0 {
		return nil, ErrNotPDF
	}

	key := sourceKey(tenantID, id)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(buf), "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload source pdf: %w", err)
	}

	signed, err := r.storage.SignedURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("sign source pdf url: %w", err)
	}

	job.Result.SetMetadataField("pageCount", pages)

	updated, err := repository.QueryOne(ctx, r.db, `
		UPDATE jobs
		SET source_pdf_url = $1, result = $2, updated_at = $3
		WHERE id = $4 AND tenant_id = $5
		RETURNING `+jobColumns,
		[]any{signed, job.Result, time.Now().UTC(), id, tenantID},
		scanJob,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrInvalid)
	}

	return &updated, nil
}

func (r *repo) Start(ctx context.Context, tenantID, id uuid.UUID, startedBy string) (*Job, error) {
	job, err := r.Find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	def, err := r.loadDefinition(ctx, job.WorkflowID)
	if err != nil {
		return nil, err
	}

	if def.DefaultTokenRef == "" {
		_, txErr := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
			err := repository.ExecExpectOne(ctx, tx, `
				UPDATE jobs
				SET error = $1, updated_at = $2
				WHERE id = $3 AND tenant_id = $4`,
				"missing llm token", time.Now().UTC(), id, tenantID,
			)
			if err != nil {
				return struct{}{}, fmt.Errorf("record blocked start: %w", err)
			}
			return struct{}{}, insertEvent(ctx, tx, tenantID, id, EventJobStartBlocked, map[string]any{
				"reason":     "missing llm token",
				"started_by": startedBy,
			})
		})
		if txErr != nil {
			return nil, txErr
		}
		return nil, ErrTokenMissing
	}

	started, err := repository.QueryOne(ctx, r.db, `
		UPDATE jobs
		SET status = $1, started_at = $2, error = NULL, updated_at = $2
		WHERE id = $3 AND tenant_id = $4
			AND started_at IS NULL
			AND status IN ($5, $6)
		RETURNING `+jobColumns,
		[]any{StatusProcessing, time.Now().UTC(), id, tenantID, StatusQueued, StatusProcessing},
		scanJob,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStateChanged
		}
		return nil, fmt.Errorf("mark job started: %w", err)
	}

	startErr := r.orchestrator.Start(ctx, orchestrator.StartRequest{
		TenantID:   tenantID,
		JobID:      id,
		WorkflowID: job.WorkflowID,
		PDFURL:     started.SourcePDFURL,
		LLM: orchestrator.LLM{
			Provider: def.DefaultProvider(),
			TokenRef: def.DefaultTokenRef,
		},
		Metadata: started.Result.Metadata(),
	})
	if startErr == nil {
		_, txErr := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
			return struct{}{}, insertEvent(ctx, tx, tenantID, id, EventJobStarted, map[string]any{
				"started_by": startedBy,
				"provider":   def.DefaultProvider(),
			})
		})
		if txErr != nil {
			r.logger.Error("failed to record job start event", "job_id", id, "error", txErr)
		}
		return &started, nil
	}

	// Dispatch failed: re-queue with started_at cleared so the operator can
	// retry, and record what happened.
	_, txErr := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, `
			UPDATE jobs
			SET status = $1, started_at = NULL, error = $2, updated_at = $3
			WHERE id = $4 AND tenant_id = $5`,
			StatusQueued, startErr.Error(), time.Now().UTC(), id, tenantID,
		)
		if err != nil {
			return struct{}{}, fmt.Errorf("reset job after failed dispatch: %w", err)
		}
		return struct{}{}, insertEvent(ctx, tx, tenantID, id, EventJobStartFailed, map[string]any{
			"error":      startErr.Error(),
			"started_by": startedBy,
		})
	})
	if txErr != nil {
		r.logger.Error("failed to reset job after dispatch failure",
			"job_id", id, "error", txErr)
	}

	return nil, startErr
}

func (r *repo) SubmitReview(
	ctx context.Context,
	tenantID, id uuid.UUID,
	gateID string,
	cmd SubmitReviewCommand,
	reviewerID string,
) (*ReviewGate, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	gate, err := repository.QueryOne(ctx, r.db,
		"SELECT "+gateColumns+" FROM review_gates WHERE job_id = $1 AND gate_id = $2 AND tenant_id = $3",
		[]any{id, gateID, tenantID}, scanGate,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrGateNotFound, ErrInvalid)
	}
	if gate.Status != GatePending {
		return nil, fmt.Errorf("gate %s is %s: %w", gateID, gate.Status, ErrGateNotPending)
	}

	// The orchestrator is told first. If it cannot be reached nothing is
	// persisted and the gate stays pending.
	if err := r.orchestrator.ApproveReview(ctx, orchestrator.ReviewApproval{
		TenantID:     tenantID,
		JobID:        id,
		GateID:       gateID,
		KeysReviewed: cmd.KeysReviewed,
	}); err != nil {
		return nil, err
	}

	total := len(gate.Keys)
	edited := 0
	for name, original := range gate.Keys {
		if reviewed, ok := cmd.KeysReviewed[name]; ok && reviewed != original {
			edited++
		}
	}

	return repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*ReviewGate, error) {
		now := time.Now().UTC()

		reviewedJSON, err := marshalJSON(cmd.KeysReviewed)
		if err != nil {
			return nil, err
		}

		approved, err := repository.QueryOne(ctx, tx, `
			UPDATE review_gates
			SET status = $1, keys_reviewed = $2, reviewer_id = $3,
				closed_at = $4, updated_at = $4
			WHERE id = $5 AND status = $6
			RETURNING `+gateColumns,
			[]any{GateApproved, reviewedJSON, reviewerID, now, gate.ID, GatePending},
			scanGate,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrGateNotPending
			}
			return nil, fmt.Errorf("approve gate: %w", err)
		}

		for name, original := range gate.Keys {
			reviewed, ok := cmd.KeysReviewed[name]
			if !ok || reviewed == original {
				continue
			}
			var sourceAgent *string
			if src, ok := gate.KeySources[name]; ok {
				sourceAgent = &src
			}
			err := repository.ExecExpectOne(ctx, tx, `
				INSERT INTO key_audits
					(id, review_gate_id, job_id, gate_id, key_name, old_value,
					new_value, source_agent_id, edited_by, edited_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				uuid.New(), gate.ID, id, gateID, name, original,
				reviewed, sourceAgent, reviewerID, now,
			)
			if err != nil {
				return nil, fmt.Errorf("insert key audit for %q: %w", name, err)
			}
		}

		err = repository.ExecExpectOne(ctx, tx, `
			UPDATE jobs
			SET status = $1, current_gate_id = NULL, updated_at = $2
			WHERE id = $3 AND tenant_id = $4 AND status = $5`,
			StatusProcessing, now, id, tenantID, ReviewStatus(gateID),
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrStateChanged
			}
			return nil, fmt.Errorf("resume job: %w", err)
		}

		if err := insertEvent(ctx, tx, tenantID, id, EventReviewApproved, map[string]any{
			"gate_id":  gateID,
			"total":    total,
			"edited":   edited,
			"accuracy": Accuracy(total, edited),
		}); err != nil {
			return nil, err
		}

		return &approved, nil
	})
}

func (r *repo) Events(ctx context.Context, tenantID, id uuid.UUID) ([]Event, error) {
	if _, err := r.Find(ctx, tenantID, id); err != nil {
		return nil, err
	}

	events, err := repository.QueryMany(ctx, r.db, `
		SELECT id, tenant_id, job_id, event_type, payload, created_at
		FROM job_events
		WHERE job_id = $1 AND tenant_id = $2
		ORDER BY created_at`,
		[]any{id, tenantID}, scanEvent,
	)
	if err != nil {
		return nil, fmt.Errorf("query job events: %w", err)
	}
	return events, nil
}

func (r *repo) Gates(ctx context.Context, tenantID, id uuid.UUID) ([]ReviewGate, error) {
	if _, err := r.Find(ctx, tenantID, id); err != nil {
		return nil, err
	}

	gates, err := repository.QueryMany(ctx, r.db,
		"SELECT "+gateColumns+` FROM review_gates
		WHERE job_id = $1 AND tenant_id = $2
		ORDER BY created_at`,
		[]any{id, tenantID}, scanGate,
	)
	if err != nil {
		return nil, fmt.Errorf("query review gates: %w", err)
	}
	return gates, nil
}

func (r *repo) OpenReviewGate(ctx context.Context, payloadTenantID, id uuid.UUID, opening GateOpening) (*Job, error) {
	if opening.GateID == "" {
		return nil, ErrInvalid
	}

	outcome, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (webhookOutcome, error) {
		job, err := lockJob(ctx, tx, id)
		if err != nil {
			return webhookOutcome{}, err
		}

		// Rejections still commit their event row, so the reject error rides
		// in the outcome rather than failing the transaction.
		if job.TenantID != payloadTenantID {
			if err := insertEvent(ctx, tx, job.TenantID, id, EventWebhookTenantMismatch, map[string]any{
				"payload_tenant_id": payloadTenantID.String(),
				"gate_id":           opening.GateID,
			}); err != nil {
				return webhookOutcome{}, err
			}
			return webhookOutcome{reject: ErrTenantMismatch}, nil
		}

		if Terminal(job.Status) {
			if err := insertEvent(ctx, tx, job.TenantID, id, EventWebhookConflict, map[string]any{
				"gate_id": opening.GateID,
				"status":  job.Status,
			}); err != nil {
				return webhookOutcome{}, err
			}
			return webhookOutcome{reject: ErrTerminal}, nil
		}

		keysJSON, err := marshalJSON(opening.Keys)
		if err != nil {
			return webhookOutcome{}, err
		}
		sourcesJSON, err := marshalJSON(opening.KeySources)
		if err != nil {
			return webhookOutcome{}, err
		}
		translatedJSON, err := marshalJSON(opening.KeysTranslated)
		if err != nil {
			return webhookOutcome{}, err
		}
		pagesJSON, err := marshalJSON(opening.Pages)
		if err != nil {
			return webhookOutcome{}, err
		}
		contextJSON, err := marshalJSON(opening.Context)
		if err != nil {
			return webhookOutcome{}, err
		}

		now := time.Now().UTC()

		// Redelivery of the same gate reopens the existing row.
		err = repository.ExecExpectOne(ctx, tx, `
			INSERT INTO review_gates
				(id, tenant_id, job_id, gate_id, input_kind, ref_id, status,
				keys, key_sources, keys_translated, pages, context)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (job_id, gate_id) DO UPDATE SET
				status = EXCLUDED.status,
				input_kind = EXCLUDED.input_kind,
				ref_id = EXCLUDED.ref_id,
				keys = EXCLUDED.keys,
				key_sources = EXCLUDED.key_sources,
				keys_translated = EXCLUDED.keys_translated,
				pages = EXCLUDED.pages,
				context = EXCLUDED.context,
				keys_reviewed = NULL,
				reviewer_id = NULL,
				closed_at = NULL,
				updated_at = $13`,
			uuid.New(), job.TenantID, id, opening.GateID, opening.InputKind, opening.RefID,
			GatePending, keysJSON, sourcesJSON, translatedJSON, pagesJSON, contextJSON, now,
		)
		if err != nil {
			return webhookOutcome{}, fmt.Errorf("upsert review gate: %w", err)
		}

		job.Result.MergeGate(opening.GateID, map[string]any{
			"keys":            opening.Keys,
			"keys_translated": opening.KeysTranslated,
			"pages":           opening.Pages,
		})

		updated, err := repository.QueryOne(ctx, tx, `
			UPDATE jobs
			SET status = $1, current_gate_id = $2, result = $3, updated_at = $4
			WHERE id = $5
			RETURNING `+jobColumns,
			[]any{ReviewStatus(opening.GateID), opening.GateID, job.Result, now, id},
			scanJob,
		)
		if err != nil {
			return webhookOutcome{}, fmt.Errorf("park job at gate: %w", err)
		}

		if err := insertEvent(ctx, tx, job.TenantID, id, EventReviewGateOpened, map[string]any{
			"gate_id": opening.GateID,
			"keys":    len(opening.Keys),
		}); err != nil {
			return webhookOutcome{}, err
		}

		return webhookOutcome{job: &updated}, nil
	})
	if err != nil {
		return nil, err
	}
	if outcome.reject != nil {
		return nil, outcome.reject
	}
	return outcome.job, nil
}

// webhookOutcome lets a webhook transaction commit its event rows while the
// request itself is rejected.
type webhookOutcome struct {
	job    *Job
	reject error
}

func (r *repo) ApplyDone(ctx context.Context, payloadTenantID, id uuid.UUID, finalPDFURL string, completion map[string]any) (*Job, error) {
	return r.applyTerminal(ctx, payloadTenantID, id, StatusDone, EventJobCompleted,
		func(job *Job) {
			job.Result.SetFinalPDFURL(finalPDFURL)
			job.Result.SetCompletionMetadata(completion)
			job.Error = nil
		},
		map[string]any{"final_pdf_url": finalPDFURL},
	)
}

func (r *repo) ApplyFailed(ctx context.Context, payloadTenantID, id uuid.UUID, reason string, failure map[string]any) (*Job, error) {
	return r.applyTerminal(ctx, payloadTenantID, id, StatusFailed, EventJobFailed,
		func(job *Job) {
			job.Result.SetFailureMetadata(failure)
			job.Error = &reason
		},
		map[string]any{"error": reason},
	)
}

// applyTerminal applies a done or failed webhook under the first-write-wins
// guard: a job already terminal records a conflict event and changes nothing.
func (r *repo) applyTerminal(
	ctx context.Context,
	payloadTenantID, id uuid.UUID,
	status, eventType string,
	mutate func(*Job),
	eventPayload map[string]any,
) (*Job, error) {
	outcome, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (webhookOutcome, error) {
		job, err := lockJob(ctx, tx, id)
		if err != nil {
			return webhookOutcome{}, err
		}

		if job.TenantID != payloadTenantID {
			if err := insertEvent(ctx, tx, job.TenantID, id, EventWebhookTenantMismatch, map[string]any{
				"payload_tenant_id": payloadTenantID.String(),
				"status":            status,
			}); err != nil {
				return webhookOutcome{}, err
			}
			return webhookOutcome{reject: ErrTenantMismatch}, nil
		}

		if Terminal(job.Status) {
			if err := insertEvent(ctx, tx, job.TenantID, id, EventWebhookConflict, map[string]any{
				"attempted": status,
				"status":    job.Status,
			}); err != nil {
				return webhookOutcome{}, err
			}
			return webhookOutcome{reject: ErrTerminal}, nil
		}

		mutate(job)

		now := time.Now().UTC()
		updated, err := repository.QueryOne(ctx, tx, `
			UPDATE jobs
			SET status = $1, result = $2, error = $3, current_gate_id = NULL,
				finished_at = $4, updated_at = $4
			WHERE id = $5 AND status NOT IN ($6, $7)
			RETURNING `+jobColumns,
			[]any{status, job.Result, job.Error, now, id, StatusDone, StatusFailed},
			scanJob,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return webhookOutcome{reject: ErrTerminal}, nil
			}
			return webhookOutcome{}, fmt.Errorf("finish job: %w", err)
		}

		if err := insertEvent(ctx, tx, job.TenantID, id, eventType, eventPayload); err != nil {
			return webhookOutcome{}, err
		}

		return webhookOutcome{job: &updated}, nil
	})
	if err != nil {
		return nil, err
	}
	if outcome.reject != nil {
		return nil, outcome.reject
	}
	return outcome.job, nil
}

func (r *repo) loadDefinition(ctx context.Context, workflowID uuid.UUID) (*workflow.Definition, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT definition FROM workflows WHERE id = $1", workflowID,
	).Scan(&raw)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrInvalid)
	}

	var def workflow.Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode workflow definition: %w", err)
	}
	return &def, nil
}

func lockJob(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*Job, error) {
	job, err := repository.QueryOne(ctx, tx,
		"SELECT "+jobColumns+" FROM jobs WHERE id = $1 FOR UPDATE",
		[]any{id}, scanJob,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrInvalid)
	}
	return &job, nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, tenantID, jobID uuid.UUID, eventType string, payload map[string]any) error {
	payloadJSON, err := marshalJSON(payload)
	if err != nil {
		return err
	}

	err = repository.ExecExpectOne(ctx, tx, `
		INSERT INTO job_events (id, tenant_id, job_id, event_type, payload)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), tenantID, jobID, eventType, payloadJSON,
	)
	if err != nil {
		return fmt.Errorf("insert %s event: %w", eventType, err)
	}
	return nil
}

func sourceKey(tenantID, jobID uuid.UUID) string {
	return fmt.Sprintf("docs/%s/jobs/%s/original.pdf", tenantID, jobID)
}
