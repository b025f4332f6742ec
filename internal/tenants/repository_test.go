package tenants_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/internal/tenants"
	"github.com/gfmozzer/lingua/pkg/pagination"
	"github.com/gfmozzer/lingua/workflow"
)

func newRepo(t *testing.T) (tenants.System, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sys := tenants.New(
		db,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
	return sys, mock
}

func workflowRow(id uuid.UUID, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "template_id", "name", "version", "status",
		"llm_token_ref_default", "created_at", "updated_at",
	}).AddRow(
		id.String(), tenantID.String(), uuid.New().String(),
		"birth-certificate-de", 3, status, nil, now, now,
	)
}

func TestSaveSettingsSanitizesRenderOverride(t *testing.T) {
	sys, mock := newRepo(t)

	stepID := uuid.New()
	templateStepID := uuid.New()
	sourceStepID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT .+ FROM tenant_workflows.+FOR UPDATE`).
		WithArgs(workflowID, tenantID).
		WillReturnRows(workflowRow(workflowID, tenants.StatusDraft))
	mock.ExpectQuery(`(?s)SELECT .+ FROM tenant_workflow_steps`).
		WithArgs(workflowID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "template_step_id", "kind", "position", "label", "source_step_id",
			"system_prompt_override", "llm_provider_override", "llm_token_ref_override",
			"render_html_override", "config_override",
		}).AddRow(
			stepID.String(), templateStepID.String(), "render", 1, "render",
			sourceStepID.String(), nil, nil, nil, nil, nil,
		))
	mock.ExpectExec(`(?s)UPDATE tenant_workflow_steps`).
		WithArgs(nil, nil, nil, "<p>certificate layout</p>", []byte(nil), stepID, workflowID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)UPDATE tenant_workflows.+RETURNING`).
		WithArgs(tenants.StatusDraft, nil, sqlmock.AnyArg(), workflowID, tenantID).
		WillReturnRows(workflowRow(workflowID, tenants.StatusDraft))
	mock.ExpectCommit()

	dirty := `<p>certificate layout</p><script>alert('x')</script>`
	_, err := sys.SaveSettings(context.Background(), tenantID, workflowID, tenants.SaveSettingsCommand{
		Steps: []tenants.StepSettings{
			{ID: stepID, Overrides: workflow.Overrides{RenderHTML: &dirty}},
		},
	})
	if err != nil {
		t.Fatalf("save settings: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("script-bearing override was not sanitized before the update: %v", err)
	}
}

func TestSaveSettingsRejectsStructuralRewrite(t *testing.T) {
	sys, mock := newRepo(t)

	stepID := uuid.New()
	templateStepID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT .+ FROM tenant_workflows.+FOR UPDATE`).
		WithArgs(workflowID, tenantID).
		WillReturnRows(workflowRow(workflowID, tenants.StatusDraft))
	mock.ExpectQuery(`(?s)SELECT .+ FROM tenant_workflow_steps`).
		WithArgs(workflowID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "template_step_id", "kind", "position", "label", "source_step_id",
			"system_prompt_override", "llm_provider_override", "llm_token_ref_override",
			"render_html_override", "config_override",
		}).AddRow(
			stepID.String(), templateStepID.String(), "agent", 1, "ocr",
			nil, nil, nil, nil, nil, nil,
		))
	mock.ExpectRollback()

	position := 2
	_, err := sys.SaveSettings(context.Background(), tenantID, workflowID, tenants.SaveSettingsCommand{
		Steps: []tenants.StepSettings{
			{ID: stepID, Position: &position},
		},
	})
	if !errors.Is(err, tenants.ErrImmutableField) {
		t.Fatalf("expected ErrImmutableField, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("a structural rewrite should not reach the step update: %v", err)
	}
}
