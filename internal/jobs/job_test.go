package jobs_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/internal/jobs"
)

func TestStatusHelpers(t *testing.T) {
	if got := jobs.ReviewStatus("rv1"); got != "review:rv1" {
		t.Errorf("ReviewStatus = %q", got)
	}

	for status, want := range map[string]bool{
		"review:rv1":      true,
		"review:":         true,
		jobs.StatusQueued: false,
		jobs.StatusDone:   false,
		"reviewing":       false,
	} {
		if got := jobs.InReview(status); got != want {
			t.Errorf("InReview(%q) = %v, want %v", status, got, want)
		}
	}

	for status, want := range map[string]bool{
		jobs.StatusDone:       true,
		jobs.StatusFailed:     true,
		jobs.StatusQueued:     false,
		jobs.StatusProcessing: false,
		"review:rv1":          false,
	} {
		if got := jobs.Terminal(status); got != want {
			t.Errorf("Terminal(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestCreateCommandValidate(t *testing.T) {
	cmd := jobs.CreateCommand{}
	if err := cmd.Validate(); err == nil {
		t.Error("missing tenant workflow id should fail validation")
	}

	cmd.TenantWorkflowID = uuid.New()
	if err := cmd.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSubmitReviewCommandValidate(t *testing.T) {
	cmd := jobs.SubmitReviewCommand{}
	if err := cmd.Validate(); err == nil {
		t.Error("empty key set should fail validation")
	}

	cmd.KeysReviewed = map[string]string{"name": "Anna"}
	if err := cmd.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
