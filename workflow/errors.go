package workflow

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Category errors for errors.Is checks across the package.
var (
	// ErrInvalidStructure wraps every structural violation found by Compile.
	ErrInvalidStructure = errors.New("invalid workflow structure")
	// ErrStaleClone indicates a tenant workflow's steps no longer mirror its template.
	ErrStaleClone = errors.New("tenant workflow is stale relative to its template")
)

// StructuralError reports a violated template invariant, carrying the
// offending step id. Structural errors are never retryable: they indicate a
// malformed template and are surfaced verbatim to the caller.
type StructuralError struct {
	StepID uuid.UUID
	Reason string
}

func (e *StructuralError) Error() string {
	if e.StepID == uuid.Nil {
		return fmt.Sprintf("workflow structure: %s", e.Reason)
	}
	return fmt.Sprintf("workflow structure: step %s: %s", e.StepID, e.Reason)
}

func (e *StructuralError) Unwrap() error { return ErrInvalidStructure }

func structuralf(stepID uuid.UUID, format string, args ...any) error {
	return &StructuralError{StepID: stepID, Reason: fmt.Sprintf(format, args...)}
}
