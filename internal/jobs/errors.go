package jobs

import (
	"errors"
	"net/http"

	"github.com/gfmozzer/lingua/internal/orchestrator"
)

// Domain errors for job operations.
var (
	ErrNotFound       = errors.New("job not found")
	ErrInvalid        = errors.New("invalid job payload")
	ErrNotReady       = errors.New("tenant workflow is not ready")
	ErrTokenMissing   = errors.New("no LLM token configured for this workflow")
	ErrStateChanged   = errors.New("job changed state during dispatch")
	ErrGateNotFound   = errors.New("review gate not found")
	ErrGateNotPending = errors.New("review gate is not pending")
	ErrTenantMismatch = errors.New("webhook tenant does not match job tenant")
	ErrTerminal       = errors.New("job already reached a terminal state")
	ErrNotPDF         = errors.New("uploaded document is not a valid PDF")
)

// MapHTTPStatus maps job domain errors to HTTP status codes. Orchestrator
// failures surface as 502: the job state was left untouched or reset.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrGateNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStateChanged),
		errors.Is(err, ErrGateNotPending),
		errors.Is(err, ErrTenantMismatch),
		errors.Is(err, ErrTerminal):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid),
		errors.Is(err, ErrNotReady),
		errors.Is(err, ErrTokenMissing),
		errors.Is(err, ErrNotPDF):
		return http.StatusUnprocessableEntity
	case errors.Is(err, orchestrator.ErrUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
