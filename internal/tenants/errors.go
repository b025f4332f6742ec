package tenants

import (
	"errors"
	"net/http"

	"github.com/gfmozzer/lingua/workflow"
)

// Domain errors for tenant workflow operations.
var (
	ErrNotFound       = errors.New("tenant workflow not found")
	ErrDuplicate      = errors.New("tenant workflow name already in use")
	ErrInvalid        = errors.New("invalid tenant workflow payload")
	ErrTokenRequired  = errors.New("ready status requires a default LLM token")
	ErrImmutableField = errors.New("step structure is immutable after cloning")
	ErrNoRenderStep   = errors.New("template has no render step")
)

// MapHTTPStatus maps tenant workflow domain errors to HTTP status codes.
// Stale-clone failures surface as 409: the clone conflicts with the current
// template version and cannot be saved or resolved until re-cloned.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, workflow.ErrStaleClone):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid),
		errors.Is(err, ErrTokenRequired),
		errors.Is(err, ErrImmutableField),
		errors.Is(err, ErrNoRenderStep),
		errors.Is(err, workflow.ErrInvalidStructure):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
