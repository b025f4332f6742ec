package templates

import (
	"errors"
	"net/http"

	"github.com/gfmozzer/lingua/workflow"
)

// Domain errors for workflow template operations.
var (
	ErrNotFound  = errors.New("workflow template not found")
	ErrDuplicate = errors.New("workflow template already exists")
	ErrInvalid   = errors.New("invalid workflow template payload")
)

// MapHTTPStatus maps template domain errors to HTTP status codes.
// Structural compiler errors surface as 422: they describe a malformed
// template authored through super-admin tooling, never a transient fault.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid), errors.Is(err, workflow.ErrInvalidStructure):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
