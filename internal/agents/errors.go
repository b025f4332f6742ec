package agents

import (
	"errors"
	"net/http"
)

// Domain errors for agent catalog operations.
var (
	ErrNotFound       = errors.New("agent not found")
	ErrDuplicate      = errors.New("agent already exists")
	ErrInvalid        = errors.New("invalid agent payload")
	ErrInvalidKind    = errors.New("agent kind must be ocr, structured, translator, or render")
	ErrSchemaRequired = errors.New("structured agents require a non-empty output schema")
	ErrInUse          = errors.New("agent is referenced by workflow steps")
)

// MapHTTPStatus maps agent domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrInvalidKind), errors.Is(err, ErrSchemaRequired):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
