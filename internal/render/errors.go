package render

import (
	"errors"
	"net/http"
)

// Domain errors for render template operations.
var (
	ErrNotFound  = errors.New("render template not found")
	ErrDuplicate = errors.New("render template already exists")
	ErrInvalid   = errors.New("invalid render template payload")
	ErrInUse     = errors.New("render template is referenced by workflow steps")
)

// MapHTTPStatus maps render template domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
