// Package auth verifies bearer tokens against an OIDC provider and carries
// the authenticated principal through the request context. Operators are
// bound to a single tenant; super-admins select the tenant per request.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Principal roles. Operators act within their own tenant; super-admins
// manage the global catalog and may act on behalf of any tenant.
const (
	RoleOperator   = "operator"
	RoleSuperAdmin = "super-admin"
)

// TenantHeader selects the acting tenant for super-admin requests.
const TenantHeader = "X-Tenant-ID"

var (
	ErrUnauthorized   = errors.New("missing or invalid bearer token")
	ErrForbidden      = errors.New("insufficient role")
	ErrTenantRequired = errors.New("request is not scoped to a tenant")
)

// Principal is the authenticated caller. TenantID is nil for super-admins,
// who are not bound to a tenant by their token.
type Principal struct {
	UserID   string     `json:"user_id"`
	Role     string     `json:"role"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
}

type contextKey struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored by the middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// TenantID resolves the tenant a request acts on. Operators always act on
// their token's tenant; super-admins must name one via the tenant header.
func TenantID(r *http.Request) (uuid.UUID, error) {
	p, ok := FromContext(r.Context())
	if !ok {
		return uuid.Nil, ErrUnauthorized
	}

	if p.TenantID != nil {
		return *p.TenantID, nil
	}

	if p.Role == RoleSuperAdmin {
		raw := r.Header.Get(TenantHeader)
		if raw == "" {
			return uuid.Nil, ErrTenantRequired
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, ErrTenantRequired
		}
		return id, nil
	}

	return uuid.Nil, ErrTenantRequired
}

// MapHTTPStatus maps auth errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTenantRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
