package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"

	"github.com/gfmozzer/lingua/pkg/handlers"
)

// Verifier validates bearer tokens and resolves them to principals.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
	logger   *slog.Logger
}

// NewVerifier discovers the OIDC provider and builds a token verifier.
func NewVerifier(ctx context.Context, cfg *Config, logger *slog.Logger) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}

	return &Verifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		logger:   logger.With("system", "auth"),
	}, nil
}

type tokenClaims struct {
	Subject  string `json:"sub"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
}

// Verify validates a raw bearer token and extracts the principal.
func (v *Verifier) Verify(ctx context.Context, raw string) (Principal, error) {
	token, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	var claims tokenClaims
	if err := token.Claims(&claims); err != nil {
		return Principal{}, fmt.Errorf("%w: parse claims: %v", ErrUnauthorized, err)
	}

	p := Principal{UserID: claims.Subject, Role: claims.Role}

	switch claims.Role {
	case RoleOperator:
		id, err := uuid.Parse(claims.TenantID)
		if err != nil {
			return Principal{}, fmt.Errorf("%w: operator token lacks tenant", ErrUnauthorized)
		}
		p.TenantID = &id
	case RoleSuperAdmin:
		// Super-admin tokens carry no tenant; scoping is per-request.
	default:
		return Principal{}, fmt.Errorf("%w: unknown role %q", ErrForbidden, claims.Role)
	}

	return p, nil
}

// Middleware returns middleware that requires a valid bearer token and
// stores the principal in the request context.
func (v *Verifier) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, v.logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			p, err := v.Verify(r.Context(), raw)
			if err != nil {
				handlers.RespondError(w, v.logger, MapHTTPStatus(err), err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole returns middleware that rejects principals lacking the role.
// Super-admins pass every role check.
func (v *Verifier) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if !ok {
				handlers.RespondError(w, v.logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}
			if p.Role != role && p.Role != RoleSuperAdmin {
				handlers.RespondError(w, v.logger, http.StatusForbidden, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
