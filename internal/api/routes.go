package api

import (
	"net/http"

	"github.com/gfmozzer/lingua/internal/auth"
	"github.com/gfmozzer/lingua/internal/config"
	"github.com/gfmozzer/lingua/internal/webhooks"
	"github.com/gfmozzer/lingua/pkg/middleware"
	"github.com/gfmozzer/lingua/pkg/routes"
)

// registerRoutes wires every domain handler into the mux. Catalog groups
// require super-admin; tenant groups require operator; the webhook group is
// authenticated by HMAC signature instead of a bearer token.
func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	verifier *auth.Verifier,
	runtime *Runtime,
) {
	bearer := verifier.Middleware()
	superAdmin := verifier.RequireRole(auth.RoleSuperAdmin)
	operator := verifier.RequireRole(auth.RoleOperator)

	signature := middleware.Signature(cfg.API.WebhookSecret, runtime.Logger)
	webhookHandler := webhooks.NewHandler(domain.Jobs, runtime.Logger)

	routes.Register(
		mux,
		guarded(domain.Agents.Handler().Routes(), bearer, superAdmin),
		guarded(domain.Render.Handler().Routes(), bearer, superAdmin),
		guarded(domain.Templates.Handler().Routes(), bearer, superAdmin),
		guarded(domain.Tenants.Handler().Routes(), bearer, operator),
		guarded(domain.Jobs.Handler().Routes(), bearer, operator),
		guarded(webhookHandler.Routes(), signature),
	)
}

// guarded wraps every route in the group with the given middleware, applied
// outermost first.
func guarded(group routes.Group, mws ...func(http.Handler) http.Handler) routes.Group {
	wrapped := make([]routes.Route, len(group.Routes))
	for i, rt := range group.Routes {
		var h http.Handler = rt.Handler
		for j := len(mws) - 1; j >= 0; j-- {
			h = mws[j](h)
		}
		wrapped[i] = routes.Route{
			Method:  rt.Method,
			Pattern: rt.Pattern,
			Handler: h.ServeHTTP,
		}
	}
	group.Routes = wrapped
	return group
}
