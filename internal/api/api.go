// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gfmozzer/lingua/internal/auth"
	"github.com/gfmozzer/lingua/internal/config"
	"github.com/gfmozzer/lingua/internal/infrastructure"
	"github.com/gfmozzer/lingua/pkg/middleware"
	"github.com/gfmozzer/lingua/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg)

	verifier, err := auth.NewVerifier(context.Background(), &cfg.Auth, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, verifier, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
