package api

import (
	"github.com/gfmozzer/lingua/internal/config"
	"github.com/gfmozzer/lingua/internal/infrastructure"
	"github.com/gfmozzer/lingua/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	MaxUpload  int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		MaxUpload:  cfg.API.MaxUploadSizeBytes(),
	}
}
