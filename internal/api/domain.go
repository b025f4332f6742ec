package api

import (
	"github.com/gfmozzer/lingua/internal/agents"
	"github.com/gfmozzer/lingua/internal/config"
	"github.com/gfmozzer/lingua/internal/jobs"
	"github.com/gfmozzer/lingua/internal/orchestrator"
	"github.com/gfmozzer/lingua/internal/render"
	"github.com/gfmozzer/lingua/internal/templates"
	"github.com/gfmozzer/lingua/internal/tenants"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Agents    agents.System
	Render    render.System
	Templates templates.System
	Tenants   tenants.System
	Jobs      jobs.System
}

// NewDomain creates all domain systems from the API runtime. Jobs sit at the
// bottom of the dependency chain: they compile through the tenants system,
// which compiles through templates.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	db := runtime.Database.Connection()

	agentsSystem := agents.New(db, runtime.Logger, runtime.Pagination)
	renderSystem := render.New(db, runtime.Logger, runtime.Pagination)
	templatesSystem := templates.New(db, runtime.Logger, runtime.Pagination)
	tenantsSystem := tenants.New(db, templatesSystem, runtime.Logger, runtime.Pagination)

	engine := orchestrator.New(&cfg.Orchestrator, runtime.Logger)

	jobsSystem := jobs.New(
		db,
		tenantsSystem,
		engine,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		runtime.MaxUpload,
	)

	return &Domain{
		Agents:    agentsSystem,
		Render:    renderSystem,
		Templates: templatesSystem,
		Tenants:   tenantsSystem,
		Jobs:      jobsSystem,
	}
}
