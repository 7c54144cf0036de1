package catalog

import (
	"log/slog"

	httpadapter "athenaeum/contexts/library/catalog-service/adapters/http"
	"athenaeum/contexts/library/catalog-service/adapters/memory"
	"athenaeum/contexts/library/catalog-service/application"
	"athenaeum/contexts/library/catalog-service/ports"
)

// Module is the catalog-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Guard      ports.Guard
	Clock      ports.Clock
	IDs        ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Guard:  deps.Guard,
		Clock:  deps.Clock,
		IDs:    deps.IDs,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(guard ports.Guard, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Guard:      guard,
		Clock:      store,
		IDs:        store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
