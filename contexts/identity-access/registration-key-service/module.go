package registrationkeys

import (
	"log/slog"

	httpadapter "athenaeum/contexts/identity-access/registration-key-service/adapters/http"
	"athenaeum/contexts/identity-access/registration-key-service/adapters/memory"
	"athenaeum/contexts/identity-access/registration-key-service/application"
	"athenaeum/contexts/identity-access/registration-key-service/ports"
)

// Module is the registration-key-service composition root exposed to runtime
// wiring. Service is exported so the identity module can gate registration
// on key state.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDs        ports.IDGenerator
	Tokens     ports.TokenGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Clock:  deps.Clock,
		IDs:    deps.IDs,
		Tokens: deps.Tokens,
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
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDs:        store,
		Tokens:     store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
