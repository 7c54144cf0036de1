package identity

import (
	"log/slog"
	"time"

	keymemory "athenaeum/contexts/identity-access/registration-key-service/adapters/memory"
	keyapplication "athenaeum/contexts/identity-access/registration-key-service/application"

	"athenaeum/contexts/identity-access/identity-service/adapters/crypto"
	httpadapter "athenaeum/contexts/identity-access/identity-service/adapters/http"
	"athenaeum/contexts/identity-access/identity-service/adapters/keygate"
	"athenaeum/contexts/identity-access/identity-service/adapters/memory"
	"athenaeum/contexts/identity-access/identity-service/application"
	"athenaeum/contexts/identity-access/identity-service/ports"
)

// Module is the identity-service composition root exposed to runtime wiring.
// Service is exported so the HTTP layer can resolve session principals.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Keys       ports.KeyGate
	Hasher     ports.PasswordHasher
	Clock      ports.Clock
	IDs        ports.IDGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:       deps.Repository,
		Keys:       deps.Keys,
		Hasher:     deps.Hasher,
		Clock:      deps.Clock,
		IDs:        deps.IDs,
		SessionTTL: deps.SessionTTL,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. It shares the given key store so registrations consume keys the
// key module issued.
func NewInMemoryModule(keys keyapplication.Service, keyStore *keymemory.Store, logger *slog.Logger) Module {
	store := memory.NewStore(keyStore)
	module := NewModule(Dependencies{
		Repository: store,
		Keys:       keygate.New(keys),
		Hasher:     crypto.BcryptHasher{},
		Clock:      store,
		IDs:        store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
