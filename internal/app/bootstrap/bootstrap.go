package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	authorization "athenaeum/contexts/identity-access/authorization-service"
	identity "athenaeum/contexts/identity-access/identity-service"
	identitycrypto "athenaeum/contexts/identity-access/identity-service/adapters/crypto"
	"athenaeum/contexts/identity-access/identity-service/adapters/keygate"
	identitypostgres "athenaeum/contexts/identity-access/identity-service/adapters/postgres"
	registrationkeys "athenaeum/contexts/identity-access/registration-key-service"
	keypostgres "athenaeum/contexts/identity-access/registration-key-service/adapters/postgres"
	catalog "athenaeum/contexts/library/catalog-service"
	catalogpostgres "athenaeum/contexts/library/catalog-service/adapters/postgres"
	"athenaeum/internal/platform/config"
	"athenaeum/internal/platform/db"
	"athenaeum/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	keyRepo := keypostgres.NewRepository(pg.DB, logger)
	keyModule := registrationkeys.NewModule(registrationkeys.Dependencies{
		Repository: keyRepo,
		Clock:      keypostgres.SystemClock{},
		IDs:        keypostgres.UUIDGenerator{},
		Tokens:     keypostgres.AlphanumericTokenGenerator{},
		Logger:     logger,
	})

	identityRepo := identitypostgres.NewRepository(pg.DB, logger)
	identityModule := identity.NewModule(identity.Dependencies{
		Repository: identityRepo,
		Keys:       keygate.New(keyModule.Service),
		Hasher:     identitycrypto.BcryptHasher{Cost: cfg.BcryptCost},
		Clock:      identitypostgres.SystemClock{},
		IDs:        identitypostgres.UUIDGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	})

	authModule := authorization.NewModule(logger)

	catalogRepo := catalogpostgres.NewRepository(pg.DB, logger)
	catalogModule := catalog.NewModule(catalog.Dependencies{
		Repository: catalogRepo,
		Guard:      authModule.Guard,
		Clock:      catalogpostgres.SystemClock{},
		IDs:        catalogpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	server := httpserver.New(
		keyModule,
		identityModule,
		authModule,
		catalogModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
