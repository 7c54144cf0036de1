package authorization

import (
	"log/slog"

	"athenaeum/contexts/identity-access/authorization-service/application"
)

// Module is the authorization-service composition root exposed to runtime wiring.
type Module struct {
	Guard application.Guard
}

func NewModule(logger *slog.Logger) Module {
	return Module{
		Guard: application.Guard{Logger: logger},
	}
}
