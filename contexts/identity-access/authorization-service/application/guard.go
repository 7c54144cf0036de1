package application

import (
	"log/slog"

	"athenaeum/contexts/identity-access/authorization-service/domain/services"
	"athenaeum/internal/shared/principal"
)

// Guard is the policy facade consumed by HTTP routing and the catalog
// module. Decisions are pure; the guard only adds denial logging.
type Guard struct {
	Logger *slog.Logger
}

func (g Guard) CanEdit(p principal.Principal, authorID string) bool {
	return g.decide("edit", p, services.CanEdit(p, authorID))
}

func (g Guard) CanDelete(p principal.Principal, authorID string) bool {
	return g.decide("delete", p, services.CanDelete(p, authorID))
}

func (g Guard) CanCreateContent(p principal.Principal) bool {
	return g.decide("create_content", p, services.CanCreateContent(p))
}

func (g Guard) CanManageTopics(p principal.Principal) bool {
	return g.decide("manage_topics", p, services.CanManageTopics(p))
}

func (g Guard) CanManageKeys(p principal.Principal) bool {
	return g.decide("manage_keys", p, services.CanManageKeys(p))
}

func (g Guard) CanManageAccounts(p principal.Principal) bool {
	return g.decide("manage_accounts", p, services.CanManageAccounts(p))
}

func (g Guard) decide(action string, p principal.Principal, allowed bool) bool {
	if !allowed {
		ResolveLogger(g.Logger).Debug("permission denied",
			"event", "permission_denied",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"action", action,
			"account_id", p.AccountID,
			"role", p.Role,
		)
	}
	return allowed
}
