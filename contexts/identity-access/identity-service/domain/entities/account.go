package entities

import (
	"time"

	"athenaeum/internal/shared/principal"
	"athenaeum/internal/shared/roles"
)

type Account struct {
	AccountID    string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsStaff      bool
	IsSuperuser  bool
	IsActive     bool
	FirstName    string
	LastName     string
	Bio          string
	CreatedAt    time.Time
}

// ApplyRole sets the role and recomputes the privilege flags from it.
// Flags are derived state and never drift from the role.
func (a *Account) ApplyRole(role string) {
	a.Role = role
	a.IsStaff = roles.IsStaff(role)
	a.IsSuperuser = roles.IsSuperuser(role)
}

func (a Account) Principal() principal.Principal {
	return principal.Principal{
		AccountID:     a.AccountID,
		Username:      a.Username,
		Role:          a.Role,
		Authenticated: true,
	}
}
