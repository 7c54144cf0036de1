package ports

import (
	"context"
	"time"

	"athenaeum/contexts/identity-access/identity-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// KeyStatus is what registration needs to know about a usable key.
type KeyStatus struct {
	Role string
}

// KeyGate is implemented over the registration-key module. Check returns the
// key's sentinel errors unchanged so registration failures stay distinct
// (not-found, inactive, exhausted, expired).
type KeyGate interface {
	Check(ctx context.Context, token string) (KeyStatus, error)
}

// RoleStats is the admin dashboard breakdown by role.
type RoleStats struct {
	Total    int
	Admins   int
	Teachers int
	Students int
}

type Repository interface {
	// CreateAccountWithKey atomically persists the account and consumes the
	// registration key. The account must not survive a failed consumption.
	CreateAccountWithKey(ctx context.Context, account entities.Account, keyToken string, now time.Time) error

	GetAccountByID(ctx context.Context, accountID string) (entities.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (entities.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListAccounts(ctx context.Context) ([]entities.Account, error)
	UpdateAccount(ctx context.Context, account entities.Account) error
	DeleteAccount(ctx context.Context, accountID string) error

	CreateSession(ctx context.Context, session entities.Session) error
	GetSession(ctx context.Context, tokenHash string, now time.Time) (entities.Session, bool, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}
