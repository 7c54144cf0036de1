package ports

import (
	"context"
	"time"

	"athenaeum/contexts/identity-access/registration-key-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// TokenGenerator produces opaque key tokens. Implementations must use a
// cryptographically secure source.
type TokenGenerator interface {
	NewToken() (string, error)
}

type Repository interface {
	CreateKey(ctx context.Context, key entities.Key) error
	GetKeyByToken(ctx context.Context, token string) (entities.Key, error)
	GetKey(ctx context.Context, keyID string) (entities.Key, error)
	// ConsumeKey increments uses by one iff the key is currently usable.
	// The conditional update is the single source of truth for success.
	ConsumeKey(ctx context.Context, token string, now time.Time) (bool, error)
	RevokeKey(ctx context.Context, keyID string) error
	ListActiveByCreator(ctx context.Context, creatorID string) ([]entities.Key, error)
	ListActive(ctx context.Context) ([]entities.Key, error)
}
