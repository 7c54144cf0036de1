package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"athenaeum/contexts/identity-access/registration-key-service/domain/entities"
	domainerrors "athenaeum/contexts/identity-access/registration-key-service/domain/errors"
	"athenaeum/contexts/identity-access/registration-key-service/ports"
	"athenaeum/internal/shared/roles"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Tokens ports.TokenGenerator
	Logger *slog.Logger
}

// Generate creates a fresh key for the given role. expiryDays = 0 means the
// key never expires; maxUses = 0 means unlimited uses.
func (s Service) Generate(
	ctx context.Context,
	creatorID string,
	role string,
	expiryDays int,
	maxUses int,
	note string,
) (entities.Key, error) {
	if !roles.IsValid(role) {
		return entities.Key{}, domainerrors.ErrInvalidRole
	}
	if expiryDays < 0 {
		return entities.Key{}, domainerrors.ErrInvalidExpiry
	}
	if maxUses < 0 {
		return entities.Key{}, domainerrors.ErrInvalidMaxUses
	}

	keyID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Key{}, err
	}
	token, err := s.Tokens.NewToken()
	if err != nil {
		return entities.Key{}, err
	}

	now := s.now()
	key := entities.Key{
		KeyID:     keyID,
		Token:     token,
		Role:      role,
		CreatedBy: strings.TrimSpace(creatorID),
		CreatedAt: now,
		MaxUses:   maxUses,
		Uses:      0,
		Note:      strings.TrimSpace(note),
		IsActive:  true,
	}
	if expiryDays > 0 {
		expiresAt := now.AddDate(0, 0, expiryDays)
		key.ExpiresAt = &expiresAt
	}

	if err := s.Repo.CreateKey(ctx, key); err != nil {
		return entities.Key{}, err
	}

	resolveLogger(s.Logger).Info("registration key generated",
		"event", "registration_key_generated",
		"module", "identity-access/registration-key-service",
		"layer", "application",
		"key_id", key.KeyID,
		"role", key.Role,
		"max_uses", key.MaxUses,
	)
	return key, nil
}

// Check resolves a token and reports its validity without mutating state.
// The returned key is valid only when err is nil.
func (s Service) Check(ctx context.Context, token string) (entities.Key, error) {
	key, err := s.Repo.GetKeyByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return entities.Key{}, err
	}
	switch key.Validate(s.now()) {
	case entities.VerdictInactive:
		return key, domainerrors.ErrKeyInactive
	case entities.VerdictExhausted:
		return key, domainerrors.ErrKeyExhausted
	case entities.VerdictExpired:
		return key, domainerrors.ErrKeyExpired
	}
	return key, nil
}

// Consume spends one use of the key. Success is decided solely by the
// store's conditional increment, never by a prior read.
func (s Service) Consume(ctx context.Context, token string) (bool, error) {
	return s.Repo.ConsumeKey(ctx, strings.TrimSpace(token), s.now())
}

// Revoke deactivates a key. Only the creator may revoke; revoking an
// already-inactive key is a no-op.
func (s Service) Revoke(ctx context.Context, keyID string, requesterID string) error {
	key, err := s.Repo.GetKey(ctx, strings.TrimSpace(keyID))
	if err != nil {
		return err
	}
	if key.CreatedBy != strings.TrimSpace(requesterID) {
		return domainerrors.ErrNotKeyCreator
	}
	if !key.IsActive {
		return nil
	}
	if err := s.Repo.RevokeKey(ctx, key.KeyID); err != nil {
		return err
	}

	resolveLogger(s.Logger).Info("registration key revoked",
		"event", "registration_key_revoked",
		"module", "identity-access/registration-key-service",
		"layer", "application",
		"key_id", key.KeyID,
	)
	return nil
}

// ListActive returns the requester's own active keys, newest first.
func (s Service) ListActive(ctx context.Context, requesterID string) ([]entities.Key, error) {
	return s.Repo.ListActiveByCreator(ctx, strings.TrimSpace(requesterID))
}

// ListAllActive is the admin oversight view: active keys from every creator.
func (s Service) ListAllActive(ctx context.Context) ([]entities.Key, error) {
	return s.Repo.ListActive(ctx)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
