package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"athenaeum/contexts/identity-access/registration-key-service/application"
	"athenaeum/contexts/identity-access/registration-key-service/domain/entities"
	domainerrors "athenaeum/contexts/identity-access/registration-key-service/domain/errors"
	httptransport "athenaeum/contexts/identity-access/registration-key-service/transport/http"
	"athenaeum/internal/shared/roles"
)

const (
	defaultExpiryDays = 7
	defaultMaxUses    = 1
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GenerateKeyHandler(
	ctx context.Context,
	requesterID string,
	req httptransport.GenerateKeyRequest,
) (httptransport.GenerateKeyResponse, error) {
	role, ok := roles.Canonical(strings.ToLower(strings.TrimSpace(req.Role)))
	if !ok {
		return httptransport.GenerateKeyResponse{}, domainerrors.ErrInvalidRole
	}

	expiryDays := defaultExpiryDays
	if req.ExpiryDays != nil {
		expiryDays = *req.ExpiryDays
	}
	maxUses := defaultMaxUses
	if req.MaxUses != nil {
		maxUses = *req.MaxUses
	}

	key, err := h.Service.Generate(ctx, requesterID, role, expiryDays, maxUses, req.Note)
	if err != nil {
		return httptransport.GenerateKeyResponse{}, err
	}
	return httptransport.GenerateKeyResponse{
		Success: true,
		Key:     keyPayload(key),
	}, nil
}

func (h Handler) ActiveKeysHandler(ctx context.Context, requesterID string) (httptransport.ActiveKeysResponse, error) {
	keys, err := h.Service.ListActive(ctx, requesterID)
	if err != nil {
		return httptransport.ActiveKeysResponse{}, err
	}
	return activeKeysResponse(keys), nil
}

// AllActiveKeysHandler is the admin oversight listing: every creator's
// active keys, not just the requester's.
func (h Handler) AllActiveKeysHandler(ctx context.Context) (httptransport.ActiveKeysResponse, error) {
	keys, err := h.Service.ListAllActive(ctx)
	if err != nil {
		return httptransport.ActiveKeysResponse{}, err
	}
	return activeKeysResponse(keys), nil
}

func (h Handler) RevokeKeyHandler(ctx context.Context, requesterID string, keyID string) (httptransport.RevokeKeyResponse, error) {
	if err := h.Service.Revoke(ctx, strings.TrimSpace(keyID), requesterID); err != nil {
		return httptransport.RevokeKeyResponse{}, err
	}
	return httptransport.RevokeKeyResponse{Success: true}, nil
}

// CheckKeyHandler never fails for key-state reasons: an unusable key is a
// valid=false payload with the distinct reason, matching the public
// registration-form contract.
func (h Handler) CheckKeyHandler(ctx context.Context, token string) (httptransport.CheckKeyResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return httptransport.CheckKeyResponse{Valid: false, Message: "registration key is required"}, nil
	}

	key, err := h.Service.Check(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrKeyNotFound),
			errors.Is(err, domainerrors.ErrKeyInactive),
			errors.Is(err, domainerrors.ErrKeyExhausted),
			errors.Is(err, domainerrors.ErrKeyExpired):
			return httptransport.CheckKeyResponse{Valid: false, Message: err.Error()}, nil
		default:
			return httptransport.CheckKeyResponse{}, err
		}
	}

	resp := httptransport.CheckKeyResponse{
		Valid:   true,
		Message: "registration key is valid",
		Role:    key.Role,
	}
	if key.ExpiresAt != nil {
		value := key.ExpiresAt.UTC().Format(time.RFC3339)
		resp.ExpiresAt = &value
	}
	if left, limited := key.UsesLeft(); limited {
		resp.UsesLeft = &left
	}
	return resp, nil
}

func activeKeysResponse(keys []entities.Key) httptransport.ActiveKeysResponse {
	resp := httptransport.ActiveKeysResponse{
		Success: true,
		Keys:    make([]httptransport.KeyPayload, 0, len(keys)),
	}
	for _, key := range keys {
		resp.Keys = append(resp.Keys, keyPayload(key))
	}
	return resp
}

func keyPayload(key entities.Key) httptransport.KeyPayload {
	payload := httptransport.KeyPayload{
		ID:        key.KeyID,
		Key:       key.Token,
		Role:      key.Role,
		CreatedAt: key.CreatedAt.UTC().Format(time.RFC3339),
		MaxUses:   key.MaxUses,
		Uses:      key.Uses,
		Note:      key.Note,
	}
	if key.ExpiresAt != nil {
		value := key.ExpiresAt.UTC().Format(time.RFC3339)
		payload.ExpiresAt = &value
	}
	return payload
}
