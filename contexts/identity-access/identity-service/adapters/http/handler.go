package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"athenaeum/contexts/identity-access/identity-service/application"
	"athenaeum/contexts/identity-access/identity-service/domain/entities"
	domainerrors "athenaeum/contexts/identity-access/identity-service/domain/errors"
	httptransport "athenaeum/contexts/identity-access/identity-service/transport/http"
	"athenaeum/internal/shared/roles"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.RegisterResponse, error) {
	role, ok := roles.Canonical(strings.ToLower(strings.TrimSpace(req.Role)))
	if !ok {
		return httptransport.RegisterResponse{}, domainerrors.ErrInvalidRole
	}

	account, token, err := h.Service.Register(ctx, application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		KeyToken: req.RegistrationKey,
	})
	if err != nil {
		return httptransport.RegisterResponse{}, err
	}
	return httptransport.RegisterResponse{
		Success: true,
		Account: accountPayload(account),
		Token:   token,
	}, nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	account, token, err := h.Service.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		Success: true,
		Account: accountPayload(account),
		Token:   token,
	}, nil
}

func (h Handler) LogoutHandler(ctx context.Context, sessionToken string) (httptransport.LogoutResponse, error) {
	if err := h.Service.Logout(ctx, sessionToken); err != nil {
		return httptransport.LogoutResponse{}, err
	}
	return httptransport.LogoutResponse{Success: true}, nil
}

func (h Handler) ProfileHandler(ctx context.Context, accountID string) (httptransport.ProfileResponse, error) {
	account, err := h.Service.GetAccount(ctx, accountID)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{
		Success: true,
		Account: accountPayload(account),
	}, nil
}

func (h Handler) UpdateProfileHandler(
	ctx context.Context,
	accountID string,
	req httptransport.UpdateProfileRequest,
) (httptransport.ProfileResponse, error) {
	account, err := h.Service.UpdateProfile(ctx, accountID, application.ProfileInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{
		Success: true,
		Account: accountPayload(account),
	}, nil
}

// AccountsHandler is the admin listing with role statistics.
func (h Handler) AccountsHandler(ctx context.Context) (httptransport.AccountsResponse, error) {
	accounts, stats, err := h.Service.ListAccounts(ctx)
	if err != nil {
		return httptransport.AccountsResponse{}, err
	}
	resp := httptransport.AccountsResponse{
		Success:  true,
		Accounts: make([]httptransport.AccountPayload, 0, len(accounts)),
		Stats: httptransport.RoleStatsPayload{
			Total:    stats.Total,
			Admins:   stats.Admins,
			Teachers: stats.Teachers,
			Students: stats.Students,
		},
	}
	for _, account := range accounts {
		resp.Accounts = append(resp.Accounts, accountPayload(account))
	}
	return resp, nil
}

// UpdateAccountHandler applies the admin mutation; omitted fields fall back
// to the account's current values.
func (h Handler) UpdateAccountHandler(
	ctx context.Context,
	accountID string,
	req httptransport.UpdateAccountRequest,
) (httptransport.ProfileResponse, error) {
	current, err := h.Service.GetAccount(ctx, accountID)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}

	role := current.Role
	if req.Role != nil {
		canonical, ok := roles.Canonical(strings.ToLower(strings.TrimSpace(*req.Role)))
		if !ok {
			return httptransport.ProfileResponse{}, domainerrors.ErrInvalidRole
		}
		role = canonical
	}
	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	account, err := h.Service.UpdateAccount(ctx, accountID, role, isActive)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{
		Success: true,
		Account: accountPayload(account),
	}, nil
}

func (h Handler) DeleteAccountHandler(ctx context.Context, requesterID string, accountID string) (httptransport.DeleteAccountResponse, error) {
	if err := h.Service.DeleteAccount(ctx, requesterID, accountID); err != nil {
		return httptransport.DeleteAccountResponse{}, err
	}
	return httptransport.DeleteAccountResponse{Success: true}, nil
}

func accountPayload(account entities.Account) httptransport.AccountPayload {
	return httptransport.AccountPayload{
		ID:          account.AccountID,
		Username:    account.Username,
		Email:       account.Email,
		Role:        account.Role,
		IsStaff:     account.IsStaff,
		IsSuperuser: account.IsSuperuser,
		IsActive:    account.IsActive,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Bio:         account.Bio,
		CreatedAt:   account.CreatedAt.UTC().Format(time.RFC3339),
	}
}
