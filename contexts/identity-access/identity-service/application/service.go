package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"athenaeum/contexts/identity-access/identity-service/adapters/crypto"
	"athenaeum/contexts/identity-access/identity-service/domain/entities"
	domainerrors "athenaeum/contexts/identity-access/identity-service/domain/errors"
	"athenaeum/contexts/identity-access/identity-service/ports"
	"athenaeum/internal/shared/principal"
	"athenaeum/internal/shared/roles"
)

const minPasswordLength = 8

type Service struct {
	Repo       ports.Repository
	Keys       ports.KeyGate
	Hasher     ports.PasswordHasher
	Clock      ports.Clock
	IDs        ports.IDGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
	KeyToken string
}

type ProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
}

// Register creates an account gated by a registration key. The account
// insert and the key consumption share one storage transaction: a key that
// loses the consume race rolls the account back.
func (s Service) Register(ctx context.Context, input RegisterInput) (entities.Account, string, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := strings.ToLower(strings.TrimSpace(input.Role))
	token := strings.TrimSpace(input.KeyToken)

	if username == "" || email == "" || token == "" {
		return entities.Account{}, "", domainerrors.ErrInvalidRequest
	}
	if !roles.IsValid(role) {
		return entities.Account{}, "", domainerrors.ErrInvalidRole
	}
	if len(input.Password) < minPasswordLength {
		return entities.Account{}, "", domainerrors.ErrPasswordTooShort
	}

	if taken, err := s.Repo.UsernameExists(ctx, username); err != nil {
		return entities.Account{}, "", err
	} else if taken {
		return entities.Account{}, "", domainerrors.ErrUsernameTaken
	}
	if taken, err := s.Repo.EmailExists(ctx, email); err != nil {
		return entities.Account{}, "", err
	} else if taken {
		return entities.Account{}, "", domainerrors.ErrEmailTaken
	}

	// Key errors (not-found/inactive/exhausted/expired) pass through
	// unchanged; the role mismatch is layered on top of key validity.
	status, err := s.Keys.Check(ctx, token)
	if err != nil {
		return entities.Account{}, "", err
	}
	if status.Role != role {
		return entities.Account{}, "", domainerrors.ErrRoleMismatch
	}

	hash, err := s.Hasher.Hash(input.Password)
	if err != nil {
		return entities.Account{}, "", err
	}
	accountID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Account{}, "", err
	}

	now := s.now()
	account := entities.Account{
		AccountID:    accountID,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
	}
	account.ApplyRole(role)

	if err := s.Repo.CreateAccountWithKey(ctx, account, token, now); err != nil {
		if err == domainerrors.ErrKeyNoLongerUsable {
			// Re-check so the caller sees the distinct reason the key
			// reached between validation and consumption.
			if _, checkErr := s.Keys.Check(ctx, token); checkErr != nil {
				return entities.Account{}, "", checkErr
			}
		}
		return entities.Account{}, "", err
	}

	resolveLogger(s.Logger).Info("account registered",
		"event", "account_registered",
		"module", "identity-access/identity-service",
		"layer", "application",
		"account_id", account.AccountID,
		"role", account.Role,
	)

	sessionToken, err := s.createSession(ctx, account.AccountID)
	if err != nil {
		return entities.Account{}, "", err
	}
	return account, sessionToken, nil
}

// Authenticate checks credentials. The failure is uniform: unknown
// username, wrong password, and deactivated accounts are indistinguishable.
func (s Service) Authenticate(ctx context.Context, username string, password string) (entities.Account, string, error) {
	account, err := s.Repo.GetAccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if err == domainerrors.ErrAccountNotFound {
			return entities.Account{}, "", domainerrors.ErrInvalidCredentials
		}
		return entities.Account{}, "", err
	}
	if !account.IsActive {
		return entities.Account{}, "", domainerrors.ErrInvalidCredentials
	}
	if err := s.Hasher.Compare(account.PasswordHash, password); err != nil {
		return entities.Account{}, "", domainerrors.ErrInvalidCredentials
	}

	sessionToken, err := s.createSession(ctx, account.AccountID)
	if err != nil {
		return entities.Account{}, "", err
	}
	return account, sessionToken, nil
}

// Logout destroys the session; an unknown token is a no-op.
func (s Service) Logout(ctx context.Context, sessionToken string) error {
	if strings.TrimSpace(sessionToken) == "" {
		return nil
	}
	return s.Repo.DeleteSession(ctx, crypto.HashToken(sessionToken))
}

// CurrentPrincipal resolves the session token to a principal. Missing,
// unknown, or expired tokens resolve to the anonymous principal without
// error; only storage failures are errors.
func (s Service) CurrentPrincipal(ctx context.Context, sessionToken string) (principal.Principal, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return principal.Anonymous(), nil
	}
	session, found, err := s.Repo.GetSession(ctx, crypto.HashToken(sessionToken), s.now())
	if err != nil {
		return principal.Anonymous(), err
	}
	if !found {
		return principal.Anonymous(), nil
	}
	account, err := s.Repo.GetAccountByID(ctx, session.AccountID)
	if err != nil {
		if err == domainerrors.ErrAccountNotFound {
			return principal.Anonymous(), nil
		}
		return principal.Anonymous(), err
	}
	if !account.IsActive {
		return principal.Anonymous(), nil
	}
	return account.Principal(), nil
}

func (s Service) GetAccount(ctx context.Context, accountID string) (entities.Account, error) {
	return s.Repo.GetAccountByID(ctx, strings.TrimSpace(accountID))
}

// UpdateProfile applies self-service profile fields. Email changes keep the
// uniqueness invariant.
func (s Service) UpdateProfile(ctx context.Context, accountID string, input ProfileInput) (entities.Account, error) {
	account, err := s.Repo.GetAccountByID(ctx, strings.TrimSpace(accountID))
	if err != nil {
		return entities.Account{}, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return entities.Account{}, domainerrors.ErrInvalidRequest
		}
		if email != account.Email {
			if taken, err := s.Repo.EmailExists(ctx, email); err != nil {
				return entities.Account{}, err
			} else if taken {
				return entities.Account{}, domainerrors.ErrEmailTaken
			}
			account.Email = email
		}
	}
	if input.FirstName != nil {
		account.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		account.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Bio != nil {
		account.Bio = strings.TrimSpace(*input.Bio)
	}

	if err := s.Repo.UpdateAccount(ctx, account); err != nil {
		return entities.Account{}, err
	}
	return account, nil
}

// ListAccounts returns every account, newest first, with role statistics
// for the admin dashboard.
func (s Service) ListAccounts(ctx context.Context) ([]entities.Account, ports.RoleStats, error) {
	accounts, err := s.Repo.ListAccounts(ctx)
	if err != nil {
		return nil, ports.RoleStats{}, err
	}
	stats := ports.RoleStats{Total: len(accounts)}
	for _, account := range accounts {
		switch account.Role {
		case roles.Admin:
			stats.Admins++
		case roles.Teacher:
			stats.Teachers++
		default:
			stats.Students++
		}
	}
	return accounts, stats, nil
}

// UpdateAccount is the admin mutation: role and active flag. Privilege
// flags are recomputed from the role, never set independently.
func (s Service) UpdateAccount(ctx context.Context, accountID string, role string, isActive bool) (entities.Account, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !roles.IsValid(role) {
		return entities.Account{}, domainerrors.ErrInvalidRole
	}
	account, err := s.Repo.GetAccountByID(ctx, strings.TrimSpace(accountID))
	if err != nil {
		return entities.Account{}, err
	}
	account.ApplyRole(role)
	account.IsActive = isActive
	if err := s.Repo.UpdateAccount(ctx, account); err != nil {
		return entities.Account{}, err
	}

	resolveLogger(s.Logger).Info("account updated",
		"event", "account_updated",
		"module", "identity-access/identity-service",
		"layer", "application",
		"account_id", account.AccountID,
		"role", account.Role,
		"is_active", account.IsActive,
	)
	return account, nil
}

// DeleteAccount removes a non-admin account. Self-deletion and deleting
// another admin fail with protected-account errors, not generic denials.
func (s Service) DeleteAccount(ctx context.Context, requesterID string, accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == strings.TrimSpace(requesterID) {
		return domainerrors.ErrDeleteSelf
	}
	account, err := s.Repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Role == roles.Admin || account.IsSuperuser {
		return domainerrors.ErrDeleteAdmin
	}
	if err := s.Repo.DeleteAccount(ctx, account.AccountID); err != nil {
		return err
	}

	resolveLogger(s.Logger).Info("account deleted",
		"event", "account_deleted",
		"module", "identity-access/identity-service",
		"layer", "application",
		"account_id", account.AccountID,
	)
	return nil
}

func (s Service) createSession(ctx context.Context, accountID string) (string, error) {
	token, err := crypto.NewSessionToken()
	if err != nil {
		return "", err
	}
	now := s.now()
	if err := s.Repo.CreateSession(ctx, entities.Session{
		TokenHash: crypto.HashToken(token),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL()),
	}); err != nil {
		return "", err
	}
	return token, nil
}

func (s Service) sessionTTL() time.Duration {
	if s.SessionTTL <= 0 {
		return 14 * 24 * time.Hour
	}
	return s.SessionTTL
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
