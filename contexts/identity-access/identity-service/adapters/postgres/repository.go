package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"athenaeum/contexts/identity-access/identity-service/domain/entities"
	domainerrors "athenaeum/contexts/identity-access/identity-service/domain/errors"
	"athenaeum/contexts/identity-access/identity-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateAccountWithKey runs the account insert and the key consumption in
// one transaction. The consumption is a conditional UPDATE on the key row;
// zero rows affected aborts the transaction and the account never exists.
func (r *Repository) CreateAccountWithKey(ctx context.Context, account entities.Account, keyToken string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := accountModelFromEntity(account)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return duplicateError(err)
			}
			return err
		}

		result := tx.Table("registration_keys").
			Where(
				"token = ? AND is_active = ? AND (max_uses = 0 OR uses < max_uses) AND (expires_at IS NULL OR expires_at >= ?)",
				keyToken, true, now.UTC(),
			).
			UpdateColumn("uses", gorm.Expr("uses + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrKeyNoLongerUsable
		}
		return nil
	})
}

func (r *Repository) GetAccountByID(ctx context.Context, accountID string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).
		Error
	return count > 0, err
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("email = ?", email).
		Count(&count).
		Error
	return count > 0, err
}

func (r *Repository) ListAccounts(ctx context.Context) ([]entities.Account, error) {
	var rows []accountModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Account, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, account entities.Account) error {
	row := accountModelFromEntity(account)
	result := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("account_id = ?", account.AccountID).
		Select("email", "role", "is_staff", "is_superuser", "is_active", "first_name", "last_name", "bio").
		Updates(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrEmailTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) DeleteAccount(ctx context.Context, accountID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&sessionModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("account_id = ?", accountID).Delete(&accountModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAccountNotFound
		}
		return nil
	})
}

func (r *Repository) CreateSession(ctx context.Context, session entities.Session) error {
	row := sessionModelFromEntity(session)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetSession(ctx context.Context, tokenHash string, now time.Time) (entities.Session, bool, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", tokenHash, now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Session{}, false, nil
		}
		return entities.Session{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) DeleteSession(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&sessionModel{}).
		Error
}

type accountModel struct {
	AccountID    string    `gorm:"column:account_id;primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	IsStaff      bool      `gorm:"column:is_staff"`
	IsSuperuser  bool      `gorm:"column:is_superuser"`
	IsActive     bool      `gorm:"column:is_active"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Bio          string    `gorm:"column:bio"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (accountModel) TableName() string {
	return "accounts"
}

func accountModelFromEntity(account entities.Account) accountModel {
	return accountModel{
		AccountID:    account.AccountID,
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         account.Role,
		IsStaff:      account.IsStaff,
		IsSuperuser:  account.IsSuperuser,
		IsActive:     account.IsActive,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Bio:          account.Bio,
		CreatedAt:    account.CreatedAt.UTC(),
	}
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		AccountID:    m.AccountID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		IsStaff:      m.IsStaff,
		IsSuperuser:  m.IsSuperuser,
		IsActive:     m.IsActive,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Bio:          m.Bio,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type sessionModel struct {
	TokenHash string    `gorm:"column:token_hash;primaryKey"`
	AccountID string    `gorm:"column:account_id;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (sessionModel) TableName() string {
	return "sessions"
}

func sessionModelFromEntity(session entities.Session) sessionModel {
	return sessionModel{
		TokenHash: session.TokenHash,
		AccountID: session.AccountID,
		CreatedAt: session.CreatedAt.UTC(),
		ExpiresAt: session.ExpiresAt.UTC(),
	}
}

func (m sessionModel) toEntity() entities.Session {
	return entities.Session{
		TokenHash: m.TokenHash,
		AccountID: m.AccountID,
		CreatedAt: m.CreatedAt.UTC(),
		ExpiresAt: m.ExpiresAt.UTC(),
	}
}

// duplicateError maps a unique violation on accounts to the taken-field
// sentinel by constraint name.
func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.Contains(strings.ToLower(pgErr.ConstraintName), "email") {
		return domainerrors.ErrEmailTaken
	}
	return domainerrors.ErrUsernameTaken
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
