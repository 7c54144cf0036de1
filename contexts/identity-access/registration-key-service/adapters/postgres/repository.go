package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"athenaeum/contexts/identity-access/registration-key-service/domain/entities"
	domainerrors "athenaeum/contexts/identity-access/registration-key-service/domain/errors"
	"athenaeum/contexts/identity-access/registration-key-service/ports"

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

func (r *Repository) CreateKey(ctx context.Context, key entities.Key) error {
	row := keyModelFromEntity(key)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("key token collision: %w", err)
		}
		return err
	}
	return nil
}

func (r *Repository) GetKeyByToken(ctx context.Context, token string) (entities.Key, error) {
	var row keyModel
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Key{}, domainerrors.ErrKeyNotFound
		}
		return entities.Key{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetKey(ctx context.Context, keyID string) (entities.Key, error) {
	var row keyModel
	err := r.db.WithContext(ctx).
		Where("key_id = ?", keyID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Key{}, domainerrors.ErrKeyNotFound
		}
		return entities.Key{}, err
	}
	return row.toEntity(), nil
}

// ConsumeKey serializes validate-then-increment as one conditional UPDATE;
// the affected-row count is the sole source of truth for success.
func (r *Repository) ConsumeKey(ctx context.Context, token string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&keyModel{}).
		Where(
			"token = ? AND is_active = ? AND (max_uses = 0 OR uses < max_uses) AND (expires_at IS NULL OR expires_at >= ?)",
			token, true, now.UTC(),
		).
		UpdateColumn("uses", gorm.Expr("uses + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) RevokeKey(ctx context.Context, keyID string) error {
	result := r.db.WithContext(ctx).
		Model(&keyModel{}).
		Where("key_id = ?", keyID).
		UpdateColumn("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrKeyNotFound
	}
	return nil
}

func (r *Repository) ListActiveByCreator(ctx context.Context, creatorID string) ([]entities.Key, error) {
	var rows []keyModel
	if err := r.db.WithContext(ctx).
		Where("created_by = ? AND is_active = ?", creatorID, true).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Key, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]entities.Key, error) {
	var rows []keyModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Key, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type keyModel struct {
	KeyID     string     `gorm:"column:key_id;primaryKey"`
	Token     string     `gorm:"column:token;uniqueIndex"`
	Role      string     `gorm:"column:role"`
	CreatedBy string     `gorm:"column:created_by"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	MaxUses   int        `gorm:"column:max_uses"`
	Uses      int        `gorm:"column:uses"`
	Note      string     `gorm:"column:note"`
	IsActive  bool       `gorm:"column:is_active"`
}

func (keyModel) TableName() string {
	return "registration_keys"
}

func keyModelFromEntity(key entities.Key) keyModel {
	row := keyModel{
		KeyID:     key.KeyID,
		Token:     key.Token,
		Role:      key.Role,
		CreatedBy: key.CreatedBy,
		CreatedAt: key.CreatedAt.UTC(),
		MaxUses:   key.MaxUses,
		Uses:      key.Uses,
		Note:      key.Note,
		IsActive:  key.IsActive,
	}
	if key.ExpiresAt != nil {
		expiresAt := key.ExpiresAt.UTC()
		row.ExpiresAt = &expiresAt
	}
	return row
}

func (m keyModel) toEntity() entities.Key {
	key := entities.Key{
		KeyID:     m.KeyID,
		Token:     m.Token,
		Role:      m.Role,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt.UTC(),
		MaxUses:   m.MaxUses,
		Uses:      m.Uses,
		Note:      m.Note,
		IsActive:  m.IsActive,
	}
	if m.ExpiresAt != nil {
		expiresAt := m.ExpiresAt.UTC()
		key.ExpiresAt = &expiresAt
	}
	return key
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
