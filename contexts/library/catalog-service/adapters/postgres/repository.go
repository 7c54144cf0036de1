package postgresadapter

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"athenaeum/contexts/library/catalog-service/domain/entities"
	domainerrors "athenaeum/contexts/library/catalog-service/domain/errors"
	"athenaeum/contexts/library/catalog-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) CreateResource(ctx context.Context, resource entities.Resource) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := resourceModelFromEntity(resource)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return replaceResourceTopics(tx, resource.ResourceID, resource.TopicIDs)
	})
}

func (r *Repository) GetResource(ctx context.Context, resourceID string) (entities.Resource, error) {
	var row resourceModel
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Resource{}, domainerrors.ErrResourceNotFound
		}
		return entities.Resource{}, err
	}
	topicIDs, err := r.resourceTopicIDs(ctx, resourceID)
	if err != nil {
		return entities.Resource{}, err
	}
	return row.toEntity(topicIDs), nil
}

func (r *Repository) ListResources(ctx context.Context, filter ports.ResourceListFilter) ([]entities.Resource, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	tx := r.db.WithContext(ctx).Model(&resourceModel{})
	if filter.Type != "" {
		tx = tx.Where("type = ?", string(filter.Type))
	}
	if filter.TopicID != "" {
		tx = tx.Where(
			"resource_id IN (?)",
			r.db.Model(&resourceTopicModel{}).Select("resource_id").Where("topic_id = ?", filter.TopicID),
		)
	}
	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	tx = tx.Order("created_at DESC, resource_id DESC")

	offset := decodeCursor(filter.Cursor)
	var rows []resourceModel
	if err := tx.Offset(offset).Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = encodeCursor(offset + limit)
		rows = rows[:limit]
	}

	items := make([]entities.Resource, 0, len(rows))
	for _, row := range rows {
		topicIDs, err := r.resourceTopicIDs(ctx, row.ResourceID)
		if err != nil {
			return nil, "", err
		}
		items = append(items, row.toEntity(topicIDs))
	}
	return items, nextCursor, nil
}

func (r *Repository) UpdateResource(ctx context.Context, resource entities.Resource) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := resourceModelFromEntity(resource)
		result := tx.Model(&resourceModel{}).
			Where("resource_id = ?", resource.ResourceID).
			Select("title", "description", "type", "url", "author_id", "updated_at").
			Updates(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrResourceNotFound
		}
		return replaceResourceTopics(tx, resource.ResourceID, resource.TopicIDs)
	})
}

func (r *Repository) DeleteResource(ctx context.Context, resourceID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource_id = ?", resourceID).Delete(&ratingModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_id = ?", resourceID).Delete(&bookmarkModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_id = ?", resourceID).Delete(&resourceTopicModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("resource_id = ?", resourceID).Delete(&resourceModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrResourceNotFound
		}
		return nil
	})
}

// UpsertRating replaces the caller's previous score in place and moves the
// resource aggregate by the delta, all in one transaction.
func (r *Repository) UpsertRating(ctx context.Context, rating entities.Rating) (entities.Rating, error) {
	stored := rating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ratingModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("resource_id = ? AND account_id = ?", rating.ResourceID, rating.AccountID).
			First(&existing).
			Error
		switch {
		case err == nil:
			delta := rating.Score - existing.Score
			result := tx.Model(&ratingModel{}).
				Where("rating_id = ?", existing.RatingID).
				UpdateColumns(map[string]interface{}{
					"score":      rating.Score,
					"comment":    rating.Comment,
					"updated_at": rating.UpdatedAt.UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			if delta != 0 {
				if err := tx.Model(&resourceModel{}).
					Where("resource_id = ?", rating.ResourceID).
					UpdateColumn("rating_total", gorm.Expr("rating_total + ?", delta)).
					Error; err != nil {
					return err
				}
			}
			stored = existing.toEntity()
			stored.Score = rating.Score
			stored.Comment = rating.Comment
			stored.UpdatedAt = rating.UpdatedAt
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := ratingModelFromEntity(rating)
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			return tx.Model(&resourceModel{}).
				Where("resource_id = ?", rating.ResourceID).
				UpdateColumns(map[string]interface{}{
					"rating_total": gorm.Expr("rating_total + ?", rating.Score),
					"rating_count": gorm.Expr("rating_count + 1"),
				}).
				Error
		default:
			return err
		}
	})
	if err != nil {
		return entities.Rating{}, err
	}
	return stored, nil
}

func (r *Repository) GetRating(ctx context.Context, ratingID string) (entities.Rating, error) {
	var row ratingModel
	err := r.db.WithContext(ctx).
		Where("rating_id = ?", ratingID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Rating{}, domainerrors.ErrRatingNotFound
		}
		return entities.Rating{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateRating(ctx context.Context, rating entities.Rating) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ratingModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("rating_id = ?", rating.RatingID).
			First(&existing).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRatingNotFound
			}
			return err
		}

		result := tx.Model(&ratingModel{}).
			Where("rating_id = ?", rating.RatingID).
			UpdateColumns(map[string]interface{}{
				"score":      rating.Score,
				"comment":    rating.Comment,
				"updated_at": rating.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if delta := rating.Score - existing.Score; delta != 0 {
			return tx.Model(&resourceModel{}).
				Where("resource_id = ?", existing.ResourceID).
				UpdateColumn("rating_total", gorm.Expr("rating_total + ?", delta)).
				Error
		}
		return nil
	})
}

func (r *Repository) DeleteRating(ctx context.Context, ratingID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ratingModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("rating_id = ?", ratingID).
			First(&existing).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRatingNotFound
			}
			return err
		}
		if err := tx.Where("rating_id = ?", ratingID).Delete(&ratingModel{}).Error; err != nil {
			return err
		}
		return tx.Model(&resourceModel{}).
			Where("resource_id = ?", existing.ResourceID).
			UpdateColumns(map[string]interface{}{
				"rating_total": gorm.Expr("rating_total - ?", existing.Score),
				"rating_count": gorm.Expr("rating_count - 1"),
			}).
			Error
	})
}

func (r *Repository) ListRatingsByResource(ctx context.Context, resourceID string) ([]entities.Rating, error) {
	var rows []ratingModel
	if err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at DESC, rating_id DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Rating, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ToggleBookmark(ctx context.Context, bookmark entities.Bookmark) (bool, error) {
	saved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where(
			"resource_id = ? AND account_id = ?",
			bookmark.ResourceID, bookmark.AccountID,
		).Delete(&bookmarkModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		row := bookmarkModelFromEntity(bookmark)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
		saved = true
		return nil
	})
	return saved, err
}

func (r *Repository) IsBookmarked(ctx context.Context, resourceID string, accountID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&bookmarkModel{}).
		Where("resource_id = ? AND account_id = ?", resourceID, accountID).
		Count(&count).
		Error
	return count > 0, err
}

func (r *Repository) CreateTopic(ctx context.Context, topic entities.Topic) error {
	row := topicModelFromEntity(topic)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrTopicNameTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetTopic(ctx context.Context, topicID string) (entities.Topic, error) {
	var row topicModel
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Topic{}, domainerrors.ErrTopicNotFound
		}
		return entities.Topic{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTopics(ctx context.Context) ([]entities.Topic, error) {
	var rows []topicModel
	if err := r.db.WithContext(ctx).
		Order("LOWER(name) ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Topic, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateTopic(ctx context.Context, topic entities.Topic) error {
	row := topicModelFromEntity(topic)
	result := r.db.WithContext(ctx).
		Model(&topicModel{}).
		Where("topic_id = ?", topic.TopicID).
		Select("name", "description", "color").
		Updates(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrTopicNameTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTopicNotFound
	}
	return nil
}

func (r *Repository) DeleteTopic(ctx context.Context, topicID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", topicID).Delete(&resourceTopicModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("topic_id = ?", topicID).Delete(&topicModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrTopicNotFound
		}
		return nil
	})
}

func (r *Repository) TopicNameExists(ctx context.Context, name string, excludeTopicID string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&topicModel{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeTopicID != "" {
		tx = tx.Where("topic_id <> ?", excludeTopicID)
	}
	var count int64
	err := tx.Count(&count).Error
	return count > 0, err
}

func (r *Repository) TopicResourceCounts(ctx context.Context, topicID string) (ports.TypeCounts, error) {
	type countRow struct {
		Type  string
		Total int
	}
	var rows []countRow
	err := r.db.WithContext(ctx).
		Model(&resourceModel{}).
		Select("resources.type AS type, COUNT(*) AS total").
		Joins("JOIN resource_topics ON resource_topics.resource_id = resources.resource_id").
		Where("resource_topics.topic_id = ?", topicID).
		Group("resources.type").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	counts := make(ports.TypeCounts, len(rows))
	for _, row := range rows {
		counts[entities.ResourceType(row.Type)] = row.Total
	}
	return counts, nil
}

func (r *Repository) resourceTopicIDs(ctx context.Context, resourceID string) ([]string, error) {
	var topicIDs []string
	err := r.db.WithContext(ctx).
		Model(&resourceTopicModel{}).
		Where("resource_id = ?", resourceID).
		Order("topic_id ASC").
		Pluck("topic_id", &topicIDs).
		Error
	return topicIDs, err
}

func replaceResourceTopics(tx *gorm.DB, resourceID string, topicIDs []string) error {
	if err := tx.Where("resource_id = ?", resourceID).Delete(&resourceTopicModel{}).Error; err != nil {
		return err
	}
	if len(topicIDs) == 0 {
		return nil
	}
	rows := make([]resourceTopicModel, 0, len(topicIDs))
	for _, topicID := range topicIDs {
		rows = append(rows, resourceTopicModel{ResourceID: resourceID, TopicID: topicID})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

type resourceModel struct {
	ResourceID  string    `gorm:"column:resource_id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Type        string    `gorm:"column:type;index"`
	URL         string    `gorm:"column:url"`
	AuthorID    string    `gorm:"column:author_id;index"`
	RatingTotal int       `gorm:"column:rating_total"`
	RatingCount int       `gorm:"column:rating_count"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (resourceModel) TableName() string {
	return "resources"
}

func resourceModelFromEntity(resource entities.Resource) resourceModel {
	return resourceModel{
		ResourceID:  resource.ResourceID,
		Title:       resource.Title,
		Description: resource.Description,
		Type:        string(resource.Type),
		URL:         resource.URL,
		AuthorID:    resource.AuthorID,
		RatingTotal: resource.RatingTotal,
		RatingCount: resource.RatingCount,
		CreatedAt:   resource.CreatedAt.UTC(),
		UpdatedAt:   resource.UpdatedAt.UTC(),
	}
}

func (m resourceModel) toEntity(topicIDs []string) entities.Resource {
	return entities.Resource{
		ResourceID:  m.ResourceID,
		Title:       m.Title,
		Description: m.Description,
		Type:        entities.ResourceType(m.Type),
		URL:         m.URL,
		AuthorID:    m.AuthorID,
		TopicIDs:    topicIDs,
		RatingTotal: m.RatingTotal,
		RatingCount: m.RatingCount,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type resourceTopicModel struct {
	ResourceID string `gorm:"column:resource_id;primaryKey"`
	TopicID    string `gorm:"column:topic_id;primaryKey"`
}

func (resourceTopicModel) TableName() string {
	return "resource_topics"
}

type topicModel struct {
	TopicID     string    `gorm:"column:topic_id;primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex"`
	Description string    `gorm:"column:description"`
	Color       string    `gorm:"column:color"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (topicModel) TableName() string {
	return "topics"
}

func topicModelFromEntity(topic entities.Topic) topicModel {
	return topicModel{
		TopicID:     topic.TopicID,
		Name:        topic.Name,
		Description: topic.Description,
		Color:       topic.Color,
		CreatedAt:   topic.CreatedAt.UTC(),
	}
}

func (m topicModel) toEntity() entities.Topic {
	return entities.Topic{
		TopicID:     m.TopicID,
		Name:        m.Name,
		Description: m.Description,
		Color:       m.Color,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type ratingModel struct {
	RatingID   string    `gorm:"column:rating_id;primaryKey"`
	ResourceID string    `gorm:"column:resource_id;uniqueIndex:idx_ratings_resource_account"`
	AccountID  string    `gorm:"column:account_id;uniqueIndex:idx_ratings_resource_account"`
	Score      int       `gorm:"column:score"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (ratingModel) TableName() string {
	return "ratings"
}

func ratingModelFromEntity(rating entities.Rating) ratingModel {
	return ratingModel{
		RatingID:   rating.RatingID,
		ResourceID: rating.ResourceID,
		AccountID:  rating.AccountID,
		Score:      rating.Score,
		Comment:    rating.Comment,
		CreatedAt:  rating.CreatedAt.UTC(),
		UpdatedAt:  rating.UpdatedAt.UTC(),
	}
}

func (m ratingModel) toEntity() entities.Rating {
	return entities.Rating{
		RatingID:   m.RatingID,
		ResourceID: m.ResourceID,
		AccountID:  m.AccountID,
		Score:      m.Score,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type bookmarkModel struct {
	ResourceID string    `gorm:"column:resource_id;primaryKey"`
	AccountID  string    `gorm:"column:account_id;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (bookmarkModel) TableName() string {
	return "bookmarks"
}

func bookmarkModelFromEntity(bookmark entities.Bookmark) bookmarkModel {
	return bookmarkModel{
		ResourceID: bookmark.ResourceID,
		AccountID:  bookmark.AccountID,
		CreatedAt:  bookmark.CreatedAt.UTC(),
	}
}

func decodeCursor(cursor string) int {
	if strings.TrimSpace(cursor) == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
