package ports

import (
	"context"
	"time"

	"athenaeum/contexts/library/catalog-service/domain/entities"
	"athenaeum/internal/shared/principal"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Guard is the slice of the authorization policy the catalog consumes.
type Guard interface {
	CanEdit(p principal.Principal, authorID string) bool
	CanDelete(p principal.Principal, authorID string) bool
	CanCreateContent(p principal.Principal) bool
	CanManageTopics(p principal.Principal) bool
	CanManageAccounts(p principal.Principal) bool
}

// ResourceListFilter narrows and pages the resource listing. Cursor is the
// opaque value returned by a previous page.
type ResourceListFilter struct {
	Query   string
	Type    entities.ResourceType
	TopicID string
	Cursor  string
	Limit   int
}

// TypeCounts maps resource type to the number of resources of that type.
type TypeCounts map[entities.ResourceType]int

type Repository interface {
	CreateResource(ctx context.Context, resource entities.Resource) error
	GetResource(ctx context.Context, resourceID string) (entities.Resource, error)
	ListResources(ctx context.Context, filter ResourceListFilter) ([]entities.Resource, string, error)
	UpdateResource(ctx context.Context, resource entities.Resource) error
	DeleteResource(ctx context.Context, resourceID string) error

	// UpsertRating inserts the rating or, when the account already rated the
	// resource, replaces score and comment in place. The resource's rating
	// aggregate moves in the same transaction. The stored rating is returned.
	UpsertRating(ctx context.Context, rating entities.Rating) (entities.Rating, error)
	GetRating(ctx context.Context, ratingID string) (entities.Rating, error)
	UpdateRating(ctx context.Context, rating entities.Rating) error
	DeleteRating(ctx context.Context, ratingID string) error
	ListRatingsByResource(ctx context.Context, resourceID string) ([]entities.Rating, error)

	// ToggleBookmark flips the bookmark for the pair and reports the state
	// after the flip.
	ToggleBookmark(ctx context.Context, bookmark entities.Bookmark) (bool, error)
	IsBookmarked(ctx context.Context, resourceID string, accountID string) (bool, error)

	CreateTopic(ctx context.Context, topic entities.Topic) error
	GetTopic(ctx context.Context, topicID string) (entities.Topic, error)
	ListTopics(ctx context.Context) ([]entities.Topic, error)
	UpdateTopic(ctx context.Context, topic entities.Topic) error
	DeleteTopic(ctx context.Context, topicID string) error
	TopicNameExists(ctx context.Context, name string, excludeTopicID string) (bool, error)
	TopicResourceCounts(ctx context.Context, topicID string) (TypeCounts, error)
}
