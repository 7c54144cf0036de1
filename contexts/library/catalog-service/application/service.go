package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"athenaeum/contexts/library/catalog-service/domain/entities"
	domainerrors "athenaeum/contexts/library/catalog-service/domain/errors"
	"athenaeum/contexts/library/catalog-service/ports"
	"athenaeum/internal/shared/principal"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

type Service struct {
	Repo   ports.Repository
	Guard  ports.Guard
	Clock  ports.Clock
	IDs    ports.IDGenerator
	Logger *slog.Logger
}

type ListResourcesInput struct {
	Query   string
	Type    string
	TopicID string
	Cursor  string
	Limit   int
}

type ListResourcesResult struct {
	Items      []entities.Resource
	NextCursor string
}

// ResourceDetail is a resource plus everything the caller's view needs:
// its reviews, the caller's bookmark state, and the caller's capabilities.
type ResourceDetail struct {
	Resource   entities.Resource
	Ratings    []entities.Rating
	Bookmarked bool
	CanEdit    bool
	CanDelete  bool
}

type CreateResourceInput struct {
	Title       string
	Description string
	Type        string
	URL         string
	TopicIDs    []string
}

type UpdateResourceInput struct {
	Title       *string
	Description *string
	Type        *string
	URL         *string
	TopicIDs    *[]string
	AuthorID    *string
}

type TopicInput struct {
	Name        string
	Description string
	Color       string
}

// ListResources is public: anonymous callers browse the same catalog.
func (s Service) ListResources(ctx context.Context, input ListResourcesInput) (ListResourcesResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	resourceType := entities.ResourceType(strings.ToLower(strings.TrimSpace(input.Type)))
	if resourceType != "" && !entities.IsValidResourceType(resourceType) {
		return ListResourcesResult{}, domainerrors.ErrInvalidListFilter
	}

	items, nextCursor, err := s.Repo.ListResources(ctx, ports.ResourceListFilter{
		Query:   strings.TrimSpace(input.Query),
		Type:    resourceType,
		TopicID: strings.TrimSpace(input.TopicID),
		Cursor:  input.Cursor,
		Limit:   limit,
	})
	if err != nil {
		return ListResourcesResult{}, err
	}
	return ListResourcesResult{Items: items, NextCursor: nextCursor}, nil
}

func (s Service) GetResource(ctx context.Context, p principal.Principal, resourceID string) (ResourceDetail, error) {
	resource, err := s.Repo.GetResource(ctx, strings.TrimSpace(resourceID))
	if err != nil {
		return ResourceDetail{}, err
	}
	ratings, err := s.Repo.ListRatingsByResource(ctx, resource.ResourceID)
	if err != nil {
		return ResourceDetail{}, err
	}

	detail := ResourceDetail{
		Resource:  resource,
		Ratings:   ratings,
		CanEdit:   s.Guard.CanEdit(p, resource.AuthorID),
		CanDelete: s.Guard.CanDelete(p, resource.AuthorID),
	}
	if p.Authenticated {
		bookmarked, err := s.Repo.IsBookmarked(ctx, resource.ResourceID, p.AccountID)
		if err != nil {
			return ResourceDetail{}, err
		}
		detail.Bookmarked = bookmarked
	}
	return detail, nil
}

func (s Service) CreateResource(ctx context.Context, p principal.Principal, input CreateResourceInput) (entities.Resource, error) {
	if !s.Guard.CanCreateContent(p) {
		return entities.Resource{}, domainerrors.ErrPermissionDenied
	}

	title := strings.TrimSpace(input.Title)
	url := strings.TrimSpace(input.URL)
	resourceType := entities.ResourceType(strings.ToLower(strings.TrimSpace(input.Type)))
	if title == "" || url == "" {
		return entities.Resource{}, domainerrors.ErrInvalidRequest
	}
	if !entities.IsValidResourceType(resourceType) {
		return entities.Resource{}, domainerrors.ErrInvalidResourceType
	}
	topicIDs, err := s.resolveTopics(ctx, input.TopicIDs)
	if err != nil {
		return entities.Resource{}, err
	}

	resourceID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Resource{}, err
	}
	now := s.now()
	resource := entities.Resource{
		ResourceID:  resourceID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Type:        resourceType,
		URL:         url,
		AuthorID:    p.AccountID,
		TopicIDs:    topicIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateResource(ctx, resource); err != nil {
		return entities.Resource{}, err
	}

	resolveLogger(s.Logger).Info("resource created",
		"event", "resource_created",
		"module", "library/catalog-service",
		"layer", "application",
		"resource_id", resource.ResourceID,
		"resource_type", string(resource.Type),
		"author_id", resource.AuthorID,
	)
	return resource, nil
}

// UpdateResource requires edit rights. Author reassignment is an admin-only
// field; for everyone else it is ignored even when present.
func (s Service) UpdateResource(ctx context.Context, p principal.Principal, resourceID string, input UpdateResourceInput) (entities.Resource, error) {
	resource, err := s.Repo.GetResource(ctx, strings.TrimSpace(resourceID))
	if err != nil {
		return entities.Resource{}, err
	}
	if !s.Guard.CanEdit(p, resource.AuthorID) {
		return entities.Resource{}, domainerrors.ErrPermissionDenied
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return entities.Resource{}, domainerrors.ErrInvalidRequest
		}
		resource.Title = title
	}
	if input.Description != nil {
		resource.Description = strings.TrimSpace(*input.Description)
	}
	if input.Type != nil {
		resourceType := entities.ResourceType(strings.ToLower(strings.TrimSpace(*input.Type)))
		if !entities.IsValidResourceType(resourceType) {
			return entities.Resource{}, domainerrors.ErrInvalidResourceType
		}
		resource.Type = resourceType
	}
	if input.URL != nil {
		url := strings.TrimSpace(*input.URL)
		if url == "" {
			return entities.Resource{}, domainerrors.ErrInvalidRequest
		}
		resource.URL = url
	}
	if input.TopicIDs != nil {
		topicIDs, err := s.resolveTopics(ctx, *input.TopicIDs)
		if err != nil {
			return entities.Resource{}, err
		}
		resource.TopicIDs = topicIDs
	}
	if input.AuthorID != nil && s.Guard.CanManageAccounts(p) {
		resource.AuthorID = strings.TrimSpace(*input.AuthorID)
	}
	resource.UpdatedAt = s.now()

	if err := s.Repo.UpdateResource(ctx, resource); err != nil {
		return entities.Resource{}, err
	}
	return resource, nil
}

func (s Service) DeleteResource(ctx context.Context, p principal.Principal, resourceID string) error {
	resource, err := s.Repo.GetResource(ctx, strings.TrimSpace(resourceID))
	if err != nil {
		return err
	}
	if !s.Guard.CanDelete(p, resource.AuthorID) {
		return domainerrors.ErrPermissionDenied
	}
	if err := s.Repo.DeleteResource(ctx, resource.ResourceID); err != nil {
		return err
	}

	resolveLogger(s.Logger).Info("resource deleted",
		"event", "resource_deleted",
		"module", "library/catalog-service",
		"layer", "application",
		"resource_id", resource.ResourceID,
		"requester_id", p.AccountID,
	)
	return nil
}

// RateResource upserts the caller's rating: re-rating replaces the previous
// score rather than adding a second row.
func (s Service) RateResource(ctx context.Context, p principal.Principal, resourceID string, score int, comment string) (entities.Rating, error) {
	if !p.Authenticated {
		return entities.Rating{}, domainerrors.ErrPermissionDenied
	}
	if !entities.IsValidRatingScore(score) {
		return entities.Rating{}, domainerrors.ErrInvalidRatingScore
	}
	resource, err := s.Repo.GetResource(ctx, strings.TrimSpace(resourceID))
	if err != nil {
		return entities.Rating{}, err
	}

	ratingID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Rating{}, err
	}
	now := s.now()
	rating, err := s.Repo.UpsertRating(ctx, entities.Rating{
		RatingID:   ratingID,
		ResourceID: resource.ResourceID,
		AccountID:  p.AccountID,
		Score:      score,
		Comment:    strings.TrimSpace(comment),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return entities.Rating{}, err
	}
	return rating, nil
}

// ToggleBookmark flips the caller's bookmark and reports the new state.
func (s Service) ToggleBookmark(ctx context.Context, p principal.Principal, resourceID string) (bool, error) {
	if !p.Authenticated {
		return false, domainerrors.ErrPermissionDenied
	}
	resource, err := s.Repo.GetResource(ctx, strings.TrimSpace(resourceID))
	if err != nil {
		return false, err
	}
	return s.Repo.ToggleBookmark(ctx, entities.Bookmark{
		ResourceID: resource.ResourceID,
		AccountID:  p.AccountID,
		CreatedAt:  s.now(),
	})
}

// UpdateReview edits a review in place. Only the review's author may edit;
// staff rights do not extend to rewording someone else's words.
func (s Service) UpdateReview(ctx context.Context, p principal.Principal, ratingID string, score *int, comment *string) (entities.Rating, error) {
	rating, err := s.Repo.GetRating(ctx, strings.TrimSpace(ratingID))
	if err != nil {
		return entities.Rating{}, err
	}
	if !p.Authenticated || p.AccountID != rating.AccountID {
		return entities.Rating{}, domainerrors.ErrPermissionDenied
	}

	if score != nil {
		if !entities.IsValidRatingScore(*score) {
			return entities.Rating{}, domainerrors.ErrInvalidRatingScore
		}
		rating.Score = *score
	}
	if comment != nil {
		rating.Comment = strings.TrimSpace(*comment)
	}
	rating.UpdatedAt = s.now()

	if err := s.Repo.UpdateRating(ctx, rating); err != nil {
		return entities.Rating{}, err
	}
	return rating, nil
}

// DeleteReview removes a review: the author, or staff moderating.
func (s Service) DeleteReview(ctx context.Context, p principal.Principal, ratingID string) error {
	rating, err := s.Repo.GetRating(ctx, strings.TrimSpace(ratingID))
	if err != nil {
		return err
	}
	if !s.Guard.CanEdit(p, rating.AccountID) {
		return domainerrors.ErrPermissionDenied
	}
	return s.Repo.DeleteRating(ctx, rating.RatingID)
}

func (s Service) ListTopics(ctx context.Context) ([]entities.Topic, error) {
	return s.Repo.ListTopics(ctx)
}

// TopicDetail returns the topic with its per-type resource counts.
func (s Service) TopicDetail(ctx context.Context, topicID string) (entities.Topic, ports.TypeCounts, error) {
	topic, err := s.Repo.GetTopic(ctx, strings.TrimSpace(topicID))
	if err != nil {
		return entities.Topic{}, nil, err
	}
	counts, err := s.Repo.TopicResourceCounts(ctx, topic.TopicID)
	if err != nil {
		return entities.Topic{}, nil, err
	}
	return topic, counts, nil
}

func (s Service) CreateTopic(ctx context.Context, p principal.Principal, input TopicInput) (entities.Topic, error) {
	if !s.Guard.CanManageTopics(p) {
		return entities.Topic{}, domainerrors.ErrPermissionDenied
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return entities.Topic{}, domainerrors.ErrInvalidRequest
	}
	if taken, err := s.Repo.TopicNameExists(ctx, name, ""); err != nil {
		return entities.Topic{}, err
	} else if taken {
		return entities.Topic{}, domainerrors.ErrTopicNameTaken
	}

	topicID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Topic{}, err
	}
	topic := entities.Topic{
		TopicID:     topicID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Color:       strings.TrimSpace(input.Color),
		CreatedAt:   s.now(),
	}
	if err := s.Repo.CreateTopic(ctx, topic); err != nil {
		return entities.Topic{}, err
	}

	resolveLogger(s.Logger).Info("topic created",
		"event", "topic_created",
		"module", "library/catalog-service",
		"layer", "application",
		"topic_id", topic.TopicID,
		"name", topic.Name,
	)
	return topic, nil
}

func (s Service) UpdateTopic(ctx context.Context, p principal.Principal, topicID string, input TopicInput) (entities.Topic, error) {
	if !s.Guard.CanManageTopics(p) {
		return entities.Topic{}, domainerrors.ErrPermissionDenied
	}
	topic, err := s.Repo.GetTopic(ctx, strings.TrimSpace(topicID))
	if err != nil {
		return entities.Topic{}, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return entities.Topic{}, domainerrors.ErrInvalidRequest
	}
	if taken, err := s.Repo.TopicNameExists(ctx, name, topic.TopicID); err != nil {
		return entities.Topic{}, err
	} else if taken {
		return entities.Topic{}, domainerrors.ErrTopicNameTaken
	}
	topic.Name = name
	topic.Description = strings.TrimSpace(input.Description)
	topic.Color = strings.TrimSpace(input.Color)

	if err := s.Repo.UpdateTopic(ctx, topic); err != nil {
		return entities.Topic{}, err
	}
	return topic, nil
}

// DeleteTopic removes the topic and detaches it from any resources that
// carry it; the resources themselves survive.
func (s Service) DeleteTopic(ctx context.Context, p principal.Principal, topicID string) error {
	if !s.Guard.CanManageTopics(p) {
		return domainerrors.ErrPermissionDenied
	}
	topic, err := s.Repo.GetTopic(ctx, strings.TrimSpace(topicID))
	if err != nil {
		return err
	}
	return s.Repo.DeleteTopic(ctx, topic.TopicID)
}

// resolveTopics validates each referenced topic and returns the trimmed,
// de-duplicated id list.
func (s Service) resolveTopics(ctx context.Context, topicIDs []string) ([]string, error) {
	resolved := make([]string, 0, len(topicIDs))
	seen := make(map[string]bool, len(topicIDs))
	for _, topicID := range topicIDs {
		topicID = strings.TrimSpace(topicID)
		if topicID == "" || seen[topicID] {
			continue
		}
		if _, err := s.Repo.GetTopic(ctx, topicID); err != nil {
			return nil, err
		}
		seen[topicID] = true
		resolved = append(resolved, topicID)
	}
	return resolved, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
