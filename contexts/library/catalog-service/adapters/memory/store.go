package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"athenaeum/contexts/library/catalog-service/domain/entities"
	domainerrors "athenaeum/contexts/library/catalog-service/domain/errors"
	"athenaeum/contexts/library/catalog-service/ports"
)

type Store struct {
	mu sync.Mutex

	resources map[string]entities.Resource
	topics    map[string]entities.Topic
	ratings   map[string]entities.Rating
	bookmarks map[string]entities.Bookmark
	sequence  uint64
}

func NewStore() *Store {
	return &Store{
		resources: make(map[string]entities.Resource),
		topics:    make(map[string]entities.Topic),
		ratings:   make(map[string]entities.Rating),
		bookmarks: make(map[string]entities.Bookmark),
	}
}

func (s *Store) CreateResource(ctx context.Context, resource entities.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resources[resource.ResourceID] = cloneResource(resource)
	return nil
}

func (s *Store) GetResource(ctx context.Context, resourceID string) (entities.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resource, ok := s.resources[resourceID]
	if !ok {
		return entities.Resource{}, domainerrors.ErrResourceNotFound
	}
	return cloneResource(resource), nil
}

func (s *Store) ListResources(ctx context.Context, filter ports.ResourceListFilter) ([]entities.Resource, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	matched := make([]entities.Resource, 0)
	query := strings.ToLower(filter.Query)
	for _, resource := range s.resources {
		if filter.Type != "" && resource.Type != filter.Type {
			continue
		}
		if filter.TopicID != "" && !containsID(resource.TopicIDs, filter.TopicID) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(resource.Title), query) &&
			!strings.Contains(strings.ToLower(resource.Description), query) {
			continue
		}
		matched = append(matched, cloneResource(resource))
	}
	sort.Slice(matched, func(i int, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ResourceID > matched[j].ResourceID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	offset := decodeCursor(filter.Cursor)
	if offset >= len(matched) {
		return []entities.Resource{}, "", nil
	}
	matched = matched[offset:]

	nextCursor := ""
	if len(matched) > limit {
		matched = matched[:limit]
		nextCursor = encodeCursor(offset + limit)
	}
	return matched, nextCursor, nil
}

func (s *Store) UpdateResource(ctx context.Context, resource entities.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.resources[resource.ResourceID]
	if !ok {
		return domainerrors.ErrResourceNotFound
	}
	// Rating aggregates are owned by the rating operations.
	resource.RatingTotal = existing.RatingTotal
	resource.RatingCount = existing.RatingCount
	s.resources[resource.ResourceID] = cloneResource(resource)
	return nil
}

func (s *Store) DeleteResource(ctx context.Context, resourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[resourceID]; !ok {
		return domainerrors.ErrResourceNotFound
	}
	delete(s.resources, resourceID)
	for ratingID, rating := range s.ratings {
		if rating.ResourceID == resourceID {
			delete(s.ratings, ratingID)
		}
	}
	for key, bookmark := range s.bookmarks {
		if bookmark.ResourceID == resourceID {
			delete(s.bookmarks, key)
		}
	}
	return nil
}

func (s *Store) UpsertRating(ctx context.Context, rating entities.Rating) (entities.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resource, ok := s.resources[rating.ResourceID]
	if !ok {
		return entities.Rating{}, domainerrors.ErrResourceNotFound
	}

	for _, existing := range s.ratings {
		if existing.ResourceID == rating.ResourceID && existing.AccountID == rating.AccountID {
			resource.RatingTotal += rating.Score - existing.Score
			s.resources[resource.ResourceID] = resource

			existing.Score = rating.Score
			existing.Comment = rating.Comment
			existing.UpdatedAt = rating.UpdatedAt
			s.ratings[existing.RatingID] = existing
			return existing, nil
		}
	}

	resource.RatingTotal += rating.Score
	resource.RatingCount++
	s.resources[resource.ResourceID] = resource
	s.ratings[rating.RatingID] = rating
	return rating, nil
}

func (s *Store) GetRating(ctx context.Context, ratingID string) (entities.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rating, ok := s.ratings[ratingID]
	if !ok {
		return entities.Rating{}, domainerrors.ErrRatingNotFound
	}
	return rating, nil
}

func (s *Store) UpdateRating(ctx context.Context, rating entities.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.ratings[rating.RatingID]
	if !ok {
		return domainerrors.ErrRatingNotFound
	}
	if resource, found := s.resources[existing.ResourceID]; found {
		resource.RatingTotal += rating.Score - existing.Score
		s.resources[resource.ResourceID] = resource
	}
	s.ratings[rating.RatingID] = rating
	return nil
}

func (s *Store) DeleteRating(ctx context.Context, ratingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rating, ok := s.ratings[ratingID]
	if !ok {
		return domainerrors.ErrRatingNotFound
	}
	if resource, found := s.resources[rating.ResourceID]; found {
		resource.RatingTotal -= rating.Score
		resource.RatingCount--
		s.resources[resource.ResourceID] = resource
	}
	delete(s.ratings, ratingID)
	return nil
}

func (s *Store) ListRatingsByResource(ctx context.Context, resourceID string) ([]entities.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entities.Rating, 0)
	for _, rating := range s.ratings {
		if rating.ResourceID == resourceID {
			items = append(items, rating)
		}
	}
	sort.Slice(items, func(i int, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].RatingID > items[j].RatingID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ToggleBookmark(ctx context.Context, bookmark entities.Bookmark) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bookmarkKey(bookmark.ResourceID, bookmark.AccountID)
	if _, ok := s.bookmarks[key]; ok {
		delete(s.bookmarks, key)
		return false, nil
	}
	s.bookmarks[key] = bookmark
	return true, nil
}

func (s *Store) IsBookmarked(ctx context.Context, resourceID string, accountID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.bookmarks[bookmarkKey(resourceID, accountID)]
	return ok, nil
}

func (s *Store) CreateTopic(ctx context.Context, topic entities.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.topics[topic.TopicID] = topic
	return nil
}

func (s *Store) GetTopic(ctx context.Context, topicID string) (entities.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.topics[topicID]
	if !ok {
		return entities.Topic{}, domainerrors.ErrTopicNotFound
	}
	return topic, nil
}

func (s *Store) ListTopics(ctx context.Context) ([]entities.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entities.Topic, 0, len(s.topics))
	for _, topic := range s.topics {
		items = append(items, topic)
	}
	sort.Slice(items, func(i int, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

func (s *Store) UpdateTopic(ctx context.Context, topic entities.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.topics[topic.TopicID]; !ok {
		return domainerrors.ErrTopicNotFound
	}
	s.topics[topic.TopicID] = topic
	return nil
}

func (s *Store) DeleteTopic(ctx context.Context, topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.topics[topicID]; !ok {
		return domainerrors.ErrTopicNotFound
	}
	delete(s.topics, topicID)
	for resourceID, resource := range s.resources {
		if containsID(resource.TopicIDs, topicID) {
			resource.TopicIDs = removeID(resource.TopicIDs, topicID)
			s.resources[resourceID] = resource
		}
	}
	return nil
}

func (s *Store) TopicNameExists(ctx context.Context, name string, excludeTopicID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, topic := range s.topics {
		if topic.TopicID != excludeTopicID && strings.EqualFold(topic.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) TopicResourceCounts(ctx context.Context, topicID string) (ports.TypeCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(ports.TypeCounts)
	for _, resource := range s.resources {
		if containsID(resource.TopicIDs, topicID) {
			counts[resource.Type]++
		}
	}
	return counts, nil
}

func (s *Store) NewID(ctx context.Context) (string, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("cat_%d", n), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func cloneResource(resource entities.Resource) entities.Resource {
	clone := resource
	clone.TopicIDs = append([]string(nil), resource.TopicIDs...)
	return clone
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	kept := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func bookmarkKey(resourceID string, accountID string) string {
	return resourceID + "|" + accountID
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
