package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"athenaeum/contexts/identity-access/registration-key-service/domain/entities"
	domainerrors "athenaeum/contexts/identity-access/registration-key-service/domain/errors"
	"athenaeum/contexts/identity-access/registration-key-service/domain/services"
	"athenaeum/contexts/identity-access/registration-key-service/ports"
)

type Store struct {
	mu sync.Mutex

	keysByID     map[string]entities.Key
	keyIDByToken map[string]string
	sequence     uint64
}

func NewStore() *Store {
	return &Store{
		keysByID:     make(map[string]entities.Key),
		keyIDByToken: make(map[string]string),
	}
}

func (s *Store) CreateKey(ctx context.Context, key entities.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keyIDByToken[key.Token]; exists {
		return fmt.Errorf("duplicate key token")
	}
	s.keysByID[key.KeyID] = key
	s.keyIDByToken[key.Token] = key.KeyID
	return nil
}

func (s *Store) GetKeyByToken(ctx context.Context, token string) (entities.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keyID, ok := s.keyIDByToken[strings.TrimSpace(token)]
	if !ok {
		return entities.Key{}, domainerrors.ErrKeyNotFound
	}
	return s.keysByID[keyID], nil
}

func (s *Store) GetKey(ctx context.Context, keyID string) (entities.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.keysByID[strings.TrimSpace(keyID)]
	if !ok {
		return entities.Key{}, domainerrors.ErrKeyNotFound
	}
	return key, nil
}

// ConsumeKey performs the validate-then-increment sequence under one lock,
// mirroring the conditional UPDATE the postgres adapter issues.
func (s *Store) ConsumeKey(ctx context.Context, token string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keyID, ok := s.keyIDByToken[strings.TrimSpace(token)]
	if !ok {
		return false, nil
	}
	key := s.keysByID[keyID]
	if !key.IsUsable(now.UTC()) {
		return false, nil
	}
	key.Uses++
	s.keysByID[keyID] = key
	return true, nil
}

func (s *Store) RevokeKey(ctx context.Context, keyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.keysByID[keyID]
	if !ok {
		return domainerrors.ErrKeyNotFound
	}
	key.IsActive = false
	s.keysByID[keyID] = key
	return nil
}

func (s *Store) ListActiveByCreator(ctx context.Context, creatorID string) ([]entities.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entities.Key, 0)
	for _, key := range s.keysByID {
		if key.IsActive && key.CreatedBy == creatorID {
			items = append(items, key)
		}
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *Store) ListActive(ctx context.Context) ([]entities.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entities.Key, 0)
	for _, key := range s.keysByID {
		if key.IsActive {
			items = append(items, key)
		}
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *Store) NewID(ctx context.Context) (string, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("key_%d", n), nil
}

func (s *Store) NewToken() (string, error) {
	return services.GenerateToken()
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func sortNewestFirst(items []entities.Key) {
	sort.Slice(items, func(i int, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].KeyID > items[j].KeyID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.TokenGenerator = (*Store)(nil)
