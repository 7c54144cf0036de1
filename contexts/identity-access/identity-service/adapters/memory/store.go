package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	keymemory "athenaeum/contexts/identity-access/registration-key-service/adapters/memory"

	"athenaeum/contexts/identity-access/identity-service/domain/entities"
	domainerrors "athenaeum/contexts/identity-access/identity-service/domain/errors"
	"athenaeum/contexts/identity-access/identity-service/ports"
)

type Store struct {
	mu sync.Mutex

	accountsByID    map[string]entities.Account
	accountIDByName map[string]string
	sessions        map[string]entities.Session
	sequence        uint64

	keys *keymemory.Store
}

// NewStore builds an in-memory account store sharing the given key store so
// registration consumes keys from the same state the key module serves.
func NewStore(keys *keymemory.Store) *Store {
	return &Store{
		accountsByID:    make(map[string]entities.Account),
		accountIDByName: make(map[string]string),
		sessions:        make(map[string]entities.Session),
		keys:            keys,
	}
}

// CreateAccountWithKey inserts the account, then consumes the key; a failed
// consumption undoes the insert. The key store's consume is atomic, so a
// single-use key admits exactly one of any set of concurrent registrations.
func (s *Store) CreateAccountWithKey(ctx context.Context, account entities.Account, keyToken string, now time.Time) error {
	if err := s.createAccount(account); err != nil {
		return err
	}
	consumed, err := s.keys.ConsumeKey(ctx, keyToken, now)
	if err != nil {
		s.removeAccount(account.AccountID)
		return err
	}
	if !consumed {
		s.removeAccount(account.AccountID)
		return domainerrors.ErrKeyNoLongerUsable
	}
	return nil
}

func (s *Store) createAccount(account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(account.Username)
	if _, exists := s.accountIDByName[username]; exists {
		return domainerrors.ErrUsernameTaken
	}
	for _, existing := range s.accountsByID {
		if existing.Email == account.Email {
			return domainerrors.ErrEmailTaken
		}
	}
	s.accountsByID[account.AccountID] = account
	s.accountIDByName[username] = account.AccountID
	return nil
}

func (s *Store) removeAccount(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accountsByID[accountID]
	if !ok {
		return
	}
	delete(s.accountsByID, accountID)
	delete(s.accountIDByName, strings.ToLower(account.Username))
}

func (s *Store) GetAccountByID(ctx context.Context, accountID string) (entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accountsByID[accountID]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) GetAccountByUsername(ctx context.Context, username string) (entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID, ok := s.accountIDByName[strings.ToLower(username)]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return s.accountsByID[accountID], nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.accountIDByName[strings.ToLower(username)]
	return ok, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accountsByID {
		if account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entities.Account, 0, len(s.accountsByID))
	for _, account := range s.accountsByID {
		items = append(items, account)
	}
	sort.Slice(items, func(i int, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].AccountID > items[j].AccountID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateAccount(ctx context.Context, account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accountsByID[account.AccountID]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	if !strings.EqualFold(existing.Username, account.Username) {
		delete(s.accountIDByName, strings.ToLower(existing.Username))
		s.accountIDByName[strings.ToLower(account.Username)] = account.AccountID
	}
	s.accountsByID[account.AccountID] = account
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accountsByID[accountID]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	delete(s.accountsByID, accountID)
	delete(s.accountIDByName, strings.ToLower(account.Username))
	for tokenHash, session := range s.sessions {
		if session.AccountID == accountID {
			delete(s.sessions, tokenHash)
		}
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.TokenHash] = session
	return nil
}

func (s *Store) GetSession(ctx context.Context, tokenHash string, now time.Time) (entities.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[tokenHash]
	if !ok {
		return entities.Session{}, false, nil
	}
	if session.Expired(now) {
		delete(s.sessions, tokenHash)
		return entities.Session{}, false, nil
	}
	return session, true, nil
}

func (s *Store) DeleteSession(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, tokenHash)
	return nil
}

func (s *Store) NewID(ctx context.Context) (string, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("acct_%d", n), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
