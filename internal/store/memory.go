package store

import (
	"context"
	"sync"

	"github.com/authwave/apiserver/types"
)

// MemoryStore is an in-process UserStore, used for tests and local runs
// without a managed store.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]types.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]types.User)}
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) Create(_ context.Context, user types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return ErrAlreadyExists
	}
	s.users[user.Email] = user
	return nil
}

func (s *MemoryStore) UpdateFields(_ context.Context, email string, update types.UserUpdate) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return types.User{}, ErrNotFound
	}
	update.Apply(&user)
	s.users[email] = user
	return user, nil
}
