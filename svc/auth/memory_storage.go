package auth

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryUser struct {
	user User
	hash []byte
}

// MemoryStorage keeps accounts in process memory.
type MemoryStorage struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*memoryUser
	byEmail    map[string]uuid.UUID
	identities map[string]uuid.UUID
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:      make(map[uuid.UUID]*memoryUser),
		byEmail:    make(map[string]uuid.UUID),
		identities: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStorage) CreateUser(_ context.Context, user *User, passwordHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := s.byEmail[key]; ok {
		return ErrEmailAlreadyExists
	}
	s.users[user.ID] = &memoryUser{user: *user, hash: slices.Clone(passwordHash)}
	s.byEmail[key] = user.ID
	return nil
}

func (s *MemoryStorage) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := u.user
	return &user, nil
}

func (s *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.GetUserByID(ctx, id)
}

func (s *MemoryStorage) GetPasswordHash(_ context.Context, userID uuid.UUID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return slices.Clone(u.hash), nil
}

func (s *MemoryStorage) LinkIdentity(_ context.Context, userID uuid.UUID, provider, providerUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrUserNotFound
	}
	s.identities[provider+":"+providerUserID] = userID
	return nil
}

func (s *MemoryStorage) GetUserByIdentity(ctx context.Context, provider, providerUserID string) (*User, error) {
	s.mu.RLock()
	id, ok := s.identities[provider+":"+providerUserID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.GetUserByID(ctx, id)
}

var _ Storage = (*MemoryStorage)(nil)
