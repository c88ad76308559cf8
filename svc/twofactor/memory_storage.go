package twofactor

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps records in process memory. Suitable for tests and
// single-instance development servers.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[uuid.UUID]*Record)}
}

func (s *MemoryStorage) Get(_ context.Context, userID uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, ErrNotEnabled
	}
	return rec.clone(), nil
}

func (s *MemoryStorage) Save(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.UserID] = rec.clone()
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, userID)
	return nil
}

func (s *MemoryStorage) ConsumeRecoveryCode(_ context.Context, userID uuid.UUID, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return false, ErrNotEnabled
	}
	i := slices.Index(rec.RecoveryCodes, hash)
	if i < 0 {
		return false, nil
	}
	rec.RecoveryCodes = slices.Delete(rec.RecoveryCodes, i, i+1)
	return true, nil
}

func (s *MemoryStorage) ReplaceSecret(_ context.Context, userID uuid.UUID, current, sealed string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return false, ErrNotEnabled
	}
	if rec.Secret != current {
		return false, nil
	}
	rec.Secret = sealed
	rec.UpdatedAt = time.Now()
	return true, nil
}

var _ Storage = (*MemoryStorage)(nil)
