package memory

import (
	"context"
	"sync"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/storage"
)

// TalentStore is an in-memory implementation of storage.TalentStore.
type TalentStore struct {
	mu    sync.RWMutex
	order []string                  // wallet keys in insertion order
	rows  map[string]*domain.Talent // keyed by wallet key
}

// NewTalentStore creates a new in-memory talent store.
func NewTalentStore() *TalentStore {
	return &TalentStore{rows: make(map[string]*domain.Talent)}
}

// Upsert inserts or replaces the row keyed by the wallet address.
func (s *TalentStore) Upsert(_ context.Context, t *domain.Talent) error {
	if t == nil || t.Key() == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := t.Key()
	if _, exists := s.rows[key]; !exists {
		s.order = append(s.order, key)
	}
	row := *t
	s.rows[key] = &row
	return nil
}

// Get returns the row for wallet. Returns ErrNotFound if absent.
func (s *TalentStore) Get(_ context.Context, wallet string) (*domain.Talent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.rows[domain.WalletKey(wallet)]
	if !exists {
		return nil, storage.ErrNotFound
	}
	row := *t
	return &row, nil
}

// List returns every row in insertion order.
func (s *TalentStore) List(_ context.Context) ([]*domain.Talent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Talent, 0, len(s.order))
	for _, key := range s.order {
		row := *s.rows[key]
		out = append(out, &row)
	}
	return out, nil
}

// SetStatus updates the status of an existing row.
func (s *TalentStore) SetStatus(_ context.Context, wallet string, status domain.TalentStatus) (*domain.Talent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.rows[domain.WalletKey(wallet)]
	if !exists {
		return nil, storage.ErrNotFound
	}
	t.Status = status
	row := *t
	return &row, nil
}

var _ storage.TalentStore = (*TalentStore)(nil)
