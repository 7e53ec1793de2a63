package memory

import (
	"context"
	"sort"
	"sync"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/storage"
)

// SupplySnapshotStore is an in-memory implementation of storage.SupplySnapshotStore.
type SupplySnapshotStore struct {
	mu      sync.RWMutex
	byDenom map[string][]domain.SupplyRecord
}

// NewSupplySnapshotStore creates a new in-memory snapshot store.
func NewSupplySnapshotStore() *SupplySnapshotStore {
	return &SupplySnapshotStore{byDenom: make(map[string][]domain.SupplyRecord)}
}

// InsertBulk appends records.
func (s *SupplySnapshotStore) InsertBulk(_ context.Context, records []domain.SupplyRecord) error {
	for _, r := range records {
		if r.Denom == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.byDenom[r.Denom] = append(s.byDenom[r.Denom], r)
	}
	return nil
}

// History returns up to limit snapshots of denom, newest first.
// A non-positive limit returns everything.
func (s *SupplySnapshotStore) History(_ context.Context, denom string, limit int) ([]domain.SupplyRecord, error) {
	s.mu.RLock()
	out := append([]domain.SupplyRecord(nil), s.byDenom[denom]...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ storage.SupplySnapshotStore = (*SupplySnapshotStore)(nil)
