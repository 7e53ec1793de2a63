package memory

import (
	"context"
	"sort"
	"sync"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/storage"
)

// ScamReportStore is an in-memory implementation of storage.ScamReportStore.
type ScamReportStore struct {
	mu      sync.RWMutex
	reports []*domain.ScamReport
	ids     map[string]struct{}
}

// NewScamReportStore creates a new in-memory scam report store.
func NewScamReportStore() *ScamReportStore {
	return &ScamReportStore{ids: make(map[string]struct{})}
}

// Insert adds a report. Returns ErrDuplicateKey if the id exists.
func (s *ScamReportStore) Insert(_ context.Context, r *domain.ScamReport) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[r.ID]; exists {
		return storage.ErrDuplicateKey
	}
	reportCopy := *r
	s.reports = append(s.reports, &reportCopy)
	s.ids[r.ID] = struct{}{}
	return nil
}

// List returns all reports, newest first.
func (s *ScamReportStore) List(_ context.Context) ([]*domain.ScamReport, error) {
	s.mu.RLock()
	out := make([]*domain.ScamReport, 0, len(s.reports))
	for _, r := range s.reports {
		reportCopy := *r
		out = append(out, &reportCopy)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	return out, nil
}

var _ storage.ScamReportStore = (*ScamReportStore)(nil)
