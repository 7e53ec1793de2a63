package jobs

import (
	"context"
	"fmt"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/observability"
	"injective-token-lab/internal/storage"
)

// SupplySource produces a supply report.
type SupplySource interface {
	Analyze(ctx context.Context) (*domain.SupplyReport, error)
}

// SupplySnapshot archives one supply report per run.
type SupplySnapshot struct {
	source SupplySource
	store  storage.SupplySnapshotStore
}

// NewSupplySnapshot creates the snapshot job.
func NewSupplySnapshot(source SupplySource, store storage.SupplySnapshotStore) *SupplySnapshot {
	return &SupplySnapshot{source: source, store: store}
}

// Name implements Job.
func (j *SupplySnapshot) Name() string { return "supply_snapshot" }

// Run implements Job.
func (j *SupplySnapshot) Run(ctx context.Context) error {
	report, err := j.source.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analyze supply: %w", err)
	}
	if err := j.store.InsertBulk(ctx, report.Tokens); err != nil {
		return fmt.Errorf("store supply snapshot: %w", err)
	}
	observability.SetLastSupplySnapshot(report.Timestamp)
	return nil
}
