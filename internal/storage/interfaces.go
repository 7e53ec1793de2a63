package storage

import (
	"context"

	"injective-token-lab/internal/domain"
)

// TalentStore persists the talent directory, one row per wallet.
// Keys are compared with domain.WalletKey.
type TalentStore interface {
	// Upsert inserts the row or replaces the existing row with the same wallet key.
	// The replaced row keeps its position in List order.
	Upsert(ctx context.Context, t *domain.Talent) error

	// Get returns the row for wallet. Returns ErrNotFound if absent.
	Get(ctx context.Context, wallet string) (*domain.Talent, error)

	// List returns every row in insertion order.
	List(ctx context.Context) ([]*domain.Talent, error)

	// SetStatus changes the status of an existing row and returns the updated row.
	// Returns ErrNotFound if absent.
	SetStatus(ctx context.Context, wallet string, status domain.TalentStatus) (*domain.Talent, error)
}

// ScamReportStore archives user-submitted scam reports.
type ScamReportStore interface {
	// Insert adds a report. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, r *domain.ScamReport) error

	// List returns every report, newest first.
	List(ctx context.Context) ([]*domain.ScamReport, error)
}

// SupplySnapshotStore archives supply analyzer output.
type SupplySnapshotStore interface {
	// InsertBulk appends records.
	InsertBulk(ctx context.Context, records []domain.SupplyRecord) error

	// History returns up to limit snapshots of denom, newest first.
	History(ctx context.Context, denom string, limit int) ([]domain.SupplyRecord, error)
}
