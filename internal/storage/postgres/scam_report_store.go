package postgres

import (
	"context"
	"fmt"
	"time"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/storage"
)

// ScamReportStore implements storage.ScamReportStore using PostgreSQL.
type ScamReportStore struct {
	pool *Pool
}

// NewScamReportStore creates a new ScamReportStore.
func NewScamReportStore(pool *Pool) *ScamReportStore {
	return &ScamReportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScamReportStore = (*ScamReportStore)(nil)

// Insert adds a report. Returns ErrDuplicateKey if the id exists.
func (s *ScamReportStore) Insert(ctx context.Context, r *domain.ScamReport) error {
	if r == nil || r.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO scam_reports (id, address, project, info, discord, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	start := time.Now()
	_, err := s.pool.Exec(ctx, query, r.ID, r.Address, r.Project, r.Info, r.Discord, r.ReportedAt)
	observe("insert_scam_report", start, err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert scam report: %w", err)
	}
	return nil
}

// List returns every report, newest first.
func (s *ScamReportStore) List(ctx context.Context) ([]*domain.ScamReport, error) {
	query := `
		SELECT id, address, project, info, discord, reported_at
		FROM scam_reports
		ORDER BY reported_at DESC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list scam reports: %w", err)
	}
	defer rows.Close()

	var out []*domain.ScamReport
	for rows.Next() {
		var r domain.ScamReport
		if err := rows.Scan(&r.ID, &r.Address, &r.Project, &r.Info, &r.Discord, &r.ReportedAt); err != nil {
			return nil, fmt.Errorf("scan scam report: %w", err)
		}
		r.ReportedAt = r.ReportedAt.UTC()
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scam reports: %w", err)
	}
	return out, nil
}
