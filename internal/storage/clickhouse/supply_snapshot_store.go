package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/observability"
	"injective-token-lab/internal/storage"
)

// SupplySnapshotStore implements storage.SupplySnapshotStore using ClickHouse.
type SupplySnapshotStore struct {
	conn *Conn
}

// NewSupplySnapshotStore creates a new SupplySnapshotStore.
func NewSupplySnapshotStore(conn *Conn) *SupplySnapshotStore {
	return &SupplySnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SupplySnapshotStore = (*SupplySnapshotStore)(nil)

// InsertBulk appends records in one batch.
func (s *SupplySnapshotStore) InsertBulk(ctx context.Context, records []domain.SupplyRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO supply_snapshots (
			denom, name, decimals, total_supply, burn_supply, circulating_supply,
			price_usd, value_usd, burn_enabled, pool_id, timestamp
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare supply snapshot batch: %w", err)
	}

	for _, r := range records {
		if r.Denom == "" {
			_ = batch.Abort()
			return storage.ErrInvalidInput
		}
		err := batch.Append(
			r.Denom,
			r.Name,
			r.Decimals,
			r.TotalSupply.String(),
			r.BurnSupply.String(),
			r.CirculatingSupply.String(),
			optionalString(r.PriceUSD),
			optionalString(r.ValueUSD),
			r.BurnEnabled,
			r.PoolID,
			r.Timestamp.UTC(),
		)
		if err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append supply snapshot: %w", err)
		}
	}

	start := time.Now()
	err = batch.Send()
	observability.RecordDBQuery("clickhouse", "insert_supply_snapshots", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("send supply snapshot batch: %w", err)
	}
	return nil
}

// History returns up to limit snapshots of denom, newest first.
// A non-positive limit returns everything.
func (s *SupplySnapshotStore) History(ctx context.Context, denom string, limit int) ([]domain.SupplyRecord, error) {
	query := `
		SELECT denom, name, decimals, total_supply, burn_supply, circulating_supply,
			price_usd, value_usd, burn_enabled, pool_id, timestamp
		FROM supply_snapshots
		WHERE denom = ?
		ORDER BY timestamp DESC
	`
	args := []any{denom}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := s.conn.Query(ctx, query, args...)
	observability.RecordDBQuery("clickhouse", "supply_history", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query supply snapshots: %w", err)
	}
	defer rows.Close()

	var out []domain.SupplyRecord
	for rows.Next() {
		var (
			r                        domain.SupplyRecord
			total, burn, circulating string
			price, value             *string
			ts                       time.Time
		)
		if err := rows.Scan(&r.Denom, &r.Name, &r.Decimals, &total, &burn, &circulating,
			&price, &value, &r.BurnEnabled, &r.PoolID, &ts); err != nil {
			return nil, fmt.Errorf("scan supply snapshot: %w", err)
		}
		if r.TotalSupply, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total supply: %w", err)
		}
		if r.BurnSupply, err = decimal.NewFromString(burn); err != nil {
			return nil, fmt.Errorf("parse burn supply: %w", err)
		}
		if r.CirculatingSupply, err = decimal.NewFromString(circulating); err != nil {
			return nil, fmt.Errorf("parse circulating supply: %w", err)
		}
		if r.PriceUSD, err = optionalDecimal(price); err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		if r.ValueUSD, err = optionalDecimal(value); err != nil {
			return nil, fmt.Errorf("parse value: %w", err)
		}
		r.Timestamp = ts.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supply snapshots: %w", err)
	}
	return out, nil
}

func optionalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func optionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
