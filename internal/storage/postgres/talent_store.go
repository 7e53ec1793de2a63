package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/storage"
)

// TalentStore implements storage.TalentStore using PostgreSQL.
type TalentStore struct {
	pool *Pool
}

// NewTalentStore creates a new TalentStore.
func NewTalentStore(pool *Pool) *TalentStore {
	return &TalentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TalentStore = (*TalentStore)(nil)

const talentColumns = `
	name, role, injective_role, experience, education, location,
	availability, monthly_rate, skills, languages, discord, email,
	phone, telegram, x, github, wallet_address, wallet_type,
	nft_holdings, token_holdings, portfolio, cv, image_url, bio,
	submission_date, status`

// Upsert inserts or replaces the row keyed by the wallet address.
// Replaced rows keep their original insertion sequence.
func (s *TalentStore) Upsert(ctx context.Context, t *domain.Talent) error {
	if t == nil || t.Key() == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO talents (wallet_key,` + talentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
		ON CONFLICT (wallet_key) DO UPDATE SET
			name = EXCLUDED.name, role = EXCLUDED.role,
			injective_role = EXCLUDED.injective_role, experience = EXCLUDED.experience,
			education = EXCLUDED.education, location = EXCLUDED.location,
			availability = EXCLUDED.availability, monthly_rate = EXCLUDED.monthly_rate,
			skills = EXCLUDED.skills, languages = EXCLUDED.languages,
			discord = EXCLUDED.discord, email = EXCLUDED.email,
			phone = EXCLUDED.phone, telegram = EXCLUDED.telegram,
			x = EXCLUDED.x, github = EXCLUDED.github,
			wallet_address = EXCLUDED.wallet_address, wallet_type = EXCLUDED.wallet_type,
			nft_holdings = EXCLUDED.nft_holdings, token_holdings = EXCLUDED.token_holdings,
			portfolio = EXCLUDED.portfolio, cv = EXCLUDED.cv,
			image_url = EXCLUDED.image_url, bio = EXCLUDED.bio,
			submission_date = EXCLUDED.submission_date, status = EXCLUDED.status,
			updated_at = now()
	`

	args := []any{t.Key()}
	for _, v := range t.Row() {
		args = append(args, v)
	}
	start := time.Now()
	_, err := s.pool.Exec(ctx, query, args...)
	observe("upsert_talent", start, err)
	if err != nil {
		return fmt.Errorf("upsert talent: %w", err)
	}
	return nil
}

// Get returns the row for wallet. Returns ErrNotFound if absent.
func (s *TalentStore) Get(ctx context.Context, wallet string) (*domain.Talent, error) {
	query := `SELECT` + talentColumns + ` FROM talents WHERE wallet_key = $1`

	start := time.Now()
	t, err := scanTalent(s.pool.QueryRow(ctx, query, domain.WalletKey(wallet)))
	observe("get_talent", start, err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get talent: %w", err)
	}
	return t, nil
}

// List returns every row in insertion order.
func (s *TalentStore) List(ctx context.Context) ([]*domain.Talent, error) {
	query := `SELECT` + talentColumns + ` FROM talents ORDER BY seq ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list talents: %w", err)
	}
	defer rows.Close()

	var out []*domain.Talent
	for rows.Next() {
		t, err := scanTalent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan talent: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate talents: %w", err)
	}
	return out, nil
}

// SetStatus updates the status of an existing row.
func (s *TalentStore) SetStatus(ctx context.Context, wallet string, status domain.TalentStatus) (*domain.Talent, error) {
	query := `
		UPDATE talents SET status = $2, updated_at = now()
		WHERE wallet_key = $1
		RETURNING` + talentColumns

	start := time.Now()
	t, err := scanTalent(s.pool.QueryRow(ctx, query, domain.WalletKey(wallet), string(status)))
	observe("set_talent_status", start, err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, &storage.PersistenceError{Op: "set talent status", Err: err}
	}
	return t, nil
}

func scanTalent(row pgx.Row) (*domain.Talent, error) {
	cells := make([]string, len(domain.TalentColumns))
	dest := make([]any, len(cells))
	for i := range cells {
		dest[i] = &cells[i]
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return domain.TalentFromRow(cells)
}
