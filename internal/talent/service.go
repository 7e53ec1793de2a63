// Package talent runs the moderated talent directory on top of a storage.TalentStore.
package talent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/notify"
	"injective-token-lab/internal/storage"
)

// SubmissionLayout formats the Submission Date column.
const SubmissionLayout = "2006-01-02 15:04:05"

// Service validates submissions, applies status transitions and announces both.
type Service struct {
	store    storage.TalentStore
	notifier notify.Notifier
	now      func() time.Time
}

// NewService creates a talent service.
func NewService(store storage.TalentStore, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{store: store, notifier: notifier, now: time.Now}
}

// Validate checks the required submission fields.
func Validate(t *domain.Talent) error {
	var missing []string
	if strings.TrimSpace(t.Name) == "" {
		missing = append(missing, "Name")
	}
	if strings.TrimSpace(t.Discord) == "" {
		missing = append(missing, "Discord")
	}
	if strings.TrimSpace(t.WalletAddress) == "" {
		missing = append(missing, "Wallet Address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), injective.ErrMalformedInput)
	}
	if !domain.ValidAddress(strings.TrimSpace(t.WalletAddress)) {
		return fmt.Errorf("wallet address %q: %w", t.WalletAddress, injective.ErrMalformedInput)
	}
	return nil
}

// Submit stores t as a Pending row stamped with the current time, replacing
// any earlier row of the same wallet. A *storage.PersistenceError comes back
// together with the accepted row, which stays in memory.
func (s *Service) Submit(ctx context.Context, t domain.Talent) (*domain.Talent, error) {
	if err := Validate(&t); err != nil {
		return nil, err
	}
	t.WalletAddress = strings.TrimSpace(t.WalletAddress)
	t.Status = domain.TalentPending
	t.SubmissionDate = s.now().UTC().Format(SubmissionLayout)

	err := s.store.Upsert(ctx, &t)
	if err != nil && !errors.Is(err, storage.ErrPersistence) {
		return nil, fmt.Errorf("store talent: %w", err)
	}
	if err != nil {
		log.Error().Str("component", "talent").Str("wallet", t.WalletAddress).Err(err).Msg("talent kept in memory only")
	}

	s.notifier.Notify(ctx, notify.KindTalent, notify.TalentEmbed("New talent submission", &t))
	return &t, err
}

// Transition moves the row of wallet to status. On a persistence failure the
// updated row is returned with the error and the change stays applied in memory.
func (s *Service) Transition(ctx context.Context, wallet string, status domain.TalentStatus) (*domain.Talent, error) {
	updated, err := s.store.SetStatus(ctx, wallet, status)
	if updated == nil {
		return nil, err
	}
	if err != nil {
		log.Error().Str("component", "talent").Str("wallet", wallet).Err(err).Msg("status change kept in memory only")
	}
	s.notifier.Notify(ctx, notify.KindTalent, notify.TalentEmbed("Talent "+strings.ToLower(string(status)), updated))
	return updated, err
}

// Get returns the row of wallet or storage.ErrNotFound.
func (s *Service) Get(ctx context.Context, wallet string) (*domain.Talent, error) {
	return s.store.Get(ctx, wallet)
}

// List returns the rows with the given status, or every row when status is empty.
func (s *Service) List(ctx context.Context, status domain.TalentStatus) ([]*domain.Talent, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return rows, nil
	}
	out := rows[:0]
	for _, r := range rows {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}
