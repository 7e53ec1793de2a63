package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/notify"
	"injective-token-lab/internal/observability"
)

// BurnSource returns the burn address balances in base units, by denom.
type BurnSource interface {
	BurnBalances(ctx context.Context) (map[string]decimal.Decimal, error)
}

// BurnWatcher announces increases of the burn address balance per tracked denom.
// The first successful run only records the baseline.
type BurnWatcher struct {
	source   BurnSource
	tokens   []domain.Token
	notifier notify.Notifier

	mu     sync.Mutex
	last   map[string]decimal.Decimal
	primed bool
}

// NewBurnWatcher creates a watcher over the native denoms of tokens.
func NewBurnWatcher(source BurnSource, tokens []domain.Token, notifier notify.Notifier) *BurnWatcher {
	return &BurnWatcher{
		source:   source,
		tokens:   tokens,
		notifier: notifier,
		last:     make(map[string]decimal.Decimal),
	}
}

// Name implements Job.
func (w *BurnWatcher) Name() string { return "burn_watcher" }

// Run implements Job.
func (w *BurnWatcher) Run(ctx context.Context) error {
	balances, err := w.source.BurnBalances(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, tok := range w.tokens {
		if tok.NativeDenom == "" {
			continue
		}
		cur := balances[tok.NativeDenom]
		prev, seen := w.last[tok.NativeDenom]
		w.last[tok.NativeDenom] = cur
		if !w.primed || !seen || !cur.GreaterThan(prev) {
			continue
		}

		exp := domain.ResolveDecimals(tok.Decimals, 0)
		burned := cur.Sub(prev).Shift(-exp)
		total := cur.Shift(-exp)
		log.Info().Str("component", "burn_watcher").Str("token", tok.Name).
			Str("burned", burned.String()).Str("total", total.String()).Msg("burn detected")
		w.notifier.Notify(ctx, notify.KindBurn, notify.BurnEmbed(tok.Name, tok.NativeDenom, burned, total))
	}
	w.primed = true
	observability.SetLastBurnCheck(time.Now())
	return nil
}
