// Package walletscan builds risk and usage reports for a single address
// from its explorer transaction history.
package walletscan

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/observability"
)

// Analyzer scans, enriches and scores an address's transactions.
type Analyzer struct {
	scanner *Scanner
	scams   ScamChecker
	dapps   DappNamer
}

// NewAnalyzer creates a wallet analyzer.
func NewAnalyzer(scanner *Scanner, scams ScamChecker, dapps DappNamer) *Analyzer {
	return &Analyzer{scanner: scanner, scams: scams, dapps: dapps}
}

// Analyze returns the report for address. Scan failures are fatal; log
// parsing failures only skip enrichment of the affected transaction.
func (a *Analyzer) Analyze(ctx context.Context, address string, opts ScanOptions) (*domain.WalletReport, error) {
	if !domain.ValidAddress(address) {
		return nil, fmt.Errorf("address %q: %w", address, injective.ErrMalformedInput)
	}

	txs, truncated, err := a.scanner.Scan(ctx, address, opts)
	if err != nil {
		observability.RecordWalletScan("error", 0)
		return nil, err
	}

	opaque := 0
	enriched := make([]domain.EnrichedTransaction, 0, len(txs))
	for _, tx := range txs {
		events, err := ParseLogs(tx.RawLogs)
		if err != nil {
			opaque++
			log.Debug().Str("component", "walletscan").Str("tx", tx.Hash).Err(err).Msg("skipping log enrichment")
		}
		enriched = append(enriched, Enrich(tx, events, address, a.scams, a.dapps))
	}
	if opaque > 0 {
		log.Warn().Str("component", "walletscan").Str("address", address).Int("transactions", opaque).Msg("unparseable logs skipped")
	}

	report := BuildReport(address, enriched, truncated)
	observability.RecordWalletScan("ok", len(txs))
	return report, nil
}
