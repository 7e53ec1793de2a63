package walletscan

import (
	"context"
	"fmt"
	"sort"
	"time"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
)

// Scanner defaults.
const (
	DefaultBatchSize       = injective.DefaultExplorerBatch
	DefaultBatchDelay      = 300 * time.Millisecond
	DefaultMaxTransactions = 5000
)

// ScanOptions bounds one scan. Zero values mean no floor, no ceiling and
// the scanner's default transaction cap.
type ScanOptions struct {
	FromBlock       int64
	ToBlock         int64
	MaxTransactions int
}

// Scanner pages through an address's explorer history. By default it asks
// for fixed-size batches of transactions over the whole block range; with
// WithBlockWindow it walks consecutive block windows of a fixed width and
// pages inside each one.
type Scanner struct {
	src        injective.TxSource
	batchSize  int
	batchDelay time.Duration
	maxTxs     int
	window     int64
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithBatchSize sets the number of transactions requested per batch.
func WithBatchSize(n int) ScannerOption {
	return func(s *Scanner) { s.batchSize = n }
}

// WithBatchDelay sets the pause between batch requests.
func WithBatchDelay(d time.Duration) ScannerOption {
	return func(s *Scanner) { s.batchDelay = d }
}

// WithMaxTransactions sets the default cap applied when ScanOptions has none.
func WithMaxTransactions(n int) ScannerOption {
	return func(s *Scanner) { s.maxTxs = n }
}

// WithBlockWindow makes the scanner walk block windows of width blocks
// starting at the scan floor. The scan ends at the first window without
// transactions, at the ceiling, or when the cap fires.
func WithBlockWindow(blocks int64) ScannerOption {
	return func(s *Scanner) { s.window = blocks }
}

// NewScanner creates a scanner over src.
func NewScanner(src injective.TxSource, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		src:        src,
		batchSize:  DefaultBatchSize,
		batchDelay: DefaultBatchDelay,
		maxTxs:     DefaultMaxTransactions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// scanState accumulates one scan across requests.
type scanState struct {
	limit     int
	requests  int
	seen      map[string]struct{}
	txs       []domain.Transaction
	truncated bool
}

// Scan fetches batches until an empty one comes back or the cap fires, and
// returns the normalized transactions sorted by block ascending. truncated
// reports whether the cap cut the history short.
func (s *Scanner) Scan(ctx context.Context, address string, opts ScanOptions) (txs []domain.Transaction, truncated bool, err error) {
	st := &scanState{limit: opts.MaxTransactions, seen: make(map[string]struct{})}
	if st.limit <= 0 {
		st.limit = s.maxTxs
	}

	if s.window > 0 {
		err = s.scanWindows(ctx, address, opts, st)
	} else {
		_, _, err = s.scanRange(ctx, address, opts.FromBlock, opts.ToBlock, st)
	}
	if err != nil {
		return nil, false, err
	}
	txs, truncated = st.txs, st.truncated

	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].BlockNumber != txs[j].BlockNumber {
			return txs[i].BlockNumber < txs[j].BlockNumber
		}
		return txs[i].Hash < txs[j].Hash
	})
	return txs, truncated, nil
}

// scanWindows walks [from, from+window-1], [from+window, ...] until a window
// comes back empty, the ceiling is passed or the cap fires.
func (s *Scanner) scanWindows(ctx context.Context, address string, opts ScanOptions, st *scanState) error {
	for lo := max(opts.FromBlock, 0); ; lo += s.window {
		hi := lo + s.window - 1
		if opts.ToBlock > 0 && hi > opts.ToBlock {
			hi = opts.ToBlock
		}
		n, capped, err := s.scanRange(ctx, address, lo, hi, st)
		if err != nil {
			return err
		}
		if capped || n == 0 {
			return nil
		}
		if opts.ToBlock > 0 && hi >= opts.ToBlock {
			return nil
		}
	}
}

// scanRange pages through [from, to] until an empty batch or the cap. It
// returns the number of transactions fetched and whether the cap fired.
func (s *Scanner) scanRange(ctx context.Context, address string, from, to int64, st *scanState) (int, bool, error) {
	fetched := 0
	for skip := 0; ; {
		if st.requests > 0 && s.batchDelay > 0 {
			select {
			case <-ctx.Done():
				return fetched, false, ctx.Err()
			case <-time.After(s.batchDelay):
			}
		}
		st.requests++

		batch, err := s.src.AccountTxs(ctx, address, injective.TxQuery{
			Skip:       skip,
			Limit:      s.batchSize,
			StartBlock: from,
			EndBlock:   to,
		})
		if err != nil {
			return fetched, false, fmt.Errorf("transactions of %s at offset %d: %w", address, skip, err)
		}
		if len(batch) == 0 {
			return fetched, false, nil
		}
		skip += len(batch)
		fetched += len(batch)

		for _, raw := range batch {
			tx := Normalize(raw)
			if tx.Hash != "" {
				if _, dup := st.seen[tx.Hash]; dup {
					continue
				}
				st.seen[tx.Hash] = struct{}{}
			}
			st.txs = append(st.txs, tx)
		}
		if st.limit > 0 && len(st.txs) >= st.limit {
			st.truncated = len(st.txs) > st.limit || len(batch) == s.batchSize
			st.txs = st.txs[:st.limit]
			return fetched, true, nil
		}
	}
}
