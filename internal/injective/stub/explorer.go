package stub

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"injective-token-lab/internal/injective"
)

// Explorer implements injective.TxSource over a per-address slice.
type Explorer struct {
	Txs   map[string][]injective.ExplorerTx
	Err   error
	calls atomic.Int64
}

// NewExplorer creates an empty stub explorer.
func NewExplorer() *Explorer {
	return &Explorer{Txs: make(map[string][]injective.ExplorerTx)}
}

// Calls returns the number of AccountTxs calls served.
func (e *Explorer) Calls() int64 { return e.calls.Load() }

// AccountTxs serves q.Limit transactions starting at q.Skip.
func (e *Explorer) AccountTxs(_ context.Context, address string, q injective.TxQuery) ([]injective.ExplorerTx, error) {
	e.calls.Add(1)
	if e.Err != nil {
		return nil, e.Err
	}
	txs := e.Txs[address]
	if q.StartBlock > 0 || q.EndBlock > 0 {
		txs = inBlocks(txs, q.StartBlock, q.EndBlock)
	}
	if q.Skip >= len(txs) {
		return nil, nil
	}
	end := len(txs)
	if q.Limit > 0 && q.Skip+q.Limit < end {
		end = q.Skip + q.Limit
	}
	return txs[q.Skip:end], nil
}

// inBlocks keeps transactions whose block lies in [lo, hi]; zero bounds are open.
func inBlocks(txs []injective.ExplorerTx, lo, hi int64) []injective.ExplorerTx {
	var out []injective.ExplorerTx
	for _, tx := range txs {
		n, err := strconv.ParseInt(strings.Trim(string(tx.BlockNumber), `"`), 10, 64)
		if err != nil {
			continue
		}
		if (lo > 0 && n < lo) || (hi > 0 && n > hi) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
