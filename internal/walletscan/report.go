package walletscan

import (
	"math"
	"sort"
	"time"

	"injective-token-lab/internal/domain"
)

// Report list sizes.
const (
	topMessageTypes = 10
	topDapps        = 10
	topRecipients   = 20
)

// BuildReport aggregates enriched transactions of address into a report.
// txs must be sorted by block ascending.
func BuildReport(address string, txs []domain.EnrichedTransaction, truncated bool) *domain.WalletReport {
	r := &domain.WalletReport{
		Address:          address,
		TransactionCount: len(txs),
		TxTypes:          map[string]int{},
		TopMessageTypes:  []domain.NamedCount{},
		TopDapps:         []domain.NamedCount{},
		TopRecipients:    []domain.NamedCount{},
		MonthlyActivity:  []domain.NamedCount{},
		FlaggedTxs:       []domain.EnrichedTransaction{},
		ScamInteractions: []domain.ScamInteraction{},
		Truncated:        truncated,
	}

	msgTypes := map[string]int{}
	dapps := map[string]int{}
	recipients := map[string]int{}
	months := map[string]int{}
	var first, last time.Time
	scores := 0

	for i, tx := range txs {
		if i == 0 || tx.BlockNumber < r.BlockRange.From {
			r.BlockRange.From = tx.BlockNumber
		}
		if tx.BlockNumber > r.BlockRange.To {
			r.BlockRange.To = tx.BlockNumber
		}
		if ts := tx.BlockTimestamp; !ts.IsZero() {
			if first.IsZero() || ts.Before(first) {
				first = ts
			}
			if ts.After(last) {
				last = ts
			}
			months[ts.Format("2006-01")]++
		}

		txType := tx.TxType
		if txType == "" {
			txType = "unknown"
		}
		r.TxTypes[txType]++
		if tx.MsgType != "" {
			msgTypes[tx.MsgType]++
		}
		if len(tx.DappContracts) > 0 {
			dapps[tx.DappName]++
		}
		for _, rc := range tx.Recipients {
			recipients[rc]++
		}

		scores += tx.RiskScore
		if len(tx.SuspiciousFlags) > 0 {
			r.FlaggedTxs = append(r.FlaggedTxs, tx)
			r.ScamInteractions = append(r.ScamInteractions, domain.ScamInteraction{
				TxHash:        tx.Hash,
				BlockNumber:   tx.BlockNumber,
				Timestamp:     tx.BlockTimestamp,
				MsgType:       tx.MsgType,
				ScamAddresses: ScamAddresses(tx),
			})
		}
	}

	if !first.IsZero() {
		r.FirstSeen, r.LastSeen = &first, &last
	}
	r.TopMessageTypes = topCounts(msgTypes, topMessageTypes)
	r.TopDapps = topCounts(dapps, topDapps)
	r.TopRecipients = topCounts(recipients, topRecipients)
	for m, n := range months {
		r.MonthlyActivity = append(r.MonthlyActivity, domain.NamedCount{Name: m, Count: n})
	}
	sort.Slice(r.MonthlyActivity, func(i, j int) bool { return r.MonthlyActivity[i].Name < r.MonthlyActivity[j].Name })

	r.RiskScore = OverallRisk(len(r.FlaggedTxs), len(txs), scores)
	return r
}

// OverallRisk scores a wallet in [1,10]. Any scam interaction puts the score
// at 6 or above, scaled by the share of flagged transactions; otherwise it
// is the rounded mean of the per-transaction scores.
func OverallRisk(scamHits, totalTxs, scoreSum int) int {
	if totalTxs == 0 {
		return 1
	}
	if scamHits > 0 {
		ratio := math.Min(float64(scamHits)/float64(totalTxs)*2, 1)
		return max(6, min(10, int(math.Round(10*ratio))))
	}
	mean := int(math.Round(float64(scoreSum) / float64(totalTxs)))
	return max(1, min(10, mean))
}

func topCounts(counts map[string]int, n int) []domain.NamedCount {
	out := make([]domain.NamedCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, domain.NamedCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
