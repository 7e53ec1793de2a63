package holders

import (
	"sort"

	"github.com/shopspring/decimal"

	"injective-token-lab/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Annotator tags well-known addresses.
type Annotator interface {
	Annotate(address string) domain.Annotation
}

// MergeBalances full-outer-joins native and contract balances on address and
// returns the ranked holder table. Either map may be nil.
func MergeBalances(native, contract map[string]decimal.Decimal, ann Annotator) *domain.HolderTable {
	rows := make(map[string]*domain.HolderRecord, len(native)+len(contract))
	get := func(addr string) *domain.HolderRecord {
		r, ok := rows[addr]
		if !ok {
			r = &domain.HolderRecord{Address: addr}
			rows[addr] = r
		}
		return r
	}
	for addr, amt := range native {
		get(addr).NativeAmount = amt
	}
	for addr, amt := range contract {
		get(addr).ContractAmount = amt
	}

	records := make([]domain.HolderRecord, 0, len(rows))
	sum := decimal.Zero
	for _, r := range rows {
		r.TotalAmount = r.NativeAmount.Add(r.ContractAmount)
		r.Annotation = ann.Annotate(r.Address)
		sum = sum.Add(r.TotalAmount)
		records = append(records, *r)
	}

	sort.Slice(records, func(i, j int) bool {
		if c := records[i].TotalAmount.Cmp(records[j].TotalAmount); c != 0 {
			return c > 0
		}
		return records[i].Address < records[j].Address
	})

	var filtered []decimal.Decimal
	for i := range records {
		records[i].Rank = i + 1
		records[i].Percentage = percentOf(records[i].TotalAmount, sum)
		if !records[i].Annotation.ExcludedFromTopN() {
			filtered = append(filtered, records[i].TotalAmount)
		}
	}

	return &domain.HolderTable{
		HolderCount: len(records),
		TotalAmount: sum,
		TopN:        topN(filtered),
		Holders:     records,
	}
}

// RankNFTOwners turns per-owner token counts into a ranked table.
func RankNFTOwners(contract string, counts map[string]int, ann Annotator) *domain.NFTHolderTable {
	records := make([]domain.NFTHolderRecord, 0, len(counts))
	total := 0
	for owner, n := range counts {
		total += n
		records = append(records, domain.NFTHolderRecord{
			Address:    owner,
			Count:      n,
			Annotation: ann.Annotate(owner),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].Address < records[j].Address
	})

	sum := decimal.NewFromInt(int64(total))
	var filtered []decimal.Decimal
	for i := range records {
		n := decimal.NewFromInt(int64(records[i].Count))
		records[i].Rank = i + 1
		records[i].Percentage = percentOf(n, sum)
		if !records[i].Annotation.ExcludedFromTopN() {
			filtered = append(filtered, n)
		}
	}

	return &domain.NFTHolderTable{
		Contract:    contract,
		HolderCount: len(records),
		TokenCount:  total,
		TopN:        topN(filtered),
		Holders:     records,
	}
}

func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// topN sums the leading 1/10/20/50 amounts of a descending list as a
// percentage of the list total.
func topN(amounts []decimal.Decimal) domain.TopN {
	total := decimal.Sum(decimal.Zero, amounts...)
	share := func(n int) float64 {
		if n > len(amounts) {
			n = len(amounts)
		}
		return percentOf(decimal.Sum(decimal.Zero, amounts[:n]...), total)
	}
	return domain.TopN{Top1: share(1), Top10: share(10), Top20: share(20), Top50: share(50)}
}
