// Package supply computes total, burned and circulating supply of the
// tracked tokens along with their USD valuation.
package supply

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"injective-token-lab/internal/dex"
	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/registry"
)

// Analyzer builds supply reports from chain state and pool prices.
type Analyzer struct {
	chain  injective.ChainReader
	prices dex.PriceSource
	reg    *registry.Registry
	now    func() time.Time
}

// NewAnalyzer creates a supply analyzer.
func NewAnalyzer(chain injective.ChainReader, prices dex.PriceSource, reg *registry.Registry) *Analyzer {
	return &Analyzer{chain: chain, prices: prices, reg: reg, now: time.Now}
}

// Analyze reports every tracked token. The burn address balances are fetched
// once and shared; tokens are then processed in parallel. Any chain failure
// fails the whole report.
func (a *Analyzer) Analyze(ctx context.Context) (*domain.SupplyReport, error) {
	burned, err := a.BurnBalances(ctx)
	if err != nil {
		return nil, err
	}

	ts := a.now().UTC()
	res := injective.NewDecimalsResolver(a.chain)
	records := make([]domain.SupplyRecord, len(a.reg.Tokens))

	g, gctx := errgroup.WithContext(ctx)
	for i, tok := range a.reg.Tokens {
		g.Go(func() error {
			rec, err := a.token(gctx, tok, burned, res)
			if err != nil {
				return fmt.Errorf("supply of %s: %w", tok.Name, err)
			}
			rec.Timestamp = ts
			records[i] = *rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, r := range records {
		if r.ValueUSD != nil {
			total = total.Add(*r.ValueUSD)
		}
	}
	return &domain.SupplyReport{Tokens: records, TotalValueUSD: total, Timestamp: ts}, nil
}

// BurnBalances returns the raw base-unit balances held by the burn address, by denom.
func (a *Analyzer) BurnBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	coins, err := a.chain.Balances(ctx, a.reg.BurnAddress)
	if err != nil {
		return nil, fmt.Errorf("burn address balances: %w", err)
	}
	out := make(map[string]decimal.Decimal, len(coins))
	for _, c := range coins {
		amt, err := decimal.NewFromString(c.Amount)
		if err != nil {
			return nil, fmt.Errorf("burn balance of %s: %w", c.Denom, injective.ErrDecoding)
		}
		out[c.Denom] = out[c.Denom].Add(amt)
	}
	return out, nil
}

func (a *Analyzer) token(ctx context.Context, tok domain.Token, burned map[string]decimal.Decimal, res *injective.DecimalsResolver) (*domain.SupplyRecord, error) {
	if tok.NativeDenom == "" {
		return a.contractToken(ctx, tok)
	}

	decimals, err := res.Decimals(ctx, tok.NativeDenom, tok.Decimals)
	if err != nil {
		return nil, err
	}
	rawTotal, err := a.chain.Supply(ctx, tok.NativeDenom)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(rawTotal)
	if err != nil {
		return nil, fmt.Errorf("total supply %q: %w", rawTotal, injective.ErrDecoding)
	}
	admin, err := a.chain.MintAuthority(ctx, tok.NativeDenom)
	if err != nil {
		return nil, err
	}

	rec := &domain.SupplyRecord{
		Name:        tok.Name,
		Denom:       tok.NativeDenom,
		Decimals:    decimals,
		TotalSupply: total.Shift(-decimals),
		BurnSupply:  burned[tok.NativeDenom].Shift(-decimals),
		BurnEnabled: admin != "" && (admin == a.reg.BurnAddress || a.reg.IsCreator(admin)),
		PoolID:      tok.PoolID,
	}
	a.value(ctx, rec)
	return rec, nil
}

// contractToken reads supply and the burn address balance of a contract-only token.
func (a *Analyzer) contractToken(ctx context.Context, tok domain.Token) (*domain.SupplyRecord, error) {
	var info struct {
		TotalSupply string `json:"total_supply"`
	}
	if err := a.chain.SmartQuery(ctx, tok.ContractDenom, map[string]interface{}{"token_info": struct{}{}}, &info); err != nil {
		return nil, err
	}
	var bal struct {
		Balance string `json:"balance"`
	}
	q := map[string]interface{}{"balance": map[string]string{"address": a.reg.BurnAddress}}
	if err := a.chain.SmartQuery(ctx, tok.ContractDenom, q, &bal); err != nil {
		return nil, err
	}

	total, err := parseAmount(info.TotalSupply)
	if err != nil {
		return nil, err
	}
	burn, err := parseAmount(bal.Balance)
	if err != nil {
		return nil, err
	}
	rec := &domain.SupplyRecord{
		Name:        tok.Name,
		Denom:       tok.ContractDenom,
		Decimals:    domain.ContractDecimals,
		TotalSupply: total.Shift(-domain.ContractDecimals),
		BurnSupply:  burn.Shift(-domain.ContractDecimals),
		PoolID:      tok.PoolID,
	}
	a.value(ctx, rec)
	return rec, nil
}

// value fills circulating supply and, when the pool price is known, the USD fields.
func (a *Analyzer) value(ctx context.Context, rec *domain.SupplyRecord) {
	rec.CirculatingSupply = rec.TotalSupply.Sub(rec.BurnSupply)
	if price, ok := a.prices.PriceByPool(ctx, rec.PoolID); ok {
		v := price.Mul(rec.CirculatingSupply)
		rec.PriceUSD = &price
		rec.ValueUSD = &v
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, injective.ErrDecoding)
	}
	return d, nil
}
