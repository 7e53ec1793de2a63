// Package holders builds canonical holder tables for tokens that live as a
// native denom, a contract token, or both, and for NFT collections.
package holders

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/observability"
)

// Registry is the subset of the token registry the aggregator needs.
type Registry interface {
	Annotator
	DecimalsOverride(denom string) int32
}

// Service aggregates holder tables from chain state.
type Service struct {
	chain injective.ChainReader
	reg   Registry
}

// NewService creates a holder aggregator.
func NewService(chain injective.ChainReader, reg Registry) *Service {
	return &Service{chain: chain, reg: reg}
}

// Holders returns the merged table of a token. At least one of nativeDenom
// and contract must be set. Any page failure fails the whole table.
func (s *Service) Holders(ctx context.Context, nativeDenom, contract string) (*domain.HolderTable, error) {
	if nativeDenom == "" && contract == "" {
		return nil, fmt.Errorf("holders: need a native denom or a contract: %w", injective.ErrMalformedInput)
	}

	var native, cw map[string]decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	if nativeDenom != "" {
		g.Go(func() error {
			var err error
			native, err = s.NativeBalances(gctx, nativeDenom, injective.NewDecimalsResolver(s.chain))
			return err
		})
	}
	if contract != "" {
		g.Go(func() error {
			var err error
			cw, err = s.ContractBalances(gctx, contract)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := MergeBalances(native, cw, s.reg)
	table.NativeDenom = nativeDenom
	table.ContractDenom = contract
	observability.RecordHolderTable("fungible")
	return table, nil
}

// NativeBalances walks every owner page of denom and returns scaled,
// non-zero balances. Repeated addresses are summed.
func (s *Service) NativeBalances(ctx context.Context, denom string, res *injective.DecimalsResolver) (map[string]decimal.Decimal, error) {
	decimals, err := res.Decimals(ctx, denom, s.reg.DecimalsOverride(denom))
	if err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal)
	fetch := func(ctx context.Context, key string) (*injective.Page[injective.DenomOwner], error) {
		return s.chain.DenomOwners(ctx, denom, key)
	}
	err = injective.CollectPages(ctx, fetch, func(owners []injective.DenomOwner) error {
		for _, o := range owners {
			raw, err := decimal.NewFromString(o.Balance.Amount)
			if err != nil {
				log.Warn().Str("component", "holders").Str("denom", denom).Str("address", o.Address).Err(err).Msg("skipping undecodable balance")
				continue
			}
			if raw.IsZero() {
				continue
			}
			out[o.Address] = out[o.Address].Add(raw.Shift(-decimals))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("native holders of %s: %w", denom, err)
	}
	return out, nil
}

// ContractBalances walks a contract's storage and returns scaled, non-zero
// balances. Non-balance entries are ignored; undecodable entries are skipped.
func (s *Service) ContractBalances(ctx context.Context, contract string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	skipped := 0
	err := injective.CollectPages(ctx, s.statePages(contract), func(entries []injective.StateEntry) error {
		for _, e := range entries {
			addr, amt, ok, err := decodeBalanceEntry(e)
			if err != nil {
				skipped++
				log.Debug().Str("component", "holders").Str("contract", contract).Err(err).Msg("skipping state entry")
				continue
			}
			if !ok || amt.IsZero() {
				continue
			}
			out[addr] = out[addr].Add(amt)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("contract holders of %s: %w", contract, err)
	}
	if skipped > 0 {
		log.Warn().Str("component", "holders").Str("contract", contract).Int("skipped", skipped).Msg("undecodable state entries skipped")
	}
	return out, nil
}

// NFTHolders groups the token records of an NFT contract by owner.
func (s *Service) NFTHolders(ctx context.Context, contract string) (*domain.NFTHolderTable, error) {
	if contract == "" {
		return nil, fmt.Errorf("nft holders: empty contract: %w", injective.ErrMalformedInput)
	}
	counts := make(map[string]int)
	err := injective.CollectPages(ctx, s.statePages(contract), func(entries []injective.StateEntry) error {
		for _, e := range entries {
			owner, ok, err := decodeNFTEntry(e)
			if err != nil {
				log.Debug().Str("component", "holders").Str("contract", contract).Err(err).Msg("skipping state entry")
				continue
			}
			if ok {
				counts[owner]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("nft holders of %s: %w", contract, err)
	}
	observability.RecordHolderTable("nft")
	return RankNFTOwners(contract, counts, s.reg), nil
}

func (s *Service) statePages(contract string) injective.PageFunc[injective.StateEntry] {
	return func(ctx context.Context, key string) (*injective.Page[injective.StateEntry], error) {
		return s.chain.ContractState(ctx, contract, key)
	}
}
