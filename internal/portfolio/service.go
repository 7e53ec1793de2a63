// Package portfolio answers per-wallet balance, eligibility and allow-list queries.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/registry"
)

// Service reads wallet state through the chain gateway.
type Service struct {
	chain injective.ChainReader
	reg   *registry.Registry
}

// NewService creates a portfolio service.
func NewService(chain injective.ChainReader, reg *registry.Registry) *Service {
	return &Service{chain: chain, reg: reg}
}

func validate(address string) error {
	if !domain.ValidAddress(address) {
		return fmt.Errorf("address %q: %w", address, injective.ErrMalformedInput)
	}
	return nil
}

// WalletInfo returns scaled bank balances and the account nonce of address.
// An address unknown to the auth module is reported with Found=false.
func (s *Service) WalletInfo(ctx context.Context, address string) (*domain.WalletInfo, error) {
	if err := validate(address); err != nil {
		return nil, err
	}

	var (
		coins []injective.Coin
		acc   *injective.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		coins, err = s.chain.Balances(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		acc, err = s.chain.Account(gctx, address)
		if errors.Is(err, injective.ErrNotFound) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	info := &domain.WalletInfo{Address: address, Balances: []domain.WalletBalance{}}
	if acc != nil {
		info.Found = true
		info.AccountNumber = acc.AccountNumber
		info.Nonce = acc.Sequence
	}

	res := injective.NewDecimalsResolver(s.chain)
	for _, c := range coins {
		raw, err := decimal.NewFromString(c.Amount)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", c.Denom, injective.ErrDecoding)
		}
		if raw.IsZero() {
			continue
		}
		exp, err := res.Decimals(ctx, c.Denom, s.reg.DecimalsOverride(c.Denom))
		if err != nil {
			return nil, err
		}
		b := domain.WalletBalance{Denom: c.Denom, Decimals: exp, Amount: raw.Shift(-exp)}
		if tok, ok := s.reg.Token(c.Denom); ok {
			b.Token = tok.Name
		}
		info.Balances = append(info.Balances, b)
	}
	sort.Slice(info.Balances, func(i, j int) bool {
		return info.Balances[i].Denom < info.Balances[j].Denom
	})
	info.HoldingsCount = len(info.Balances)
	return info, nil
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

func (s *Service) contractBalance(ctx context.Context, contract, address string) (decimal.Decimal, error) {
	var resp balanceResponse
	query := map[string]any{"balance": map[string]string{"address": address}}
	if err := s.chain.SmartQuery(ctx, contract, query, &resp); err != nil {
		return decimal.Zero, err
	}
	if resp.Balance == "" {
		return decimal.Zero, nil
	}
	raw, err := decimal.NewFromString(resp.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("contract balance %q: %w", resp.Balance, injective.ErrDecoding)
	}
	return raw.Shift(-domain.ContractDecimals), nil
}

// ContractBalances queries every tracked contract token for address.
// Zero balances are omitted; any failed query fails the whole result.
func (s *Service) ContractBalances(ctx context.Context, address string) (*domain.ContractBalances, error) {
	if err := validate(address); err != nil {
		return nil, err
	}

	tokens := s.reg.ContractTokens()
	amounts := make([]decimal.Decimal, len(tokens))

	g, gctx := errgroup.WithContext(ctx)
	for i, tok := range tokens {
		g.Go(func() error {
			amt, err := s.contractBalance(gctx, tok.ContractDenom, address)
			if err != nil {
				return fmt.Errorf("%s balance: %w", tok.Name, err)
			}
			amounts[i] = amt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &domain.ContractBalances{Address: address, Balances: []domain.ContractBalance{}}
	for i, tok := range tokens {
		if amounts[i].IsZero() {
			continue
		}
		out.Balances = append(out.Balances, domain.ContractBalance{
			Token: tok.Name, Contract: tok.ContractDenom, Amount: amounts[i],
		})
	}
	return out, nil
}

// Eligibility sums the native and contract balances of the primary token
// and compares them against the registry threshold.
func (s *Service) Eligibility(ctx context.Context, address string) (*domain.Eligibility, error) {
	if err := validate(address); err != nil {
		return nil, err
	}
	tok, ok := s.reg.Primary()
	if !ok {
		return nil, fmt.Errorf("no primary token configured")
	}

	native, contract := decimal.Zero, decimal.Zero
	g, gctx := errgroup.WithContext(ctx)
	if tok.NativeDenom != "" {
		g.Go(func() error {
			coins, err := s.chain.Balances(gctx, address)
			if err != nil {
				return err
			}
			raw := decimal.Zero
			for _, c := range coins {
				if c.Denom != tok.NativeDenom {
					continue
				}
				amt, err := decimal.NewFromString(c.Amount)
				if err != nil {
					return fmt.Errorf("balance of %s: %w", c.Denom, injective.ErrDecoding)
				}
				raw = raw.Add(amt)
			}
			exp, err := injective.NewDecimalsResolver(s.chain).Decimals(gctx, tok.NativeDenom, tok.Decimals)
			if err != nil {
				return err
			}
			native = raw.Shift(-exp)
			return nil
		})
	}
	if tok.ContractDenom != "" {
		g.Go(func() error {
			var err error
			contract, err = s.contractBalance(gctx, tok.ContractDenom, address)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := native.Add(contract)
	return &domain.Eligibility{
		Address:  address,
		Token:    tok.Name,
		Native:   native,
		Contract: contract,
		Total:    total,
		Required: s.reg.MinHoldings,
		Eligible: total.GreaterThanOrEqual(s.reg.MinHoldings),
	}, nil
}

// Allowlist reports WL and OG membership of address.
func (s *Service) Allowlist(address string) (*domain.AllowlistStatus, error) {
	if address == "" {
		return nil, fmt.Errorf("empty address: %w", injective.ErrMalformedInput)
	}
	wl, og := s.reg.AllowlistTier(address)
	return &domain.AllowlistStatus{Address: address, WL: wl, OG: og}, nil
}
