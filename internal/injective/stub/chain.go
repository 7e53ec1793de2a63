// Package stub provides in-memory gateway implementations for tests.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"injective-token-lab/internal/injective"
)

// Chain implements injective.ChainReader from maps. Pages are served in
// order; the next key of page i is the decimal index i+1.
type Chain struct {
	Owners      map[string][][]injective.DenomOwner
	State       map[string][][]injective.StateEntry
	BalancesOf  map[string][]injective.Coin
	Supplies    map[string]string
	Metadata    map[string]*injective.DenomMetadata
	Authorities map[string]string
	Accounts    map[string]*injective.Account
	Smart       map[string]json.RawMessage

	// Errors injects a failure keyed by "method:arg", e.g. "supply:factory/x/y".
	Errors map[string]error

	mu    sync.Mutex
	calls map[string]int
	total atomic.Int64
}

// NewChain creates an empty stub chain.
func NewChain() *Chain {
	return &Chain{
		Owners:      make(map[string][][]injective.DenomOwner),
		State:       make(map[string][][]injective.StateEntry),
		BalancesOf:  make(map[string][]injective.Coin),
		Supplies:    make(map[string]string),
		Metadata:    make(map[string]*injective.DenomMetadata),
		Authorities: make(map[string]string),
		Accounts:    make(map[string]*injective.Account),
		Smart:       make(map[string]json.RawMessage),
		Errors:      make(map[string]error),
		calls:       make(map[string]int),
	}
}

// Calls returns how many times method:arg was invoked.
func (c *Chain) Calls(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[key]
}

// TotalCalls returns the number of calls across all methods.
func (c *Chain) TotalCalls() int64 { return c.total.Load() }

func (c *Chain) record(key string) error {
	c.total.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[key]++
	return c.Errors[key]
}

func pageAt[T any](pages [][]T, key string) (*injective.Page[T], error) {
	idx := 0
	if key != "" {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("bad page key %q", key)
		}
		idx = n
	}
	if idx >= len(pages) {
		return &injective.Page[T]{}, nil
	}
	p := &injective.Page[T]{Items: pages[idx]}
	if idx+1 < len(pages) {
		p.NextKey = strconv.Itoa(idx + 1)
	}
	return p, nil
}

// DenomOwners serves the configured owner pages of denom.
func (c *Chain) DenomOwners(_ context.Context, denom, pageKey string) (*injective.Page[injective.DenomOwner], error) {
	if err := c.record("denom_owners:" + denom); err != nil {
		return nil, err
	}
	return pageAt(c.Owners[denom], pageKey)
}

// ContractState serves the configured state pages of contract.
func (c *Chain) ContractState(_ context.Context, contract, pageKey string) (*injective.Page[injective.StateEntry], error) {
	if err := c.record("contract_state:" + contract); err != nil {
		return nil, err
	}
	return pageAt(c.State[contract], pageKey)
}

// Balances returns the configured balances of address.
func (c *Chain) Balances(_ context.Context, address string) ([]injective.Coin, error) {
	if err := c.record("balances:" + address); err != nil {
		return nil, err
	}
	return c.BalancesOf[address], nil
}

// Supply returns the configured supply, "0" when unset.
func (c *Chain) Supply(_ context.Context, denom string) (string, error) {
	if err := c.record("supply:" + denom); err != nil {
		return "", err
	}
	if s, ok := c.Supplies[denom]; ok {
		return s, nil
	}
	return "0", nil
}

// DenomMetadata returns the configured metadata or nil.
func (c *Chain) DenomMetadata(_ context.Context, denom string) (*injective.DenomMetadata, error) {
	if err := c.record("denom_metadata:" + denom); err != nil {
		return nil, err
	}
	return c.Metadata[denom], nil
}

// MintAuthority returns the configured admin of denom.
func (c *Chain) MintAuthority(_ context.Context, denom string) (string, error) {
	if err := c.record("authority_metadata:" + denom); err != nil {
		return "", err
	}
	return c.Authorities[denom], nil
}

// Account returns the configured account or injective.ErrNotFound.
func (c *Chain) Account(_ context.Context, address string) (*injective.Account, error) {
	if err := c.record("account:" + address); err != nil {
		return nil, err
	}
	acc, ok := c.Accounts[address]
	if !ok {
		return nil, injective.ErrNotFound
	}
	return acc, nil
}

// SmartQuery decodes the configured response of contract into out.
func (c *Chain) SmartQuery(_ context.Context, contract string, _ interface{}, out interface{}) error {
	if err := c.record("smart_query:" + contract); err != nil {
		return err
	}
	data, ok := c.Smart[contract]
	if !ok {
		return injective.ErrNotFound
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
