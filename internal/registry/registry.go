// Package registry holds the static token descriptor table and the address
// tables derived from it: burn address, creators, pools, NFT escrows,
// the dApp contract names and the WL/OG allow-list.
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"injective-token-lab/internal/domain"
)

//go:embed registry.json
var embedded []byte

// NFTCollection is a tracked non-fungible contract.
type NFTCollection struct {
	Name            string   `json:"name"`
	Contract        string   `json:"contract"`
	EscrowAddresses []string `json:"escrow_addresses"`
}

// Allowlist holds whitelist and OG addresses.
type Allowlist struct {
	WL []string `json:"wl"`
	OG []string `json:"og"`
}

// Registry is the immutable static configuration of tracked assets.
type Registry struct {
	Network        string            `json:"network"`
	BurnAddress    string            `json:"burn_address"`
	PrimaryToken   string            `json:"primary_token"`
	MinHoldings    decimal.Decimal   `json:"min_holdings"`
	Tokens         []domain.Token    `json:"tokens"`
	NFTCollections []NFTCollection   `json:"nft_collections"`
	Dapps          map[string]string `json:"dapps"`
	Allowlist      Allowlist         `json:"allowlist"`

	annotations map[string]domain.Annotation
	wl, og      map[string]struct{}
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Parse(embedded)
}

// Load reads a registry file, or the embedded default when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a registry document.
func Parse(data []byte) (*Registry, error) {
	var r Registry
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if r.BurnAddress == "" {
		return nil, fmt.Errorf("registry: burn_address is required")
	}
	seen := make(map[string]struct{}, len(r.Tokens))
	for i, t := range r.Tokens {
		if t.Name == "" || (t.NativeDenom == "" && t.ContractDenom == "") {
			return nil, fmt.Errorf("registry: token %d needs a name and at least one denom", i)
		}
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate token %q", t.Name)
		}
		seen[t.Name] = struct{}{}
	}
	r.index()
	return &r, nil
}

func (r *Registry) index() {
	r.annotations = make(map[string]domain.Annotation)
	for _, t := range r.Tokens {
		if t.CreatorAddress != "" {
			r.annotations[t.CreatorAddress] = domain.CreatorAnnotation(t.Name)
		}
		if t.PoolAddress != "" {
			r.annotations[t.PoolAddress] = domain.PoolAnnotation(t.Name)
		}
	}
	for _, c := range r.NFTCollections {
		for _, addr := range c.EscrowAddresses {
			r.annotations[addr] = domain.PoolAnnotation(c.Name)
		}
	}
	// burn wins over any other tag
	r.annotations[r.BurnAddress] = domain.AnnotationBurn

	r.wl = lowerSet(r.Allowlist.WL)
	r.og = lowerSet(r.Allowlist.OG)
}

func lowerSet(addrs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		m[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}
	return m
}

// Annotate returns the tag of a well-known address, or AnnotationNone.
func (r *Registry) Annotate(address string) domain.Annotation {
	if a, ok := r.annotations[address]; ok {
		return a
	}
	return domain.AnnotationNone
}

// IsCreator reports whether address is the creator of any tracked token.
func (r *Registry) IsCreator(address string) bool {
	for _, t := range r.Tokens {
		if t.CreatorAddress != "" && t.CreatorAddress == address {
			return true
		}
	}
	return false
}

// Token looks up a descriptor by name (case-insensitive) or by either denom.
func (r *Registry) Token(key string) (domain.Token, bool) {
	for _, t := range r.Tokens {
		if strings.EqualFold(t.Name, key) || t.NativeDenom == key || (t.ContractDenom != "" && t.ContractDenom == key) {
			return t, true
		}
	}
	return domain.Token{}, false
}

// Primary returns the token used for holdings eligibility checks.
func (r *Registry) Primary() (domain.Token, bool) {
	if r.PrimaryToken == "" && len(r.Tokens) > 0 {
		return r.Tokens[0], true
	}
	return r.Token(r.PrimaryToken)
}

// DecimalsOverride returns the descriptor decimals for denom, 0 when unknown.
func (r *Registry) DecimalsOverride(denom string) int32 {
	for _, t := range r.Tokens {
		if t.NativeDenom == denom {
			return t.Decimals
		}
	}
	return 0
}

// ContractTokens returns the descriptors that have a contract side.
func (r *Registry) ContractTokens() []domain.Token {
	var out []domain.Token
	for _, t := range r.Tokens {
		if t.ContractDenom != "" {
			out = append(out, t)
		}
	}
	return out
}

// DappName maps a contract to its dApp name, "" when unknown.
func (r *Registry) DappName(contract string) string {
	return r.Dapps[contract]
}

// AllowlistTier reports WL and OG membership of address, case-insensitively.
func (r *Registry) AllowlistTier(address string) (wl, og bool) {
	key := strings.ToLower(strings.TrimSpace(address))
	_, wl = r.wl[key]
	_, og = r.og[key]
	return wl, og
}
