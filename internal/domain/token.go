package domain

import "strings"

// DefaultDecimals is used when neither the registry nor chain metadata
// supplies a usable exponent. Zero-valued on-chain decimals also map here.
const DefaultDecimals int32 = 18

// ContractDecimals is the fixed exponent of contract-token balances.
const ContractDecimals int32 = 18

// Token describes one tracked token. Immutable after registry load.
type Token struct {
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	NativeDenom    string `json:"native_denom"`
	ContractDenom  string `json:"contract_denom,omitempty"`
	PoolID         string `json:"pool_id"`
	PoolAddress    string `json:"pool_address,omitempty"`
	CreatorAddress string `json:"creator_address"`
	Decimals       int32  `json:"decimals,omitempty"` // 0 = resolve from chain metadata
}

// ResolveDecimals picks the exponent for a denom: a registry override wins,
// then on-chain metadata, then DefaultDecimals.
func ResolveDecimals(override, onChain int32) int32 {
	if override > 0 {
		return override
	}
	if onChain > 0 {
		return onChain
	}
	return DefaultDecimals
}

// FactoryDenom splits a tokenfactory denom ("factory/<creator>/<subdenom>").
func FactoryDenom(denom string) (creator, subdenom string, ok bool) {
	parts := strings.SplitN(denom, "/", 3)
	if len(parts) != 3 || parts[0] != "factory" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
