package injective

import (
	"context"
	"encoding/json"
)

// Coin is a denom/amount pair with the amount in base units.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// DenomOwner is one native holder returned by the denom owners query.
type DenomOwner struct {
	Address string `json:"address"`
	Balance Coin   `json:"balance"`
}

// StateEntry is one raw key/value model of a contract's storage.
// Both fields are base64 encoded on the wire.
type StateEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DenomUnit is one unit of a denom metadata record.
type DenomUnit struct {
	Denom    string   `json:"denom"`
	Exponent uint32   `json:"exponent"`
	Aliases  []string `json:"aliases"`
}

// DenomMetadata is the bank metadata of a denom.
type DenomMetadata struct {
	Base       string      `json:"base"`
	Display    string      `json:"display"`
	Name       string      `json:"name"`
	Symbol     string      `json:"symbol"`
	Decimals   uint32      `json:"decimals"`
	DenomUnits []DenomUnit `json:"denom_units"`
}

// Exponent returns the metadata decimals, falling back to the largest
// denom unit exponent. Zero means unknown.
func (m *DenomMetadata) Exponent() int32 {
	if m == nil {
		return 0
	}
	if m.Decimals > 0 {
		return int32(m.Decimals)
	}
	var max uint32
	for _, u := range m.DenomUnits {
		if u.Exponent > max {
			max = u.Exponent
		}
	}
	return int32(max)
}

// Account is the subset of auth account data the service uses.
type Account struct {
	Address       string `json:"address"`
	AccountNumber uint64 `json:"account_number"`
	Sequence      uint64 `json:"sequence"`
}

// Page is one page of a paginated query. NextKey is empty on the last page.
type Page[T any] struct {
	Items   []T
	NextKey string
}

// ExplorerTx is one explorer transaction before normalization. Numeric and
// timestamp fields arrive in several encodings and are kept raw.
type ExplorerTx struct {
	Hash           string          `json:"hash"`
	BlockNumber    json.RawMessage `json:"block_number"`
	BlockTimestamp json.RawMessage `json:"block_timestamp"`
	TxType         string          `json:"tx_type"`
	Code           json.RawMessage `json:"code"`
	Messages       json.RawMessage `json:"messages"`
	Logs           json.RawMessage `json:"logs"`
	GasUsed        json.RawMessage `json:"gas_used"`
	GasWanted      json.RawMessage `json:"gas_wanted"`
	GasFee         json.RawMessage `json:"gas_fee"`
	Memo           string          `json:"memo"`
}

// TxQuery selects a batch of an address's transactions.
type TxQuery struct {
	Skip       int
	Limit      int
	StartBlock int64 // 0 = no floor
	EndBlock   int64 // 0 = no ceiling
}

// ChainReader is the chain state surface used by the analyzers.
type ChainReader interface {
	DenomOwners(ctx context.Context, denom, pageKey string) (*Page[DenomOwner], error)
	ContractState(ctx context.Context, contract, pageKey string) (*Page[StateEntry], error)
	Balances(ctx context.Context, address string) ([]Coin, error)
	Supply(ctx context.Context, denom string) (string, error)
	DenomMetadata(ctx context.Context, denom string) (*DenomMetadata, error)
	MintAuthority(ctx context.Context, denom string) (string, error)
	Account(ctx context.Context, address string) (*Account, error)
	SmartQuery(ctx context.Context, contract string, query interface{}, out interface{}) error
}

// TxSource is the explorer surface used by the wallet scanner.
type TxSource interface {
	AccountTxs(ctx context.Context, address string, q TxQuery) ([]ExplorerTx, error)
}
