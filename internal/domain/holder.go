package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Annotation tags a well-known address in holder tables.
type Annotation string

// Annotation values. Creator and pool annotations carry the token name.
const (
	AnnotationNone Annotation = "none"
	AnnotationBurn Annotation = "burn"

	creatorPrefix = "creator:"
	poolPrefix    = "pool:"
)

// CreatorAnnotation tags the creator address of a token.
func CreatorAnnotation(name string) Annotation { return Annotation(creatorPrefix + name) }

// PoolAnnotation tags a liquidity pool or escrow address.
func PoolAnnotation(name string) Annotation { return Annotation(poolPrefix + name) }

// IsPool reports whether the annotation marks a pool address.
func (a Annotation) IsPool() bool { return strings.HasPrefix(string(a), poolPrefix) }

// IsCreator reports whether the annotation marks a creator address.
func (a Annotation) IsCreator() bool { return strings.HasPrefix(string(a), creatorPrefix) }

// ExcludedFromTopN reports whether holdings at this address are left out of
// top-N concentration metrics (burned supply and market inventory).
func (a Annotation) ExcludedFromTopN() bool {
	return a == AnnotationBurn || a.IsPool()
}

// BalanceRow is one holder balance already scaled by the token decimals.
type BalanceRow struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

// HolderRecord is one row of the merged holder table.
type HolderRecord struct {
	Address        string          `json:"address"`
	NativeAmount   decimal.Decimal `json:"native_amount"`
	ContractAmount decimal.Decimal `json:"contract_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Percentage     float64         `json:"percentage"`
	Rank           int             `json:"rank"`
	Annotation     Annotation      `json:"annotation"`
}

// TopN holds concentration sums computed after excluding burn and pool rows.
type TopN struct {
	Top1  float64 `json:"top1_percentage"`
	Top10 float64 `json:"top10_percentage"`
	Top20 float64 `json:"top20_percentage"`
	Top50 float64 `json:"top50_percentage"`
}

// HolderTable is the canonical holder view of a fungible token.
type HolderTable struct {
	NativeDenom   string          `json:"native_denom,omitempty"`
	ContractDenom string          `json:"contract_denom,omitempty"`
	HolderCount   int             `json:"holder_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TopN          TopN            `json:"top_n"`
	Holders       []HolderRecord  `json:"holders"`
}

// NFTHolderRecord is one owner of a non-fungible collection.
type NFTHolderRecord struct {
	Address    string     `json:"address"`
	Count      int        `json:"count"`
	Percentage float64    `json:"percentage"`
	Rank       int        `json:"rank"`
	Annotation Annotation `json:"annotation"`
}

// NFTHolderTable is the owner view of an NFT contract.
type NFTHolderTable struct {
	Contract    string            `json:"contract"`
	HolderCount int               `json:"holder_count"`
	TokenCount  int               `json:"token_count"`
	TopN        TopN              `json:"top_n"`
	Holders     []NFTHolderRecord `json:"holders"`
}
