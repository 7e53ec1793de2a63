package domain

import "github.com/shopspring/decimal"

// WalletBalance is one bank balance scaled by its resolved decimals.
type WalletBalance struct {
	Denom    string          `json:"denom"`
	Token    string          `json:"token,omitempty"`
	Decimals int32           `json:"decimals"`
	Amount   decimal.Decimal `json:"amount"`
}

// WalletInfo summarizes an address's bank and auth state.
// Found is false when the chain has no account for the address.
type WalletInfo struct {
	Address       string          `json:"address"`
	Found         bool            `json:"found"`
	AccountNumber uint64          `json:"account_number"`
	Nonce         uint64          `json:"nonce"`
	HoldingsCount int             `json:"holdings_count"`
	Balances      []WalletBalance `json:"balances"`
}

// ContractBalance is an address's balance in one contract token.
type ContractBalance struct {
	Token    string          `json:"token"`
	Contract string          `json:"contract"`
	Amount   decimal.Decimal `json:"amount"`
}

// ContractBalances lists an address's non-zero contract-token balances.
type ContractBalances struct {
	Address  string            `json:"address"`
	Balances []ContractBalance `json:"balances"`
}

// Eligibility compares an address's primary-token holdings to the threshold.
type Eligibility struct {
	Address  string          `json:"address"`
	Token    string          `json:"token"`
	Native   decimal.Decimal `json:"native_amount"`
	Contract decimal.Decimal `json:"contract_amount"`
	Total    decimal.Decimal `json:"total_amount"`
	Required decimal.Decimal `json:"required_amount"`
	Eligible bool            `json:"eligible"`
}

// AllowlistStatus reports WL and OG membership.
type AllowlistStatus struct {
	Address string `json:"address"`
	WL      bool   `json:"wl"`
	OG      bool   `json:"og"`
}
