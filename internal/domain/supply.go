package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyRecord is the supply breakdown of one tracked token.
// CirculatingSupply + BurnSupply == TotalSupply exactly.
type SupplyRecord struct {
	Name              string           `json:"name"`
	Denom             string           `json:"denom"`
	Decimals          int32            `json:"decimals"`
	TotalSupply       decimal.Decimal  `json:"total_supply"`
	BurnSupply        decimal.Decimal  `json:"burn_supply"`
	CirculatingSupply decimal.Decimal  `json:"circulating_supply"`
	PriceUSD          *decimal.Decimal `json:"price_usd"`
	ValueUSD          *decimal.Decimal `json:"value_usd"`
	BurnEnabled       bool             `json:"burn_enabled"`
	PoolID            string           `json:"pool_id"`
	Timestamp         time.Time        `json:"timestamp"`
}

// SupplyReport is the combined result for the tracked token set.
type SupplyReport struct {
	Tokens        []SupplyRecord  `json:"tokens"`
	TotalValueUSD decimal.Decimal `json:"total_value_usd"`
	Timestamp     time.Time       `json:"timestamp"`
}
