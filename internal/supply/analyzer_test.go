package supply

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injective-token-lab/internal/dex"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/injective/stub"
	"injective-token-lab/internal/registry"
)

const (
	burn    = "inj1burn"
	creator = "inj1creator"
	denomA  = "factory/inj1creator/aaa"
	denomB  = "factory/inj1other/bbb"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Parse([]byte(`{
		"burn_address": "inj1burn",
		"tokens": [
			{"name": "AAA", "native_denom": "factory/inj1creator/aaa", "pool_id": "poolA", "creator_address": "inj1creator", "decimals": 6},
			{"name": "BBB", "native_denom": "factory/inj1other/bbb", "pool_id": "poolB", "creator_address": "inj1other"},
			{"name": "CW", "contract_denom": "inj1cw", "pool_id": "poolC"}
		]
	}`))
	require.NoError(t, err)
	return reg
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newChain() *stub.Chain {
	chain := stub.NewChain()
	chain.BalancesOf[burn] = []injective.Coin{
		{Denom: denomA, Amount: "250000000"},
		{Denom: "inj", Amount: "5"},
	}
	chain.Supplies[denomA] = "1000000000"
	chain.Supplies[denomB] = "3000000000000000000"
	chain.Metadata[denomB] = &injective.DenomMetadata{Decimals: 0}
	chain.Authorities[denomA] = burn
	chain.Authorities[denomB] = "inj1stranger"
	chain.Smart["inj1cw"] = json.RawMessage(`{"total_supply":"2000000000000000000","balance":"500000000000000000"}`)
	return chain
}

func TestAnalyze(t *testing.T) {
	chain := newChain()
	prices := dex.StaticPrices{"poolA": dec("0.10"), "poolC": dec("2")}
	a := NewAnalyzer(chain, prices, newRegistry(t))
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	report, err := a.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Tokens, 3)

	aaa := report.Tokens[0]
	assert.Equal(t, "AAA", aaa.Name)
	assert.True(t, aaa.TotalSupply.Equal(dec("1000")))
	assert.True(t, aaa.BurnSupply.Equal(dec("250")))
	assert.True(t, aaa.CirculatingSupply.Equal(dec("750")))
	require.NotNil(t, aaa.ValueUSD)
	assert.True(t, aaa.ValueUSD.Equal(dec("75")))
	assert.True(t, aaa.BurnEnabled)
	assert.Equal(t, fixed, aaa.Timestamp)

	bbb := report.Tokens[1]
	assert.Equal(t, int32(18), bbb.Decimals, "zero metadata decimals mean 18")
	assert.True(t, bbb.TotalSupply.Equal(dec("3")))
	assert.True(t, bbb.BurnSupply.IsZero())
	assert.Nil(t, bbb.PriceUSD)
	assert.Nil(t, bbb.ValueUSD)
	assert.False(t, bbb.BurnEnabled)

	cw := report.Tokens[2]
	assert.True(t, cw.TotalSupply.Equal(dec("2")))
	assert.True(t, cw.BurnSupply.Equal(dec("0.5")))
	assert.True(t, cw.ValueUSD.Equal(dec("3")))

	for _, r := range report.Tokens {
		assert.True(t, r.CirculatingSupply.Add(r.BurnSupply).Equal(r.TotalSupply), "circulating + burn = total for %s", r.Name)
	}
	assert.True(t, report.TotalValueUSD.Equal(dec("78")))
	assert.Equal(t, 1, chain.Calls("balances:"+burn), "burn balances fetched once")
}

func TestAnalyze_CreatorAdminIsBurnEnabled(t *testing.T) {
	chain := newChain()
	chain.Authorities[denomB] = creator
	report, err := NewAnalyzer(chain, dex.StaticPrices{}, newRegistry(t)).Analyze(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Tokens[1].BurnEnabled)
}

func TestAnalyze_FailureIsFatal(t *testing.T) {
	chain := newChain()
	chain.Errors["supply:"+denomB] = &injective.UpstreamError{Endpoint: "supply", Attempts: 5, Err: errors.New("boom")}

	report, err := NewAnalyzer(chain, dex.StaticPrices{}, newRegistry(t)).Analyze(context.Background())
	assert.Nil(t, report)
	assert.ErrorIs(t, err, injective.ErrUpstreamFatal)
}

func TestAnalyze_BurnBalancesFailure(t *testing.T) {
	chain := newChain()
	chain.Errors["balances:"+burn] = &injective.UpstreamError{Endpoint: "balances", Attempts: 5, Err: errors.New("down")}

	_, err := NewAnalyzer(chain, dex.StaticPrices{}, newRegistry(t)).Analyze(context.Background())
	assert.ErrorIs(t, err, injective.ErrUpstreamFatal)
}
