// Package dex implements a price lookup against the DexScreener pairs API,
// keyed by liquidity-pool address.
package dex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the DexScreener pairs endpoint for Injective.
const DefaultBaseURL = "https://api.dexscreener.com/latest/dex/pairs/injective"

// PriceSource resolves a USD price for a pool. ok is false when the price is unknown.
type PriceSource interface {
	PriceByPool(ctx context.Context, poolID string) (price decimal.Decimal, ok bool)
}

// Client is a DexScreener pairs client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a price client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type pairsResponse struct {
	Pair  *pair  `json:"pair"`
	Pairs []pair `json:"pairs"`
}

type pair struct {
	PairAddress string `json:"pairAddress"`
	PriceUSD    string `json:"priceUsd"`
	Liquidity   struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
}

// PriceByPool returns the USD price of the pool's base token. Any failure,
// including an empty pool id, yields the unknown sentinel.
func (c *Client) PriceByPool(ctx context.Context, poolID string) (decimal.Decimal, bool) {
	if poolID == "" {
		return decimal.Zero, false
	}
	price, err := c.fetch(ctx, poolID)
	if err != nil {
		log.Warn().Str("component", "dex").Str("pool", poolID).Err(err).Msg("price unavailable")
		return decimal.Zero, false
	}
	return price, true
}

func (c *Client) fetch(ctx context.Context, poolID string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(poolID), nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result pairsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return decimal.Zero, err
	}

	p := result.Pair
	if p == nil {
		// most liquid pair wins when several are returned
		for i := range result.Pairs {
			if p == nil || result.Pairs[i].Liquidity.USD > p.Liquidity.USD {
				p = &result.Pairs[i]
			}
		}
	}
	if p == nil || p.PriceUSD == "" {
		return decimal.Zero, fmt.Errorf("no pairs found")
	}
	return decimal.NewFromString(p.PriceUSD)
}

// StaticPrices is a fixed pool to price table.
type StaticPrices map[string]decimal.Decimal

// PriceByPool looks up poolID in the table.
func (s StaticPrices) PriceByPool(_ context.Context, poolID string) (decimal.Decimal, bool) {
	p, ok := s[poolID]
	return p, ok
}
