package injective

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"injective-token-lab/internal/domain"
)

// LCDClient implements ChainReader over the chain REST (LCD) API.
type LCDClient struct {
	t         *transport
	pageLimit int
}

// NewLCDClient creates a chain REST client.
func NewLCDClient(baseURL string, opts ...ClientOption) *LCDClient {
	if baseURL == "" {
		baseURL = DefaultLCDURL
	}
	return &LCDClient{
		t:         newTransport(baseURL, StateReadPolicy, opts),
		pageLimit: DefaultPageLimit,
	}
}

// pagination is the cosmos pagination response.
type pagination struct {
	NextKey *string `json:"next_key"`
	Total   string  `json:"total"`
}

func (p pagination) next() string {
	if p.NextKey == nil {
		return ""
	}
	return *p.NextKey
}

func (c *LCDClient) pageQuery(pageKey string) url.Values {
	q := url.Values{}
	q.Set("pagination.limit", strconv.Itoa(c.pageLimit))
	if pageKey != "" {
		q.Set("pagination.key", pageKey)
	}
	return q
}

type denomOwnersResult struct {
	DenomOwners []DenomOwner `json:"denom_owners"`
	Pagination  pagination   `json:"pagination"`
}

// DenomOwners returns one page of native holders of denom.
func (c *LCDClient) DenomOwners(ctx context.Context, denom, pageKey string) (*Page[DenomOwner], error) {
	if denom == "" {
		return nil, fmt.Errorf("denom owners: empty denom: %w", ErrMalformedInput)
	}
	q := c.pageQuery(pageKey)
	q.Set("denom", denom)

	var result denomOwnersResult
	if err := c.t.get(ctx, "denom_owners", "/cosmos/bank/v1beta1/denom_owners_by_query", q, &result); err != nil {
		return nil, err
	}
	return &Page[DenomOwner]{Items: result.DenomOwners, NextKey: result.Pagination.next()}, nil
}

type contractStateResult struct {
	Models     []StateEntry `json:"models"`
	Pagination pagination   `json:"pagination"`
}

// ContractState returns one page of a contract's raw storage.
func (c *LCDClient) ContractState(ctx context.Context, contract, pageKey string) (*Page[StateEntry], error) {
	if contract == "" {
		return nil, fmt.Errorf("contract state: empty address: %w", ErrMalformedInput)
	}
	path := "/cosmwasm/wasm/v1/contract/" + url.PathEscape(contract) + "/state"

	var result contractStateResult
	if err := c.t.get(ctx, "contract_state", path, c.pageQuery(pageKey), &result); err != nil {
		return nil, err
	}
	return &Page[StateEntry]{Items: result.Models, NextKey: result.Pagination.next()}, nil
}

type balancesResult struct {
	Balances []Coin `json:"balances"`
}

// Balances returns every bank balance of address.
func (c *LCDClient) Balances(ctx context.Context, address string) ([]Coin, error) {
	path := "/cosmos/bank/v1beta1/balances/" + url.PathEscape(address)
	q := url.Values{}
	q.Set("pagination.limit", strconv.Itoa(c.pageLimit))

	var result balancesResult
	if err := c.t.get(ctx, "balances", path, q, &result); err != nil {
		return nil, err
	}
	return result.Balances, nil
}

type supplyResult struct {
	Amount Coin `json:"amount"`
}

// Supply returns the total supply of denom in base units.
func (c *LCDClient) Supply(ctx context.Context, denom string) (string, error) {
	q := url.Values{}
	q.Set("denom", denom)

	var result supplyResult
	if err := c.t.get(ctx, "supply", "/cosmos/bank/v1beta1/supply/by_denom", q, &result); err != nil {
		return "", err
	}
	if result.Amount.Amount == "" {
		return "0", nil
	}
	return result.Amount.Amount, nil
}

type metadataResult struct {
	Metadata *DenomMetadata `json:"metadata"`
}

// DenomMetadata returns bank metadata for denom, or nil when the chain has none.
func (c *LCDClient) DenomMetadata(ctx context.Context, denom string) (*DenomMetadata, error) {
	q := url.Values{}
	q.Set("denom", denom)

	var result metadataResult
	err := c.t.get(ctx, "denom_metadata", "/cosmos/bank/v1beta1/denoms_metadata_by_query_string", q, &result)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result.Metadata, nil
}

type authorityResult struct {
	AuthorityMetadata struct {
		Admin string `json:"admin"`
	} `json:"authority_metadata"`
}

// MintAuthority returns the admin of a tokenfactory denom. Denoms outside the
// tokenfactory namespace have no admin and yield "".
func (c *LCDClient) MintAuthority(ctx context.Context, denom string) (string, error) {
	creator, sub, ok := domain.FactoryDenom(denom)
	if !ok {
		return "", nil
	}
	path := "/injective/tokenfactory/v1beta1/denoms/" + url.PathEscape(creator) + "/" + url.PathEscape(sub) + "/authority_metadata"

	var result authorityResult
	err := c.t.get(ctx, "authority_metadata", path, nil, &result)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return result.AuthorityMetadata.Admin, nil
}

// rawAccount covers both plain and eth-style accounts.
type rawAccount struct {
	Type          string          `json:"@type"`
	Address       string          `json:"address"`
	AccountNumber string          `json:"account_number"`
	Sequence      string          `json:"sequence"`
	BaseAccount   *rawBaseAccount `json:"base_account"`
}

type rawBaseAccount struct {
	Address       string `json:"address"`
	AccountNumber string `json:"account_number"`
	Sequence      string `json:"sequence"`
}

// Account returns the auth account of address. A never-used address yields ErrNotFound.
func (c *LCDClient) Account(ctx context.Context, address string) (*Account, error) {
	path := "/cosmos/auth/v1beta1/accounts/" + url.PathEscape(address)

	var result struct {
		Account rawAccount `json:"account"`
	}
	if err := c.t.get(ctx, "account", path, nil, &result); err != nil {
		return nil, err
	}

	raw := rawBaseAccount{
		Address:       result.Account.Address,
		AccountNumber: result.Account.AccountNumber,
		Sequence:      result.Account.Sequence,
	}
	if result.Account.BaseAccount != nil {
		raw = *result.Account.BaseAccount
	}

	acc := &Account{Address: raw.Address}
	var err error
	if raw.AccountNumber != "" {
		if acc.AccountNumber, err = strconv.ParseUint(raw.AccountNumber, 10, 64); err != nil {
			return nil, fmt.Errorf("account number %q: %w", raw.AccountNumber, ErrDecoding)
		}
	}
	if raw.Sequence != "" {
		if acc.Sequence, err = strconv.ParseUint(raw.Sequence, 10, 64); err != nil {
			return nil, fmt.Errorf("account sequence %q: %w", raw.Sequence, ErrDecoding)
		}
	}
	return acc, nil
}

// SmartQuery runs a read-only contract query and decodes its data into out.
func (c *LCDClient) SmartQuery(ctx context.Context, contract string, query interface{}, out interface{}) error {
	msg, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}
	path := "/cosmwasm/wasm/v1/contract/" + url.PathEscape(contract) + "/smart/" + base64.StdEncoding.EncodeToString(msg)

	var result struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.t.get(ctx, "smart_query", path, nil, &result); err != nil {
		return err
	}
	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("decode smart query result: %w: %w", ErrDecoding, err)
	}
	return nil
}
