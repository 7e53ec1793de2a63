package holders

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
)

// balancePrefixLen is the length of the namespace prefix of balance keys:
// a two-byte length followed by "balance".
const balancePrefixLen = 9

// decodeBalanceEntry extracts (address, scaled amount) from a contract
// storage entry. ok is false for entries that are not balances. A non-nil
// error marks an undecodable entry that should be logged and skipped.
func decodeBalanceEntry(e injective.StateEntry) (addr string, amount decimal.Decimal, ok bool, err error) {
	value, err := base64.StdEncoding.DecodeString(e.Value)
	if err != nil {
		return "", decimal.Zero, false, fmt.Errorf("value: %w", err)
	}
	digits := strings.Trim(strings.TrimSpace(string(value)), `"`)
	if !isDigits(digits) {
		return "", decimal.Zero, false, nil
	}

	key, err := base64.StdEncoding.DecodeString(e.Key)
	if err != nil {
		return "", decimal.Zero, false, fmt.Errorf("key: %w", err)
	}
	if len(key) <= balancePrefixLen {
		return "", decimal.Zero, false, fmt.Errorf("key too short (%d bytes)", len(key))
	}

	raw, err := decimal.NewFromString(digits)
	if err != nil {
		return "", decimal.Zero, false, fmt.Errorf("amount: %w", err)
	}
	return string(key[balancePrefixLen:]), raw.Shift(-domain.ContractDecimals), true, nil
}

// nftToken is the subset of a cw721 token record the aggregator reads.
type nftToken struct {
	Owner   string `json:"owner"`
	TokenID string `json:"token_id"`
}

// decodeNFTEntry extracts the owner of a token record. ok is false for
// entries that are not token records.
func decodeNFTEntry(e injective.StateEntry) (owner string, ok bool, err error) {
	value, err := base64.StdEncoding.DecodeString(e.Value)
	if err != nil {
		return "", false, fmt.Errorf("value: %w", err)
	}
	trimmed := strings.TrimSpace(string(value))
	if !strings.HasPrefix(trimmed, "{") {
		return "", false, nil
	}
	var tok nftToken
	if err := json.Unmarshal([]byte(trimmed), &tok); err != nil {
		return "", false, fmt.Errorf("token record: %w", err)
	}
	if tok.Owner == "" {
		return "", false, nil
	}
	return tok.Owner, true, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
