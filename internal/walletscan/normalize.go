package walletscan

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/injective"
)

// excelEpoch is day zero of spreadsheet serial dates.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Normalize converts an explorer transaction into the canonical form.
// Fields that cannot be coerced are left at their zero value.
func Normalize(raw injective.ExplorerTx) domain.Transaction {
	tx := domain.Transaction{
		Hash:     raw.Hash,
		TxType:   raw.TxType,
		Messages: parseMessages(raw.Messages),
		RawLogs:  unwrapString(raw.Logs),
	}
	tx.BlockNumber, _ = flexInt(raw.BlockNumber)
	tx.BlockTimestamp, _ = parseTimestamp(raw.BlockTimestamp)
	tx.GasUsed, _ = flexInt(raw.GasUsed)
	tx.GasWanted, _ = flexInt(raw.GasWanted)
	tx.Fee = feeAmount(raw.GasFee)
	return tx
}

// parseTimestamp accepts ISO 8601, Go-style "... +0000 UTC" strings, unix
// seconds or milliseconds, and spreadsheet serial days.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	s := unwrapString(raw)
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return time.Time{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromNumber(f)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if trimmed, ok := strings.CutSuffix(s, " UTC"); ok {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(trimmed)); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func fromNumber(f float64) (time.Time, bool) {
	switch {
	case f <= 0 || math.IsNaN(f) || math.IsInf(f, 0):
		return time.Time{}, false
	case f > 1e11:
		return time.UnixMilli(int64(f)).UTC(), true
	case f > 1e9:
		return time.Unix(int64(f), 0).UTC(), true
	default:
		return excelEpoch.Add(time.Duration(f * float64(24*time.Hour))), true
	}
}

// flexInt coerces a JSON number or numeric string to an integer.
func flexInt(raw json.RawMessage) (int64, bool) {
	s := strings.TrimSpace(unwrapString(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	// Values that do not fit int64 are rejected rather than wrapped.
	whole := d.Truncate(0).BigInt()
	if !whole.IsInt64() {
		return 0, false
	}
	return whole.Int64(), true
}

// unwrapString returns the content of a JSON string, or the raw text of any
// other JSON value.
func unwrapString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

type rawMessage struct {
	Type    string          `json:"type"`
	TypeURL string          `json:"@type"`
	Value   json.RawMessage `json:"value"`
}

// parseMessages accepts a message array or a JSON string holding one.
func parseMessages(raw json.RawMessage) []domain.Message {
	text := unwrapString(raw)
	if text == "" || text == "null" {
		return nil
	}
	var msgs []rawMessage
	if err := json.Unmarshal([]byte(text), &msgs); err != nil {
		return nil
	}
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		typ := m.Type
		if typ == "" {
			typ = m.TypeURL
		}
		out = append(out, domain.Message{Type: typ, Value: m.Value})
	}
	return out
}

// feeAmount returns the first fee coin amount, or a bare numeric fee.
func feeAmount(raw json.RawMessage) int64 {
	if n, ok := flexInt(raw); ok {
		return n
	}
	var fee struct {
		Amount []struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"amount"`
	}
	if err := json.Unmarshal([]byte(unwrapString(raw)), &fee); err != nil || len(fee.Amount) == 0 {
		return 0
	}
	n, _ := flexInt(json.RawMessage(strconv.Quote(fee.Amount[0].Amount)))
	return n
}
