package walletscan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"injective-token-lab/internal/injective"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{"iso8601", `"2024-01-02T03:04:05Z"`, want, true},
		{"iso8601 offset", `"2024-01-02T05:04:05+02:00"`, want, true},
		{"go utc suffix", `"2024-01-02 03:04:05 +0000 UTC"`, want, true},
		{"go utc suffix fractional", `"2024-01-02 03:04:05.000 +0000 UTC"`, want, true},
		{"bare utc suffix", `"2024-01-02 03:04:05 UTC"`, want, true},
		{"unix seconds", `1704164645`, want, true},
		{"unix millis", `1704164645000`, want, true},
		{"unix seconds string", `"1704164645"`, want, true},
		{"excel serial", `45293.12783564815`, want, true},
		{"garbage", `"yesterday"`, time.Time{}, false},
		{"null", `null`, time.Time{}, false},
		{"empty", ``, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTimestamp(json.RawMessage(tt.raw))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.WithinDuration(t, tt.want, got, time.Second)
			}
		})
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{`12`, 12, true},
		{`"12"`, 12, true},
		{`12.0`, 12, true},
		{`"1.5e3"`, 1500, true},
		{`"abc"`, 0, false},
		{`null`, 0, false},
		{`"9223372036854775807"`, 9223372036854775807, true},
		{`"9223372036854775808"`, 0, false},
		{`99999999999999999999999`, 0, false},
		{`"1e30"`, 0, false},
		{`"-9223372036854775809.5"`, 0, false},
		{`"NaN"`, 0, false},
	}
	for _, tt := range tests {
		got, ok := flexInt(json.RawMessage(tt.raw))
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestNormalize(t *testing.T) {
	raw := injective.ExplorerTx{
		Hash:           "0xabc",
		BlockNumber:    json.RawMessage(`"42"`),
		BlockTimestamp: json.RawMessage(`"2024-01-02 03:04:05.678 +0000 UTC"`),
		TxType:         "injective",
		Messages:       json.RawMessage(`"[{\"type\":\"/cosmos.bank.v1beta1.MsgSend\",\"value\":{\"amount\":[]}}]"`),
		Logs:           json.RawMessage(`"[]"`),
		GasUsed:        json.RawMessage(`100`),
		GasWanted:      json.RawMessage(`"200"`),
		GasFee:         json.RawMessage(`{"amount":[{"denom":"inj","amount":"64000000000000"}],"gas_limit":200}`),
	}

	tx := Normalize(raw)
	assert.Equal(t, int64(42), tx.BlockNumber)
	assert.Equal(t, 2024, tx.BlockTimestamp.Year())
	assert.Equal(t, int64(100), tx.GasUsed)
	assert.Equal(t, int64(200), tx.GasWanted)
	assert.Equal(t, int64(64000000000000), tx.Fee)
	if assert.Len(t, tx.Messages, 1) {
		assert.Equal(t, "/cosmos.bank.v1beta1.MsgSend", tx.Messages[0].Type)
	}
	assert.Equal(t, "[]", tx.RawLogs)
}

func TestNormalize_Malformed(t *testing.T) {
	tx := Normalize(injective.ExplorerTx{
		Hash:        "0xdef",
		BlockNumber: json.RawMessage(`"n/a"`),
		Messages:    json.RawMessage(`"not json"`),
		GasFee:      json.RawMessage(`{"amount":[]}`),
	})
	assert.Equal(t, int64(0), tx.BlockNumber)
	assert.True(t, tx.BlockTimestamp.IsZero())
	assert.Empty(t, tx.Messages)
	assert.Equal(t, int64(0), tx.Fee)
}
