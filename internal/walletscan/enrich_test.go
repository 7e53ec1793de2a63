package walletscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/scamlist"
)

const (
	me   = "inj1me"
	scam = "inj1scam"
)

type dappTable map[string]string

func (d dappTable) DappName(c string) string { return d[c] }

func transferEvents(recipients ...string) []domain.Event {
	ev := domain.Event{Type: "transfer"}
	for _, r := range recipients {
		ev.Attributes = append(ev.Attributes, domain.Attribute{Key: "recipient", Value: r})
	}
	ev.Attributes = append(ev.Attributes, domain.Attribute{Key: "sender", Value: me})
	return []domain.Event{ev}
}

func txOfType(msgType string) domain.Transaction {
	return domain.Transaction{Hash: "h", TxType: "cosmos", Messages: []domain.Message{{Type: msgType}}}
}

func TestEnrich_MultiSendToScamIsNotFlagged(t *testing.T) {
	scams := scamlist.New(scam)
	et := Enrich(txOfType("/cosmos.bank.v1beta1.MsgMultiSend"), transferEvents("inj1a", scam), me, scams, dappTable{})

	assert.Equal(t, "/cosmos.bank.v1beta1.MsgMultiSend", et.MsgType)
	assert.Contains(t, et.Recipients, scam)
	assert.Empty(t, et.SuspiciousFlags)
	assert.Equal(t, 1, et.RiskScore)
}

func TestEnrich_TransferToScamIsFlagged(t *testing.T) {
	scams := scamlist.New(scam)
	et := Enrich(txOfType("/cosmos.bank.v1beta1.MsgSend"), transferEvents(scam), me, scams, dappTable{})

	assert.Equal(t, []string{scamFlagPrefix + scam}, et.SuspiciousFlags)
	assert.Equal(t, 10, et.RiskScore)
	assert.Equal(t, []string{scam}, ScamAddresses(et))

	report := BuildReport(me, []domain.EnrichedTransaction{et}, false)
	assert.GreaterOrEqual(t, report.RiskScore, 6)
	require.Len(t, report.ScamInteractions, 1)
	assert.Equal(t, []string{scam}, report.ScamInteractions[0].ScamAddresses)
}

func TestEnrich_InteractionFields(t *testing.T) {
	events := []domain.Event{
		{Type: "wasm", Attributes: []domain.Attribute{
			{Key: "_contract_address", Value: "inj1unknown"},
			{Key: "action", Value: "swap"},
			{Key: "_contract_address", Value: "inj1helix"},
			{Key: "action", Value: "swap"},
			{Key: "to", Value: me},
			{Key: "spender", Value: "inj1s"},
			{Key: "amount", Value: "5inj"},
		}},
	}
	et := Enrich(txOfType("/cosmwasm.wasm.v1.MsgExecuteContract"), events, me, scamlist.New(), dappTable{"inj1helix": "Helix"})

	assert.Equal(t, []string{"inj1unknown", "inj1helix", "inj1s"}, et.Recipients, "own address excluded")
	assert.Equal(t, []string{"inj1unknown", "inj1helix"}, et.DappContracts)
	assert.Equal(t, []string{"swap"}, et.DappActions)
	assert.Equal(t, "Helix", et.DappName)
}

func TestEnrich_NoMessagesFallsBackToTxType(t *testing.T) {
	et := Enrich(domain.Transaction{TxType: "ethereum"}, nil, me, scamlist.New(), dappTable{})
	assert.Equal(t, "ethereum", et.MsgType)
	assert.Equal(t, unknownDapp, et.DappName)
}

func TestIsMultiSend(t *testing.T) {
	for _, s := range []string{"/cosmos.bank.v1beta1.MsgMultiSend", "multisend", "wasm/multi_send", "Multi-Send"} {
		assert.True(t, IsMultiSend(s), s)
	}
	for _, s := range []string{"/cosmos.bank.v1beta1.MsgSend", "send", ""} {
		assert.False(t, IsMultiSend(s), s)
	}
}

func TestOverallRisk(t *testing.T) {
	tests := []struct {
		name                string
		hits, total, scores int
		want                int
	}{
		{"no transactions", 0, 0, 0, 1},
		{"clean", 0, 10, 10, 1},
		{"one of a hundred", 1, 100, 109, 6},
		{"one of ten", 1, 10, 19, 6},
		{"three of ten", 3, 10, 37, 6},
		{"four of ten", 4, 10, 46, 8},
		{"half", 5, 10, 55, 10},
		{"all", 3, 3, 30, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverallRisk(tt.hits, tt.total, tt.scores)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, 10)
		})
	}
}
