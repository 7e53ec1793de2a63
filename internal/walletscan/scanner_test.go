package walletscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/injective/stub"
	"injective-token-lab/internal/scamlist"
)

const wallet = "inj1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"

func explorerTx(hash string, block int64, msgType string, logs string) injective.ExplorerTx {
	msgs, _ := json.Marshal([]map[string]string{{"type": msgType}})
	logsJSON, _ := json.Marshal(logs)
	return injective.ExplorerTx{
		Hash:           hash,
		BlockNumber:    json.RawMessage(fmt.Sprint(block)),
		BlockTimestamp: json.RawMessage(fmt.Sprintf(`"2024-0%d-15T00:00:00Z"`, 1+block%3)),
		TxType:         "cosmos",
		Messages:       msgs,
		Logs:           logsJSON,
	}
}

func transferLogs(to string) string {
	return fmt.Sprintf(`[{"msg_index":0,"events":[{"type":"transfer","attributes":[{"key":"recipient","value":"%s"},{"key":"sender","value":"%s"}]}]}]`, to, wallet)
}

func TestScanner_PagesUntilEmptyBatch(t *testing.T) {
	src := stub.NewExplorer()
	for i := 0; i < 7; i++ {
		src.Txs[wallet] = append(src.Txs[wallet], explorerTx(fmt.Sprintf("h%d", i), int64(100-i), "send", "[]"))
	}
	s := NewScanner(src, WithBatchSize(3), WithBatchDelay(0))

	txs, truncated, err := s.Scan(context.Background(), wallet, ScanOptions{})
	require.NoError(t, err)
	assert.False(t, truncated)
	require.Len(t, txs, 7)
	assert.Equal(t, int64(4), src.Calls(), "three full batches then an empty one")
	for i := 1; i < len(txs); i++ {
		assert.LessOrEqual(t, txs[i-1].BlockNumber, txs[i].BlockNumber)
	}
}

func TestScanner_CapTruncates(t *testing.T) {
	src := stub.NewExplorer()
	for i := 0; i < 10; i++ {
		src.Txs[wallet] = append(src.Txs[wallet], explorerTx(fmt.Sprintf("h%d", i), int64(i), "send", "[]"))
	}
	s := NewScanner(src, WithBatchSize(4), WithBatchDelay(0))

	txs, truncated, err := s.Scan(context.Background(), wallet, ScanOptions{MaxTransactions: 5})
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Len(t, txs, 5)
	assert.Equal(t, int64(2), src.Calls())
}

func TestScanner_DeduplicatesByHash(t *testing.T) {
	src := stub.NewExplorer()
	src.Txs[wallet] = []injective.ExplorerTx{
		explorerTx("a", 1, "send", "[]"),
		explorerTx("b", 2, "send", "[]"),
		explorerTx("b", 2, "send", "[]"),
	}
	txs, _, err := NewScanner(src, WithBatchDelay(0)).Scan(context.Background(), wallet, ScanOptions{})
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestScanner_FailureIsFatal(t *testing.T) {
	src := stub.NewExplorer()
	src.Err = &injective.UpstreamError{Endpoint: "explorer_account_txs", Attempts: 3, Err: errors.New("timeout")}
	_, _, err := NewScanner(src, WithBatchDelay(0)).Scan(context.Background(), wallet, ScanOptions{})
	assert.ErrorIs(t, err, injective.ErrUpstreamFatal)
}

func TestAnalyzer_Report(t *testing.T) {
	const scam = "inj1ssssssssssssssssssssssssssssssssssssss"
	src := stub.NewExplorer()
	src.Txs[wallet] = []injective.ExplorerTx{
		explorerTx("t3", 30, "/cosmos.bank.v1beta1.MsgSend", transferLogs(scam)),
		explorerTx("t2", 20, "/cosmos.bank.v1beta1.MsgMultiSend", transferLogs(scam)),
		explorerTx("t1", 10, "/cosmos.bank.v1beta1.MsgSend", transferLogs("inj1friend")),
		explorerTx("t0", 5, "/cosmos.bank.v1beta1.MsgSend", `[{'events': 'legacy'}]`),
	}
	a := NewAnalyzer(NewScanner(src, WithBatchDelay(0)), scamlist.New(scam), dappTable{})

	report, err := a.Analyze(context.Background(), wallet, ScanOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.TransactionCount)
	assert.Equal(t, int64(5), report.BlockRange.From)
	assert.Equal(t, int64(30), report.BlockRange.To)
	require.NotNil(t, report.FirstSeen)
	assert.True(t, !report.FirstSeen.After(*report.LastSeen))
	assert.Equal(t, 4, report.TxTypes["cosmos"])
	assert.Equal(t, "/cosmos.bank.v1beta1.MsgSend", report.TopMessageTypes[0].Name)
	assert.Equal(t, 3, report.TopMessageTypes[0].Count)

	require.Len(t, report.FlaggedTxs, 1)
	assert.Equal(t, "t3", report.FlaggedTxs[0].Hash)
	for _, f := range report.FlaggedTxs {
		assert.False(t, IsMultiSend(f.MsgType))
		assert.NotEmpty(t, ScamAddresses(f))
	}
	// one hit out of four: 10 * min(0.5, 1) = 5, floored at 6
	assert.Equal(t, 6, report.RiskScore)
	assert.Equal(t, scam, report.TopRecipients[0].Name)
	assert.Equal(t, 2, report.TopRecipients[0].Count)
}

func TestAnalyzer_EmptyHistory(t *testing.T) {
	a := NewAnalyzer(NewScanner(stub.NewExplorer(), WithBatchDelay(0)), scamlist.New(), dappTable{})
	report, err := a.Analyze(context.Background(), wallet, ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.TransactionCount)
	assert.Equal(t, 1, report.RiskScore)
	assert.Nil(t, report.FirstSeen)
	assert.NotNil(t, report.FlaggedTxs)
}

func TestAnalyzer_RejectsMalformedAddress(t *testing.T) {
	a := NewAnalyzer(NewScanner(stub.NewExplorer()), scamlist.New(), dappTable{})
	_, err := a.Analyze(context.Background(), "not-an-address", ScanOptions{})
	assert.ErrorIs(t, err, injective.ErrMalformedInput)
}

func TestScanner_BlockWindowsStopAtFirstEmptyWindow(t *testing.T) {
	src := stub.NewExplorer()
	for i, block := range []int64{5, 50, 150, 420} {
		src.Txs[wallet] = append(src.Txs[wallet], explorerTx(fmt.Sprintf("h%d", i), block, "send", "[]"))
	}
	s := NewScanner(src, WithBatchSize(10), WithBatchDelay(0), WithBlockWindow(100))

	txs, truncated, err := s.Scan(context.Background(), wallet, ScanOptions{})
	require.NoError(t, err)
	assert.False(t, truncated)
	require.Len(t, txs, 3, "block 420 lies past the empty 200-299 window")
	assert.Equal(t, []int64{5, 50, 150}, []int64{txs[0].BlockNumber, txs[1].BlockNumber, txs[2].BlockNumber})
	// two requests per non-empty window, one for the empty window
	assert.Equal(t, int64(5), src.Calls())
}

func TestScanner_BlockWindowsHonorFloorAndCeiling(t *testing.T) {
	src := stub.NewExplorer()
	for i, block := range []int64{5, 120, 150, 210, 260} {
		src.Txs[wallet] = append(src.Txs[wallet], explorerTx(fmt.Sprintf("h%d", i), block, "send", "[]"))
	}
	s := NewScanner(src, WithBatchSize(10), WithBatchDelay(0), WithBlockWindow(100))

	txs, _, err := s.Scan(context.Background(), wallet, ScanOptions{FromBlock: 100, ToBlock: 250})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, int64(120), txs[0].BlockNumber)
	assert.Equal(t, int64(210), txs[2].BlockNumber)
}

func TestScanner_BlockWindowsCap(t *testing.T) {
	src := stub.NewExplorer()
	for i := 0; i < 6; i++ {
		src.Txs[wallet] = append(src.Txs[wallet], explorerTx(fmt.Sprintf("h%d", i), int64(10+i), "send", "[]"))
	}
	s := NewScanner(src, WithBatchSize(4), WithBatchDelay(0), WithBlockWindow(100))

	txs, truncated, err := s.Scan(context.Background(), wallet, ScanOptions{MaxTransactions: 4})
	require.NoError(t, err)
	assert.Len(t, txs, 4)
	assert.True(t, truncated)
	assert.Equal(t, int64(1), src.Calls())
}
