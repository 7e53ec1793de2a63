package domain

import (
	"encoding/json"
	"time"
)

// Message is one transaction message with its type discriminator.
type Message struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Attribute is a key/value pair of a log event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is one structured event extracted from transaction logs.
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Transaction is a normalized explorer transaction.
type Transaction struct {
	Hash           string    `json:"hash"`
	BlockNumber    int64     `json:"block_number"`
	BlockTimestamp time.Time `json:"block_timestamp"`
	TxType         string    `json:"tx_type"`
	Messages       []Message `json:"messages"`
	RawLogs        string    `json:"-"`
	GasUsed        int64     `json:"gas_used"`
	GasWanted      int64     `json:"gas_wanted"`
	Fee            int64     `json:"fee"`
}

// EnrichedTransaction adds interaction and risk fields to a Transaction.
type EnrichedTransaction struct {
	Transaction
	MsgType         string   `json:"msg_type"`
	Recipients      []string `json:"recipients"`
	DappContracts   []string `json:"dapp_contracts"`
	DappActions     []string `json:"dapp_actions"`
	DappName        string   `json:"dapp_name"`
	SuspiciousFlags []string `json:"suspicious_flags"`
	RiskScore       int      `json:"risk_score"`
}

// NamedCount is one entry of a ranked histogram.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// BlockRange is the inclusive block span covered by a report.
type BlockRange struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// ScamInteraction describes one flagged transaction.
type ScamInteraction struct {
	TxHash        string    `json:"tx_hash"`
	BlockNumber   int64     `json:"block_number"`
	Timestamp     time.Time `json:"timestamp"`
	MsgType       string    `json:"msg_type"`
	ScamAddresses []string  `json:"scam_addresses"`
}

// WalletReport is the risk and usage report for one address.
type WalletReport struct {
	Address          string                `json:"address"`
	TransactionCount int                   `json:"transaction_count"`
	FirstSeen        *time.Time            `json:"first_seen"`
	LastSeen         *time.Time            `json:"last_seen"`
	BlockRange       BlockRange            `json:"block_range"`
	TxTypes          map[string]int        `json:"tx_types"`
	TopMessageTypes  []NamedCount          `json:"top_message_types"`
	TopDapps         []NamedCount          `json:"top_dapps"`
	TopRecipients    []NamedCount          `json:"top_recipients"`
	MonthlyActivity  []NamedCount          `json:"monthly_activity"`
	FlaggedTxs       []EnrichedTransaction `json:"flagged_transactions"`
	ScamInteractions []ScamInteraction     `json:"scam_interactions"`
	RiskScore        int                   `json:"risk_score"`
	Truncated        bool                  `json:"truncated"`
}
