package walletscan

import (
	"strings"

	"injective-token-lab/internal/domain"
)

const (
	scamFlagPrefix = "scam_recipient:"
	unknownDapp    = "Unknown"
	contractKey    = "_contract_address"
)

// counterpartyKeys are the log attribute keys that name another account.
var counterpartyKeys = map[string]struct{}{
	"recipient": {},
	"receiver":  {},
	"to":        {},
	"from":      {},
	"sender":    {},
	"spender":   {},
	contractKey: {},
}

var multiSendMarkers = []string{"multisend", "multi_send", "multi-send", "/cosmos.bank.v1beta1.msgmultisend"}

// ScamChecker reports scam-list membership.
type ScamChecker interface {
	Contains(address string) bool
}

// DappNamer maps a contract address to a dApp name, "" when unknown.
type DappNamer interface {
	DappName(contract string) string
}

// IsMultiSend reports whether a message type is a multi-send variant.
func IsMultiSend(msgType string) bool {
	lower := strings.ToLower(msgType)
	for _, m := range multiSendMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Enrich derives interaction and risk fields for one transaction of owner.
func Enrich(tx domain.Transaction, events []domain.Event, owner string, scams ScamChecker, dapps DappNamer) domain.EnrichedTransaction {
	et := domain.EnrichedTransaction{
		Transaction:     tx,
		MsgType:         tx.TxType,
		Recipients:      []string{},
		DappContracts:   []string{},
		DappActions:     []string{},
		DappName:        unknownDapp,
		SuspiciousFlags: []string{},
		RiskScore:       1,
	}
	if len(tx.Messages) > 0 && tx.Messages[0].Type != "" {
		et.MsgType = tx.Messages[0].Type
	}

	recipients := newOrderedSet()
	contracts := newOrderedSet()
	actions := newOrderedSet()
	for _, ev := range events {
		for _, attr := range ev.Attributes {
			if attr.Value == "" {
				continue
			}
			if _, ok := counterpartyKeys[attr.Key]; ok && attr.Value != owner {
				recipients.add(attr.Value)
			}
			switch attr.Key {
			case contractKey:
				contracts.add(attr.Value)
			case "action":
				actions.add(attr.Value)
			}
		}
	}
	et.Recipients = recipients.items
	et.DappContracts = contracts.items
	et.DappActions = actions.items

	for _, c := range et.DappContracts {
		if name := dapps.DappName(c); name != "" {
			et.DappName = name
			break
		}
	}

	if IsMultiSend(et.MsgType) {
		return et
	}
	for _, r := range et.Recipients {
		if scams.Contains(r) {
			et.SuspiciousFlags = append(et.SuspiciousFlags, scamFlagPrefix+r)
		}
	}
	if len(et.SuspiciousFlags) > 0 {
		et.RiskScore = 10
	}
	return et
}

// ScamAddresses returns the scam-listed recipients behind a flagged transaction.
func ScamAddresses(et domain.EnrichedTransaction) []string {
	out := make([]string, 0, len(et.SuspiciousFlags))
	for _, f := range et.SuspiciousFlags {
		if addr, ok := strings.CutPrefix(f, scamFlagPrefix); ok {
			out = append(out, addr)
		}
	}
	return out
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
