package walletscan

import (
	"encoding/json"
	"errors"
	"strings"

	"injective-token-lab/internal/domain"
)

// errOpaqueLogs marks a log payload in a format the parser does not read.
var errOpaqueLogs = errors.New("unrecognized log payload")

type rawLog struct {
	MsgIndex json.RawMessage `json:"msg_index"`
	Events   []rawEvent      `json:"events"`
}

type rawEvent struct {
	Type       string         `json:"type"`
	Attributes []rawAttribute `json:"attributes"`
}

type rawAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseLogs extracts events from a transaction log payload. It accepts a log
// array, a single log object, or a bare event array. Anything else yields no
// events and errOpaqueLogs; callers treat that as best-effort.
func ParseLogs(text string) ([]domain.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "null" || text == "[]" {
		return nil, nil
	}

	var logs []rawLog
	if err := json.Unmarshal([]byte(text), &logs); err == nil && hasEvents(logs) {
		var out []domain.Event
		for _, l := range logs {
			out = append(out, convertEvents(l.Events)...)
		}
		return out, nil
	}

	var single rawLog
	if err := json.Unmarshal([]byte(text), &single); err == nil && len(single.Events) > 0 {
		return convertEvents(single.Events), nil
	}

	var events []rawEvent
	if err := json.Unmarshal([]byte(text), &events); err == nil && len(events) > 0 && events[0].Type != "" {
		return convertEvents(events), nil
	}

	if json.Valid([]byte(text)) {
		return nil, nil
	}
	return nil, errOpaqueLogs
}

func hasEvents(logs []rawLog) bool {
	for _, l := range logs {
		if len(l.Events) > 0 {
			return true
		}
	}
	return false
}

func convertEvents(raw []rawEvent) []domain.Event {
	out := make([]domain.Event, 0, len(raw))
	for _, e := range raw {
		ev := domain.Event{Type: e.Type, Attributes: make([]domain.Attribute, 0, len(e.Attributes))}
		for _, a := range e.Attributes {
			ev.Attributes = append(ev.Attributes, domain.Attribute{Key: a.Key, Value: a.Value})
		}
		out = append(out, ev)
	}
	return out
}
