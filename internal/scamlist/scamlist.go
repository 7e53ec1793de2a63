// Package scamlist loads the curated list of scam addresses. The list is
// loaded once and read-only afterwards.
package scamlist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"injective-token-lab/internal/domain"
)

// FileName is the canonical name of the scam list resource.
const FileName = "scam_wallets.json"

//go:embed scam_wallets.json
var embedded []byte

// List is an immutable set of scam addresses.
type List struct {
	entries map[string]domain.ScamEntry
}

// Default returns the list compiled into the binary.
func Default() (*List, error) {
	return Parse(embedded)
}

// Load reads the list from path, or the embedded default when path is empty.
func Load(path string) (*List, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scam list: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON array whose items are either bare address strings or
// objects with address, project and info.
func Parse(data []byte) (*List, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode scam list: %w", err)
	}
	l := &List{entries: make(map[string]domain.ScamEntry, len(raw))}
	for i, item := range raw {
		var e domain.ScamEntry
		if bytes.HasPrefix(bytes.TrimSpace(item), []byte(`"`)) {
			if err := json.Unmarshal(item, &e.Address); err != nil {
				return nil, fmt.Errorf("scam list entry %d: %w", i, err)
			}
		} else if err := json.Unmarshal(item, &e); err != nil {
			return nil, fmt.Errorf("scam list entry %d: %w", i, err)
		}
		if e.Address == "" {
			return nil, fmt.Errorf("scam list entry %d: empty address", i)
		}
		l.entries[e.Address] = e
	}
	return l, nil
}

// New builds a list from bare addresses.
func New(addresses ...string) *List {
	l := &List{entries: make(map[string]domain.ScamEntry, len(addresses))}
	for _, a := range addresses {
		l.entries[a] = domain.ScamEntry{Address: a}
	}
	return l
}

// Contains is an exact, case-sensitive match.
func (l *List) Contains(address string) bool {
	_, ok := l.entries[address]
	return ok
}

// Len returns the number of listed addresses.
func (l *List) Len() int { return len(l.entries) }

// Entries returns every entry sorted by address.
func (l *List) Entries() []domain.ScamEntry {
	out := make([]domain.ScamEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}
