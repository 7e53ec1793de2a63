package notify

import (
	"context"
	"sync"
)

// Event is one notification captured by Recorder.
type Event struct {
	Kind  Kind
	Embed Embed
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify records the event.
func (r *Recorder) Notify(_ context.Context, kind Kind, embed Embed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: kind, Embed: embed})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

var _ Notifier = (*Recorder)(nil)
