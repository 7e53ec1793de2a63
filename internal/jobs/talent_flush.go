package jobs

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Flusher is a store that can hold unsaved changes.
type Flusher interface {
	Dirty() bool
	Flush() error
}

// TalentFlush retries writing talent changes that a failed write left in memory.
type TalentFlush struct {
	store Flusher
}

// NewTalentFlush creates the retry job.
func NewTalentFlush(store Flusher) *TalentFlush {
	return &TalentFlush{store: store}
}

// Name implements Job.
func (j *TalentFlush) Name() string { return "talent_flush" }

// Run writes the store when it has unsaved changes.
func (j *TalentFlush) Run(_ context.Context) error {
	if !j.store.Dirty() {
		return nil
	}
	if err := j.store.Flush(); err != nil {
		return err
	}
	log.Info().Str("component", "jobs").Msg("pending talent changes written")
	return nil
}
