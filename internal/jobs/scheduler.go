// Package jobs runs the periodic burn watcher and supply snapshot tasks.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/observability"
)

// DefaultJobTimeout bounds one run of a scheduled job.
const DefaultJobTimeout = 2 * time.Minute

// Job is a named unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules. A job never overlaps with itself.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration

	mu      sync.Mutex
	running map[string]bool
	ctx     context.Context
}

// NewScheduler creates a stopped scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		timeout: DefaultJobTimeout,
		running: make(map[string]bool),
		ctx:     context.Background(),
	}
}

// Add registers job under spec, e.g. "@every 5m".
func (s *Scheduler) Add(spec string, job Job) error {
	if err := s.cron.AddFunc(spec, func() { s.RunNow(job) }); err != nil {
		return fmt.Errorf("schedule %s %q: %w", job.Name(), spec, err)
	}
	log.Info().Str("component", "jobs").Str("job", job.Name()).Str("schedule", spec).Msg("job scheduled")
	return nil
}

// Start begins firing schedules. Runs are canceled when ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.cron.Start()
}

// Stop halts the schedule. In-flight runs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunNow executes job once, unless a previous run is still going.
func (s *Scheduler) RunNow(job Job) {
	name := job.Name()

	s.mu.Lock()
	if s.running[name] {
		s.mu.Unlock()
		log.Warn().Str("component", "jobs").Str("job", name).Msg("previous run still active, skipping")
		observability.RecordJobRun(name, "skipped", 0)
		return
	}
	s.running[name] = true
	parent := s.ctx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, name)
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().Str("component", "jobs").Str("job", name).Dur("elapsed", elapsed).Err(err).Msg("job failed")
		observability.RecordJobRun(name, "error", elapsed.Seconds())
		return
	}
	log.Debug().Str("component", "jobs").Str("job", name).Dur("elapsed", elapsed).Msg("job done")
	observability.RecordJobRun(name, "ok", elapsed.Seconds())
}
