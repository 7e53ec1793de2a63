package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/notify"
	"injective-token-lab/internal/storage/memory"
)

type burnSeq struct {
	mu    sync.Mutex
	steps []map[string]decimal.Decimal
	err   error
}

func (b *burnSeq) BurnBalances(context.Context) (map[string]decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	next := b.steps[0]
	if len(b.steps) > 1 {
		b.steps = b.steps[1:]
	}
	return next, nil
}

func units(n int64, exp int32) decimal.Decimal {
	return decimal.NewFromInt(n).Shift(exp)
}

func TestBurnWatcher_PrimesThenNotifies(t *testing.T) {
	tokens := []domain.Token{
		{Name: "PEDRO", NativeDenom: "factory/c/pedro", Decimals: 18},
		{Name: "FFI", NativeDenom: "factory/c/ffi", Decimals: 6},
		{Name: "CW", ContractDenom: "inj1contract"},
	}
	src := &burnSeq{steps: []map[string]decimal.Decimal{
		{"factory/c/pedro": units(100, 18), "factory/c/ffi": units(5, 6)},
		{"factory/c/pedro": units(150, 18), "factory/c/ffi": units(5, 6)},
		{"factory/c/pedro": units(150, 18), "factory/c/ffi": units(7, 6)},
	}}
	rec := &notify.Recorder{}
	w := NewBurnWatcher(src, tokens, rec)
	ctx := context.Background()

	require.NoError(t, w.Run(ctx))
	assert.Empty(t, rec.Events(), "first run only primes")

	require.NoError(t, w.Run(ctx))
	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.KindBurn, events[0].Kind)
	assert.Equal(t, "PEDRO burned", events[0].Embed.Title)
	assert.Equal(t, "50", events[0].Embed.Fields[0].Value)
	assert.Equal(t, "150", events[0].Embed.Fields[1].Value)

	require.NoError(t, w.Run(ctx))
	events = rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "FFI burned", events[1].Embed.Title)
	assert.Equal(t, "2", events[1].Embed.Fields[0].Value)
}

func TestBurnWatcher_ErrorKeepsBaseline(t *testing.T) {
	src := &burnSeq{err: errors.New("upstream down")}
	w := NewBurnWatcher(src, []domain.Token{{Name: "PEDRO", NativeDenom: "p"}}, &notify.Recorder{})
	assert.Error(t, w.Run(context.Background()))
	assert.False(t, w.primed)
}

type fixedSupply struct {
	report *domain.SupplyReport
	err    error
}

func (f fixedSupply) Analyze(context.Context) (*domain.SupplyReport, error) { return f.report, f.err }

func TestSupplySnapshot_Stores(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	report := &domain.SupplyReport{Timestamp: ts, Tokens: []domain.SupplyRecord{
		{Name: "PEDRO", Denom: "p", TotalSupply: decimal.NewFromInt(1000), Timestamp: ts},
		{Name: "SAI", Denom: "s", TotalSupply: decimal.NewFromInt(10), Timestamp: ts},
	}}
	store := memory.NewSupplySnapshotStore()
	job := NewSupplySnapshot(fixedSupply{report: report}, store)

	require.NoError(t, job.Run(context.Background()))

	got, err := store.History(context.Background(), "p", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].TotalSupply.Equal(decimal.NewFromInt(1000)))

	failing := NewSupplySnapshot(fixedSupply{err: errors.New("boom")}, store)
	assert.Error(t, failing.Run(context.Background()))
}

type blockingJob struct {
	started chan struct{}
	release chan struct{}
	runs    int
	mu      sync.Mutex
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Run(ctx context.Context) error {
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	j.started <- struct{}{}
	<-j.release
	return nil
}

func TestScheduler_NoOverlap(t *testing.T) {
	s := NewScheduler()
	job := &blockingJob{started: make(chan struct{}, 1), release: make(chan struct{})}

	done := make(chan struct{})
	go func() {
		s.RunNow(job)
		close(done)
	}()
	<-job.started

	s.RunNow(job) // skipped while the first run is active
	close(job.release)
	<-done

	assert.Equal(t, 1, job.runs)
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler()
	err := s.Add("not a schedule", &blockingJob{})
	assert.Error(t, err)
	assert.NoError(t, s.Add("@every 1h", &blockingJob{}))
}

type fakeFlusher struct {
	dirty   bool
	err     error
	flushes int
}

func (f *fakeFlusher) Dirty() bool { return f.dirty }

func (f *fakeFlusher) Flush() error {
	f.flushes++
	if f.err != nil {
		return f.err
	}
	f.dirty = false
	return nil
}

func TestTalentFlush(t *testing.T) {
	ctx := context.Background()
	store := &fakeFlusher{}
	job := NewTalentFlush(store)

	require.NoError(t, job.Run(ctx))
	assert.Equal(t, 0, store.flushes, "clean store is not written")

	store.dirty = true
	store.err = errors.New("read-only file system")
	assert.Error(t, job.Run(ctx))
	assert.True(t, store.Dirty())

	store.err = nil
	require.NoError(t, job.Run(ctx))
	assert.False(t, store.Dirty())
	assert.Equal(t, 2, store.flushes)
}
