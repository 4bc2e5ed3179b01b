package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/internal/core/ports"
	"github.com/virtual-artifact/social-api/internal/pkg/metrics"
)

const defaultMaxConcurrent = 64

// keyChain holds the jobs waiting behind the one currently running for a
// shard key.
type keyChain struct {
	pending []ports.BackgroundJob
}

// Dispatcher runs background jobs. Jobs sharing a shard key run one after
// another in scheduling order; jobs with different keys run independently,
// each chain on its own goroutine. At most maxConcurrent jobs run at once.
type Dispatcher struct {
	log   zerolog.Logger
	slots chan struct{}

	mu      sync.Mutex
	chains  map[string]*keyChain
	jobCtx  context.Context
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher running at most maxConcurrent jobs at a
// time. If maxConcurrent <= 0, defaultMaxConcurrent is used.
func NewDispatcher(maxConcurrent int, log zerolog.Logger) *Dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Dispatcher{
		log:    log,
		slots:  make(chan struct{}, maxConcurrent),
		chains: make(map[string]*keyChain),
		jobCtx: context.Background(),
	}
}

// Start begins running jobs, including any scheduled before it. Jobs
// receive ctx's values but not its cancellation: a job that has started
// always runs to completion.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	d.jobCtx = context.WithoutCancel(ctx)

	for key, chain := range d.chains {
		d.launch(key, chain)
	}
}

// Schedule queues job behind earlier jobs with the same shard key and
// returns immediately.
func (d *Dispatcher) Schedule(job ports.BackgroundJob) {
	key := job.ShardKey()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		d.log.Warn().Str("shard_key", key).Msg("dispatcher stopped, job dropped")
		return
	}

	metrics.JobsPending.Inc()
	if chain, ok := d.chains[key]; ok {
		chain.pending = append(chain.pending, job)
		return
	}

	chain := &keyChain{pending: []ports.BackgroundJob{job}}
	d.chains[key] = chain
	if d.started {
		d.launch(key, chain)
	}
}

// Stop refuses new jobs and waits until every queued job has run or ctx is
// done, whichever comes first.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// launch starts the goroutine draining chain. d.mu must be held.
func (d *Dispatcher) launch(key string, chain *keyChain) {
	d.wg.Add(1)
	go d.drain(key, chain)
}

// drain runs the chain's jobs in order and removes the chain once it is
// empty, so the next job for key starts a fresh one.
func (d *Dispatcher) drain(key string, chain *keyChain) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		if len(chain.pending) == 0 {
			delete(d.chains, key)
			d.mu.Unlock()
			return
		}
		job := chain.pending[0]
		chain.pending[0] = nil
		chain.pending = chain.pending[1:]
		ctx := d.jobCtx
		d.mu.Unlock()

		metrics.JobsPending.Dec()
		d.slots <- struct{}{}
		metrics.JobsRunning.Inc()
		d.runJob(ctx, key, job)
		metrics.JobsRunning.Dec()
		<-d.slots
	}
}

// runJob isolates the chain from a panicking job.
func (d *Dispatcher) runJob(ctx context.Context, key string, job ports.BackgroundJob) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("shard_key", key).
				Msg("background job panicked")
		}
	}()
	job.Run(ctx)
}
