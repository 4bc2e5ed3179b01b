package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingJob struct {
	key   string
	seq   int
	mu    *sync.Mutex
	order *[]int
	block <-chan struct{}
	ctxs  chan<- context.Context
	ran   chan<- string
}

func (j *recordingJob) ShardKey() string { return j.key }

func (j *recordingJob) Run(ctx context.Context) {
	if j.block != nil {
		<-j.block
	}
	if j.ctxs != nil {
		j.ctxs <- ctx
	}
	if j.order != nil {
		j.mu.Lock()
		*j.order = append(*j.order, j.seq)
		j.mu.Unlock()
	}
	if j.ran != nil {
		j.ran <- j.key
	}
}

type panickingJob struct{}

func (panickingJob) ShardKey() string    { return "k" }
func (panickingJob) Run(context.Context) { panic("boom") }

func stopWithin(t *testing.T, d *Dispatcher, timeout time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestDispatcher_SameKeyRunsInOrder(t *testing.T) {
	d := NewDispatcher(4, zerolog.Nop())
	d.Start(context.Background())

	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 50; i++ {
		d.Schedule(&recordingJob{key: "post:1", seq: i, mu: &mu, order: &order})
	}
	stopWithin(t, d, 5*time.Second)

	if len(order) != 50 {
		t.Fatalf("expected 50 jobs, got %d", len(order))
	}
	for i, seq := range order {
		if seq != i {
			t.Fatalf("job %d ran at position %d", seq, i)
		}
	}
}

func TestDispatcher_SlowJobDoesNotDelayOtherKeys(t *testing.T) {
	d := NewDispatcher(0, zerolog.Nop())
	d.Start(context.Background())

	release := make(chan struct{})
	ran := make(chan string, 2)
	d.Schedule(&recordingJob{key: "post:1", block: release, ran: ran})
	d.Schedule(&recordingJob{key: "post:9", ran: ran})

	select {
	case key := <-ran:
		if key != "post:9" {
			t.Fatalf("expected post:9 to finish first, got %s", key)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("post:9 waited behind the running post:1 job")
	}

	close(release)
	stopWithin(t, d, time.Second)
	if key := <-ran; key != "post:1" {
		t.Fatalf("expected post:1 to finish after release, got %s", key)
	}
}

func TestDispatcher_ScheduleNeverBlocks(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(context.Background())

	const jobs = 500
	release := make(chan struct{})
	var (
		mu    sync.Mutex
		order []int
	)

	done := make(chan struct{})
	go func() {
		for i := 0; i < jobs; i++ {
			d.Schedule(&recordingJob{key: "k", seq: i, mu: &mu, order: &order, block: release})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Schedule blocked behind a running job")
	}

	close(release)
	stopWithin(t, d, 5*time.Second)
	if len(order) != jobs {
		t.Fatalf("expected every job to run, got %d", len(order))
	}
	for i, seq := range order {
		if seq != i {
			t.Fatalf("job %d ran at position %d", seq, i)
		}
	}
}

func TestDispatcher_ConcurrencyCap(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(context.Background())

	release := make(chan struct{})
	ran := make(chan string, 2)
	d.Schedule(&recordingJob{key: "a", block: release, ran: ran})
	d.Schedule(&recordingJob{key: "b", ran: ran})

	select {
	case key := <-ran:
		t.Fatalf("%s ran while the only slot was taken", key)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	stopWithin(t, d, time.Second)
	if len(ran) != 2 {
		t.Fatalf("expected both jobs to run, got %d", len(ran))
	}
}

func TestDispatcher_RunsJobsScheduledBeforeStart(t *testing.T) {
	d := NewDispatcher(2, zerolog.Nop())

	var (
		mu    sync.Mutex
		order []int
	)
	d.Schedule(&recordingJob{key: "k", seq: 0, mu: &mu, order: &order})
	d.Schedule(&recordingJob{key: "k", seq: 1, mu: &mu, order: &order})
	d.Start(context.Background())
	stopWithin(t, d, time.Second)

	if len(order) != 2 || order[0] != 0 || order[1] != 1 {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestDispatcher_DrainedChainsAreRemoved(t *testing.T) {
	d := NewDispatcher(4, zerolog.Nop())
	d.Start(context.Background())

	for _, key := range []string{"post:1", "post:2", "user:a@b.c"} {
		d.Schedule(&recordingJob{key: key})
	}
	stopWithin(t, d, time.Second)

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.chains) != 0 {
		t.Fatalf("expected no chains left, got %d", len(d.chains))
	}
}

func TestDispatcher_JobsOutliveStartContext(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	ctxs := make(chan context.Context, 1)
	d.Schedule(&recordingJob{key: "k", ctxs: ctxs})
	stopWithin(t, d, time.Second)

	got := <-ctxs
	if got.Err() != nil {
		t.Fatalf("job context was cancelled: %v", got.Err())
	}
}

func TestDispatcher_PanicDoesNotStopChain(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(context.Background())

	var (
		mu    sync.Mutex
		order []int
	)
	d.Schedule(panickingJob{})
	d.Schedule(&recordingJob{key: "k", seq: 1, mu: &mu, order: &order})
	stopWithin(t, d, time.Second)

	if len(order) != 1 {
		t.Fatalf("job after a panic did not run")
	}
}

func TestDispatcher_ScheduleAfterStopIsDropped(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(context.Background())
	stopWithin(t, d, time.Second)

	var (
		mu    sync.Mutex
		order []int
	)
	d.Schedule(&recordingJob{key: "k", seq: 1, mu: &mu, order: &order})
	if len(order) != 0 {
		t.Fatalf("job ran after Stop")
	}
	// Stop is idempotent.
	stopWithin(t, d, time.Second)
}

func TestDispatcher_StopHonoursDeadline(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(context.Background())

	release := make(chan struct{})
	defer close(release)
	d.Schedule(&recordingJob{key: "k", block: release})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Stop(ctx); err == nil {
		t.Fatalf("expected deadline error while a job is still running")
	}
}
