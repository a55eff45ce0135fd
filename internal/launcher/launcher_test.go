package launcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/logger"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
)

// blockingProcessor holds every run until release is closed and tracks the
// highest number of concurrent runs.
type blockingProcessor struct {
	store   store.Store
	release chan struct{}
	started chan job.Spec

	running atomic.Int32
	peak    atomic.Int32
}

func newBlockingProcessor(st store.Store) *blockingProcessor {
	return &blockingProcessor{store: st, release: make(chan struct{}), started: make(chan job.Spec, 16)}
}

func (p *blockingProcessor) Process(ctx context.Context, spec job.Spec) job.Record {
	n := p.running.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	p.started <- spec
	<-p.release
	p.running.Add(-1)

	rec := job.Completed(job.Result{Transcript: spec.Subject})
	p.store.Put(ctx, spec.Owner, spec.ID, rec)
	return rec
}

func sequentialClock() func() time.Time {
	var mu sync.Mutex
	t := time.UnixMilli(1700000000000)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}

func TestSubmitWritesProcessingFirst(t *testing.T) {
	st := store.NewMemory()
	proc := newBlockingProcessor(st)
	l := New(proc, st, logger.Nop(), Options{Now: sequentialClock()})

	ctx, cancel := context.WithCancel(context.Background())
	h, err := l.Submit(ctx, Request{APIKey: "key", Subject: "Storia"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	// the request context ending must not affect the job
	cancel()

	if h.ID != "lesson_1700000000001" || h.Owner != job.OwnerFromKey("key") {
		t.Errorf("handle = %+v", h)
	}
	rec, err := st.Get(context.Background(), h.Owner, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != job.StatusProcessing {
		t.Errorf("status right after Submit = %s, want processing", rec.Status)
	}

	spec := <-proc.started
	if spec.APIKey != "key" || spec.Subject != "Storia" {
		t.Errorf("spec = %+v", spec)
	}

	close(proc.release)
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish")
	}

	rec, _ = st.Get(context.Background(), h.Owner, h.ID)
	if rec.Status != job.StatusCompleted {
		t.Errorf("final status = %s, want completed", rec.Status)
	}
}

func TestSubmitRespectsConcurrencyCap(t *testing.T) {
	st := store.NewMemory()
	proc := newBlockingProcessor(st)
	l := New(proc, st, logger.Nop(), Options{MaxConcurrent: 1, Now: sequentialClock()})

	var handles []*Handle
	for i := 0; i < 3; i++ {
		h, err := l.Submit(context.Background(), Request{APIKey: "key"})
		if err != nil {
			t.Fatal(err)
		}
		handles = append(handles, h)
	}

	<-proc.started
	select {
	case <-proc.started:
		t.Fatal("second job started while the first holds the only slot")
	case <-time.After(50 * time.Millisecond):
	}

	for _, h := range handles {
		rec, _ := st.Get(context.Background(), h.Owner, h.ID)
		if rec.Status != job.StatusProcessing {
			t.Errorf("queued job %s status = %s, want processing", h.ID, rec.Status)
		}
	}

	close(proc.release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if peak := proc.peak.Load(); peak != 1 {
		t.Errorf("peak concurrency = %d, want 1", peak)
	}
}

func TestSubmitIDCollision(t *testing.T) {
	st := store.NewMemory()
	proc := newBlockingProcessor(st)
	close(proc.release)

	fixed := time.UnixMilli(1700000000000)
	l := New(proc, st, logger.Nop(), Options{Now: func() time.Time { return fixed }})

	if _, err := l.Submit(context.Background(), Request{APIKey: "key"}); err != nil {
		t.Fatal(err)
	}
	_, err := l.Submit(context.Background(), Request{APIKey: "key"})
	if !errors.Is(err, store.ErrExists) {
		t.Fatalf("second Submit() error = %v, want ErrExists", err)
	}
	l.Wait(context.Background())
}

func TestWaitHonoursContext(t *testing.T) {
	st := store.NewMemory()
	proc := newBlockingProcessor(st)
	l := New(proc, st, logger.Nop(), Options{Now: sequentialClock()})

	if _, err := l.Submit(context.Background(), Request{APIKey: "key"}); err != nil {
		t.Fatal(err)
	}
	<-proc.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want deadline exceeded", err)
	}

	close(proc.release)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestSemaphoreUnlimited(t *testing.T) {
	s := newSemaphore(0)
	if s != nil {
		t.Fatal("newSemaphore(0) should be unlimited")
	}
	for i := 0; i < 100; i++ {
		if err := s.acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	s.release()
}
