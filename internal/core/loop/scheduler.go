package loop

import (
	"context"
	"sync"
	"time"
)

// Handle identifies a pending frame request.
type Handle uint64

// Scheduler is the host's per-frame callback primitive. Callbacks receive the
// host clock reading for the frame.
type Scheduler interface {
	Now() time.Duration
	Request(fn func(now time.Duration)) Handle
	Cancel(h Handle)
}

// frameQueue is the request bookkeeping shared by the schedulers.
type frameQueue struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]func(time.Duration)
	order   []Handle
}

func (q *frameQueue) request(fn func(time.Duration)) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[Handle]func(time.Duration))
	}
	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

func (q *frameQueue) cancel(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, h)
}

// take removes and returns the callbacks requested so far, in request order.
// Requests made while they run are deferred to the next frame.
func (q *frameQueue) take() []func(time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	fns := make([]func(time.Duration), 0, len(q.order))
	for _, h := range q.order {
		if fn, ok := q.pending[h]; ok {
			fns = append(fns, fn)
			delete(q.pending, h)
		}
	}
	q.order = q.order[:0]
	return fns
}

func (q *frameQueue) fire(now time.Duration) int {
	fns := q.take()
	for _, fn := range fns {
		fn(now)
	}
	return len(fns)
}

// ManualScheduler advances only when told to. Tests and replays use it to get
// an exact, repeatable frame schedule.
type ManualScheduler struct {
	queue frameQueue
	now   time.Duration
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Now() time.Duration { return s.now }

func (s *ManualScheduler) Request(fn func(time.Duration)) Handle {
	return s.queue.request(fn)
}

func (s *ManualScheduler) Cancel(h Handle) { s.queue.cancel(h) }

// Advance moves the clock forward by dt and runs one frame. It returns the
// number of callbacks fired.
func (s *ManualScheduler) Advance(dt time.Duration) int {
	s.now += dt
	return s.queue.fire(s.now)
}

// TickerScheduler fires frames from a time.Ticker. All callbacks run on the
// goroutine that calls Run.
type TickerScheduler struct {
	queue    frameQueue
	interval time.Duration
	start    time.Time
}

func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	return &TickerScheduler{interval: interval, start: time.Now()}
}

func (s *TickerScheduler) Now() time.Duration { return time.Since(s.start) }

func (s *TickerScheduler) Request(fn func(time.Duration)) Handle {
	return s.queue.request(fn)
}

func (s *TickerScheduler) Cancel(h Handle) { s.queue.cancel(h) }

// Run fires pending frames on every tick until ctx is done.
func (s *TickerScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.queue.fire(s.Now())
		}
	}
}
