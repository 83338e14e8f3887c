// Package loop implements a fixed-timestep game loop with interpolated
// rendering on top of a host frame scheduler.
package loop

import (
	"time"

	"go.uber.org/zap"
)

// DefaultMaxCatchUp bounds update steps per frame unless overridden.
const DefaultMaxCatchUp = 5

// Stats counts loop activity since Start.
type Stats struct {
	Frames  uint64
	Updates uint64
	// Dropped is the simulation time discarded by the catch-up cap.
	Dropped time.Duration
}

// Loop runs update at a constant rate and render once per frame.
type Loop struct {
	sched      Scheduler
	maxCatchUp int
	log        *zap.Logger

	update func()
	render func(alpha float64)
	step   time.Duration

	handle  Handle
	running bool
	last    time.Duration
	lag     time.Duration
	stats   Stats
}

type Option func(*Loop)

// WithMaxCatchUp caps the number of update steps run in one frame; leftover
// whole steps are dropped. Zero disables the cap.
func WithMaxCatchUp(n int) Option {
	return func(l *Loop) { l.maxCatchUp = n }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Loop) { l.log = log }
}

func New(sched Scheduler, opts ...Option) *Loop {
	l := &Loop{
		sched:      sched,
		maxCatchUp: DefaultMaxCatchUp,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins scheduling frames. update is always called for exactly one
// step of length step; render receives lag/step in [0,1). Calling Start on a
// running loop restarts it with the new callbacks.
func (l *Loop) Start(update func(), render func(alpha float64), step time.Duration) {
	if step <= 0 {
		panic("loop: step must be positive")
	}
	l.Stop()
	l.update = update
	l.render = render
	l.step = step
	l.last = l.sched.Now()
	l.lag = 0
	l.stats = Stats{}
	l.running = true
	l.handle = l.sched.Request(l.frame)
	l.log.Debug("loop started", zap.Duration("step", step), zap.Int("max_catch_up", l.maxCatchUp))
}

// Stop cancels the pending frame. It is a no-op if the loop is not running.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.sched.Cancel(l.handle)
	l.running = false
	l.log.Debug("loop stopped",
		zap.Uint64("frames", l.stats.Frames),
		zap.Uint64("updates", l.stats.Updates),
		zap.Duration("dropped", l.stats.Dropped),
	)
}

func (l *Loop) Running() bool { return l.running }

func (l *Loop) Stats() Stats { return l.stats }

func (l *Loop) frame(now time.Duration) {
	if !l.running {
		return
	}
	dt := now - l.last
	l.last = now
	if dt > 0 {
		l.lag += dt
	}

	steps := 0
	for l.lag >= l.step {
		if l.maxCatchUp > 0 && steps >= l.maxCatchUp {
			dropped := l.lag - l.lag%l.step
			l.lag -= dropped
			l.stats.Dropped += dropped
			l.log.Debug("dropping simulation lag", zap.Duration("dropped", dropped))
			break
		}
		l.update()
		l.lag -= l.step
		steps++
		l.stats.Updates++
		if !l.running {
			return
		}
	}

	l.render(float64(l.lag) / float64(l.step))
	l.stats.Frames++
	if l.running {
		l.handle = l.sched.Request(l.frame)
	}
}
