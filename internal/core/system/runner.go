package system

import (
	"cmp"
	"slices"
	"time"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order. It also keeps the wall time each phase took
// during the most recent tick.
type Runner struct {
	systems []System
	sorted  bool

	now     func() time.Time
	elapsed [phaseCount]time.Duration
}

// phaseCount sizes per-phase bookkeeping.
const phaseCount = int(PhaseCleanup) + 1

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
		now:     time.Now,
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	r.elapsed = [phaseCount]time.Duration{}
	for _, s := range r.systems {
		r.run(s, dt)
	}
}

// TickPhase runs only the systems of one phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	if phase.valid() {
		r.elapsed[phase] = 0
	}
	for _, s := range r.systems {
		if s.Phase() == phase {
			r.run(s, dt)
		}
	}
}

func (r *Runner) run(s System, dt time.Duration) {
	start := r.now()
	s.Update(dt)
	if p := s.Phase(); p.valid() {
		r.elapsed[p] += r.now().Sub(start)
	}
}

// Elapsed returns how long phase took in the last tick that ran it.
func (r *Runner) Elapsed(phase Phase) time.Duration {
	if !phase.valid() {
		return 0
	}
	return r.elapsed[phase]
}

func (r *Runner) Len() int { return len(r.systems) }

// Phases lists the phase of every registered system in run order.
func (r *Runner) Phases() []Phase {
	r.ensureSorted()
	out := make([]Phase, len(r.systems))
	for i, s := range r.systems {
		out[i] = s.Phase()
	}
	return out
}

func (r *Runner) ensureSorted() {
	if r.sorted {
		return
	}
	slices.SortStableFunc(r.systems, func(a, b System) int {
		return cmp.Compare(a.Phase(), b.Phase())
	})
	r.sorted = true
}

func (p Phase) valid() bool { return p >= 0 && int(p) < phaseCount }
