package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }

func (r recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"anim", PhaseAnimation, &log})
	r.Register(recorder{"physics", PhasePhysics, &log})
	r.Register(recorder{"input", PhaseInput, &log})
	r.Register(recorder{"collision-a", PhaseCollision, &log})
	r.Register(recorder{"collision-b", PhaseCollision, &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"input", "physics", "collision-a", "collision-b", "anim"}, log)

	log = log[:0]
	r.TickPhase(PhaseCollision, time.Millisecond)
	assert.Equal(t, []string{"collision-a", "collision-b"}, log)
}

func TestRunnerElapsedPerPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	clock := time.Unix(0, 0)
	r.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	r.Register(recorder{"physics", PhasePhysics, &log})
	r.Register(recorder{"collision-a", PhaseCollision, &log})
	r.Register(recorder{"collision-b", PhaseCollision, &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, time.Millisecond, r.Elapsed(PhasePhysics))
	assert.Equal(t, 2*time.Millisecond, r.Elapsed(PhaseCollision))
	assert.Zero(t, r.Elapsed(PhaseInput))
	assert.Zero(t, r.Elapsed(Phase(99)))
	assert.Equal(t, []Phase{PhasePhysics, PhaseCollision, PhaseCollision}, r.Phases())
}
