package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = time.Second / 60

func run(t *testing.T, frame time.Duration, frames int, opts ...Option) (updates int, alphas []float64) {
	t.Helper()
	sched := NewManualScheduler()
	l := New(sched, opts...)
	l.Start(func() { updates++ }, func(a float64) { alphas = append(alphas, a) }, step)
	for i := 0; i < frames; i++ {
		require.Equal(t, 1, sched.Advance(frame))
	}
	l.Stop()
	return updates, alphas
}

func TestUpdateCountDependsOnlyOnElapsedTime(t *testing.T) {
	fast, _ := run(t, 10*time.Millisecond, 99)
	slow, _ := run(t, 33*time.Millisecond, 30)

	total := 990 * time.Millisecond
	want := int(total / step)
	assert.Equal(t, want, fast)
	assert.Equal(t, want, slow)
}

func TestRenderOncePerFrameWithFraction(t *testing.T) {
	_, alphas := run(t, 10*time.Millisecond, 5)
	require.Len(t, alphas, 5)
	for _, a := range alphas {
		assert.GreaterOrEqual(t, a, 0.0)
		assert.Less(t, a, 1.0)
	}
	assert.InDelta(t, float64(10*time.Millisecond)/float64(step), alphas[0], 1e-9)
}

func TestCatchUpIsCapped(t *testing.T) {
	sched := NewManualScheduler()
	l := New(sched, WithMaxCatchUp(5))
	updates := 0
	l.Start(func() { updates++ }, func(float64) {}, step)

	sched.Advance(time.Second)

	assert.Equal(t, 5, updates)
	stats := l.Stats()
	assert.Equal(t, uint64(5), stats.Updates)
	assert.Equal(t, time.Second-time.Second%step-5*step, stats.Dropped)
}

func TestUncappedCatchUp(t *testing.T) {
	updates, _ := run(t, time.Second, 1, WithMaxCatchUp(0))
	assert.Equal(t, int(time.Second/step), updates)
}

func TestStopCancelsPendingFrame(t *testing.T) {
	sched := NewManualScheduler()
	l := New(sched)
	frames := 0
	l.Start(func() {}, func(float64) { frames++ }, step)

	sched.Advance(step)
	l.Stop()
	l.Stop()

	assert.Equal(t, 0, sched.Advance(step))
	assert.Equal(t, 1, frames)
	assert.False(t, l.Running())
}

func TestStopFromUpdate(t *testing.T) {
	sched := NewManualScheduler()
	l := New(sched)
	updates, renders := 0, 0
	l.Start(func() {
		updates++
		l.Stop()
	}, func(float64) { renders++ }, step)

	sched.Advance(3 * step)

	assert.Equal(t, 1, updates)
	assert.Equal(t, 0, renders)
	assert.Equal(t, 0, sched.Advance(step))
}

func TestTickerSchedulerRunsFrames(t *testing.T) {
	sched := NewTickerScheduler(time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	l := New(sched)
	frames := 0
	l.Start(func() {}, func(float64) {
		frames++
		if frames == 3 {
			l.Stop()
			cancel()
		}
	}, step)

	err := sched.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, frames)
}
