package anim

import "time"

// Clock supplies the wall time animations advance against. The loop
// schedulers satisfy it.
type Clock interface {
	Now() time.Duration
}

type ClockFunc func() time.Duration

func (f ClockFunc) Now() time.Duration { return f() }
