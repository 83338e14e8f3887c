package anim

import "time"

// State is a logical animation state such as "Idle_Down" or "Jump".
type State string

// Transitions maps a (from, to) state pair to the clip played in between.
type Transitions map[[2]State]string

func (t Transitions) Add(from, to State, clip string) {
	t[[2]State{from, to}] = clip
}

func (t Transitions) Lookup(from, to State) (string, bool) {
	clip, ok := t[[2]State{from, to}]
	return clip, ok
}

// Lookup resolves transition clips and clip lengths for a Machine.
type Lookup interface {
	Transition(from, to State) (string, bool)
	Duration(clip string) time.Duration
}
