package anim

import "time"

// Machine separates the logical state from the clip that is playing. A state
// change with a registered transition plays the transition clip to the end
// before the new state's clip starts. Changing state again mid-transition
// abandons the transition.
type Machine struct {
	lookup Lookup

	last         State
	state        State
	transitioned bool
	playing      string
	started      time.Duration
}

func NewMachine(lookup Lookup) *Machine {
	return &Machine{lookup: lookup, transitioned: true}
}

func (m *Machine) Set(state State) {
	m.last = m.state
	m.state = state
	_, ok := m.lookup.Transition(m.last, m.state)
	m.transitioned = !ok
}

// Update advances the state machine to now.
func (m *Machine) Update(now time.Duration) {
	if m.last == m.state {
		return
	}
	if clip, ok := m.lookup.Transition(m.last, m.state); ok && !m.transitioned {
		if m.playing != clip {
			m.playing = clip
			m.started = now
		}
		if now-m.started >= m.lookup.Duration(clip) {
			m.transitioned = true
		}
		return
	}
	m.playing = string(m.state)
	m.last = m.state
}

// Playing names the clip currently shown, or "" before the first state.
func (m *Machine) Playing() string { return m.playing }

func (m *Machine) State() State { return m.state }

func (m *Machine) Transitioned() bool { return m.transitioned }
