// Package input keeps polled keyboard state for the simulation.
package input

import (
	"sync"
	"time"
)

// Key codes follow the DOM KeyboardEvent.code names.
const (
	KeyW         = "KeyW"
	KeyA         = "KeyA"
	KeyS         = "KeyS"
	KeyD         = "KeyD"
	KeyShiftLeft = "ShiftLeft"
	KeyEscape    = "Escape"
	KeyF3        = "F3"
)

// Source is polled once per simulation tick.
type Source interface {
	IsPressed(code string) bool
}

// Keyboard records key state from host events. Hosts that never report key
// releases set a hold timeout: a key then counts as released once that long
// passes without a repeat press.
type Keyboard struct {
	mu      sync.Mutex
	down    map[string]time.Time
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Keyboard)

func WithHoldTimeout(d time.Duration) Option {
	return func(k *Keyboard) { k.timeout = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(k *Keyboard) { k.now = now }
}

func NewKeyboard(opts ...Option) *Keyboard {
	k := &Keyboard{
		down: make(map[string]time.Time),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *Keyboard) Press(code string) {
	k.mu.Lock()
	k.down[code] = k.now()
	k.mu.Unlock()
}

func (k *Keyboard) Release(code string) {
	k.mu.Lock()
	delete(k.down, code)
	k.mu.Unlock()
}

// Reset releases every key, e.g. when the window loses focus.
func (k *Keyboard) Reset() {
	k.mu.Lock()
	clear(k.down)
	k.mu.Unlock()
}

func (k *Keyboard) IsPressed(code string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	at, ok := k.down[code]
	if !ok {
		return false
	}
	if k.timeout > 0 && k.now().Sub(at) > k.timeout {
		delete(k.down, code)
		return false
	}
	return true
}
