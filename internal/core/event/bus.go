package event

import (
	"reflect"
)

// Bus is a double-buffered event bus. Events emitted during tick N become
// visible after the SwapBuffers call that starts tick N+1.
type Bus struct {
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]func(any)
	types    []reflect.Type // first-seen order, keeps dispatch deterministic
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	t := b.track(reflect.TypeFor[T]())
	b.back[t] = append(b.back[t], event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := b.track(reflect.TypeFor[T]())
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Pending returns the events of type T readable in the current tick.
func Pending[T any](b *Bus) []T {
	evs := b.front[reflect.TypeFor[T]()]
	out := make([]T, len(evs))
	for i, ev := range evs {
		out[i] = ev.(T)
	}
	return out
}

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers front-buffer events to subscribers, grouped by event
// type in the order types were first seen.
func (b *Bus) DispatchAll() int {
	n := 0
	for _, t := range b.types {
		handlers := b.handlers[t]
		for _, ev := range b.front[t] {
			for _, h := range handlers {
				h(ev)
			}
			n++
		}
	}
	return n
}

func (b *Bus) track(t reflect.Type) reflect.Type {
	if _, ok := b.handlers[t]; ok {
		return t
	}
	if _, ok := b.back[t]; ok {
		return t
	}
	b.types = append(b.types, t)
	b.handlers[t] = nil
	return t
}
