// Package asset deduplicates resources that load in the background.
package asset

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// Status tracks readiness of a resource that loads asynchronously. The zero
// value is "loading".
type Status struct {
	ready  atomic.Bool
	failed atomic.Bool
	mu     sync.Mutex
	err    error
}

// Ready reports whether the resource finished loading successfully.
func (s *Status) Ready() bool { return s.ready.Load() }

// Failed reports whether loading gave up with an error.
func (s *Status) Failed() bool { return s.failed.Load() }

func (s *Status) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// MarkReady publishes the resource. Writes made before MarkReady are visible
// to any goroutine that observes Ready() == true.
func (s *Status) MarkReady() { s.ready.Store(true) }

func (s *Status) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.failed.Store(true)
}

// Cache returns the same resource object for repeated loads of one path,
// whether it is still loading or already loaded.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*T
	create  func(path string) *T
}

// NewCache builds a cache around create, which must return immediately and
// finish loading in the background.
func NewCache[T any](create func(path string) *T) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]*T),
		create:  create,
	}
}

func (c *Cache[T]) Load(path string) *T {
	key := filepath.Clean(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.entries[key]; ok {
		return r
	}
	r := c.create(key)
	c.entries[key] = r
	return r
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Evict forgets path so the next Load starts a fresh load.
func (c *Cache[T]) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, filepath.Clean(path))
}

// Wait polls until the resource is ready or failed, or ctx ends. It returns
// the load error for a failed resource.
func (s *Status) Wait(ctx context.Context, poll time.Duration) error {
	t := time.NewTicker(poll)
	defer t.Stop()
	for {
		if s.Ready() {
			return nil
		}
		if s.Failed() {
			return s.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
