package net

import (
	"sync"
)

// Channel is the packet source drained by the network system on the loop
// goroutine.
type Channel interface {
	HasPending() bool
	DrainAll() [][]byte
}

// Sender queues outgoing packets.
type Sender interface {
	Send(data []byte) bool
}

// Queue is an in-memory Channel. Offline sessions and scripted replays push
// packets into it from any goroutine.
type Queue struct {
	mu      sync.Mutex
	packets [][]byte
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Push(data []byte) {
	q.mu.Lock()
	q.packets = append(q.packets, data)
	q.mu.Unlock()
}

func (q *Queue) HasPending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.packets) > 0
}

// DrainAll returns queued packets in arrival order and empties the queue.
func (q *Queue) DrainAll() [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.packets
	q.packets = nil
	return out
}

// Send implements Sender by looping the packet back into the queue.
func (q *Queue) Send(data []byte) bool {
	q.Push(data)
	return true
}
