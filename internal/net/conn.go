package net

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ConnConfig sizes the queues and timeouts of a Conn.
type ConnConfig struct {
	InQueueSize       int
	OutQueueSize      int
	MaxPacketsPerTick int // 0 = drain everything
	DialTimeout       time.Duration
	WriteTimeout      time.Duration
}

// Conn is a TCP connection to a game server. Network I/O runs in dedicated
// goroutines; the loop goroutine only touches the queues.
type Conn struct {
	conn net.Conn
	cfg  ConnConfig

	in  chan []byte // reader goroutine -> loop
	out chan []byte // loop -> writer goroutine

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	wg        sync.WaitGroup

	received atomic.Uint64
	sent     atomic.Uint64

	log *zap.Logger
}

// Dial connects to addr and starts the reader and writer goroutines.
func Dial(ctx context.Context, addr string, cfg ConnConfig, log *zap.Logger) (*Conn, error) {
	d := net.Dialer{Timeout: cfg.DialTimeout}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewConn(nc, cfg, log), nil
}

// NewConn wraps an established connection.
func NewConn(nc net.Conn, cfg ConnConfig, log *zap.Logger) *Conn {
	if cfg.InQueueSize <= 0 {
		cfg.InQueueSize = 128
	}
	if cfg.OutQueueSize <= 0 {
		cfg.OutQueueSize = 128
	}
	c := &Conn{
		conn:    nc,
		cfg:     cfg,
		in:      make(chan []byte, cfg.InQueueSize),
		out:     make(chan []byte, cfg.OutQueueSize),
		closeCh: make(chan struct{}),
		log:     log.With(zap.String("remote", nc.RemoteAddr().String())),
	}
	c.wg.Add(2)
	go c.readLoop()
	go c.writeLoop()
	return c
}

func (c *Conn) HasPending() bool { return len(c.in) > 0 }

// DrainAll takes the packets received so far, at most MaxPacketsPerTick when
// that is set. It never blocks.
func (c *Conn) DrainAll() [][]byte {
	n := len(c.in)
	if c.cfg.MaxPacketsPerTick > 0 && n > c.cfg.MaxPacketsPerTick {
		n = c.cfg.MaxPacketsPerTick
	}
	if n == 0 {
		return nil
	}
	out := make([][]byte, 0, n)
	for range n {
		select {
		case p := <-c.in:
			out = append(out, p)
		default:
			return out
		}
	}
	return out
}

// Send queues a packet for the writer goroutine. A full queue means the
// server stopped reading; the connection is closed and Send reports false.
func (c *Conn) Send(data []byte) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.out <- data:
		return true
	default:
		c.log.Warn("output queue full, closing connection")
		c.Close()
		return false
	}
}

// Close shuts down the connection and returns without waiting. The I/O
// goroutines call it on exit, so it must not block on them; use Wait for that.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closeCh)
		c.conn.Close()
	})
}

// Wait blocks until both I/O goroutines have exited.
func (c *Conn) Wait() { c.wg.Wait() }

func (c *Conn) IsClosed() bool { return c.closed.Load() }

// Stats returns the packet counters.
func (c *Conn) Stats() (received, sent uint64) {
	return c.received.Load(), c.sent.Load()
}

func (c *Conn) readLoop() {
	defer c.wg.Done()
	defer c.Close()

	for {
		payload, err := ReadFrame(c.conn)
		if err != nil {
			if !c.closed.Load() {
				c.log.Debug("read error", zap.Error(err))
			}
			return
		}
		c.received.Add(1)

		// Block rather than drop: the loop drains every tick.
		select {
		case c.in <- payload:
		case <-c.closeCh:
			return
		}
	}
}

func (c *Conn) writeLoop() {
	defer c.wg.Done()
	defer c.Close()

	for {
		select {
		case data := <-c.out:
			if c.cfg.WriteTimeout > 0 {
				c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			}
			if err := WriteFrame(c.conn, data); err != nil {
				if !c.closed.Load() {
					c.log.Debug("write error", zap.Error(err))
				}
				return
			}
			c.sent.Add(1)
		case <-c.closeCh:
			return
		}
	}
}
