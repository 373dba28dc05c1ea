// Package dispatch implements the broadcast bus that connects the animation
// scheduler, the state reducer, the assistant and the UI.
//
// The bus is a bounded ring buffer. Every subscriber owns a cursor (a sequence
// number into the ring) so a slow subscriber never slows the publisher down:
// when it falls more than the capacity behind, its oldest unread events are
// overwritten and its next receive reports a *LagError.
package dispatch

import (
	"context"
	"errors"
	"sync"
)

// DefaultCapacity is the number of events the bus keeps per subscriber window.
const DefaultCapacity = 50

type slot struct {
	seq uint64
	ev  Event
}

// Bus is a multi-producer, multi-consumer broadcast channel of Events.
type Bus struct {
	mu     sync.Mutex
	slots  []slot
	tail   uint64 // sequence number of the next published event
	subs   int
	closed bool
	notify chan struct{} // closed and replaced on every publish
}

// New creates a bus that buffers up to capacity events. Capacity below 1 is
// treated as 1.
func New(capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{
		slots:  make([]slot, capacity),
		notify: make(chan struct{}),
	}
}

// Capacity returns the ring size.
func (b *Bus) Capacity() int {
	return len(b.slots)
}

// Publish appends ev to the ring and wakes every blocked subscriber. It never
// blocks on subscribers.
func (b *Bus) Publish(ev Event) error {
	if ev == nil {
		return errors.New("dispatch: nil event")
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.subs == 0 {
		b.mu.Unlock()
		return ErrNoSubscribers
	}

	b.slots[b.tail%uint64(len(b.slots))] = slot{seq: b.tail, ev: ev}
	b.tail++
	wake := b.notify
	b.notify = make(chan struct{})
	b.mu.Unlock()

	close(wake)
	return nil
}

// Subscribe returns a cursor that receives every event published after the
// call. Subscribing to a closed bus yields a cursor that reports ErrClosed.
func (b *Bus) Subscribe() *Cursor {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := &Cursor{bus: b, next: b.tail}
	if b.closed {
		c.closed = true
		return c
	}
	b.subs++
	return c
}

// Subscribers returns the number of open cursors.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.subs
}

// Len returns how many events are currently retained in the ring.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tail < uint64(len(b.slots)) {
		return int(b.tail)
	}
	return len(b.slots)
}

// Close shuts the bus down. Cursors can still drain what is buffered for them
// and then receive ErrClosed. Close is safe to call more than once.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.notify)
}

// Cursor is one subscriber's read position on a Bus. A cursor must not be
// shared between goroutines.
type Cursor struct {
	bus    *Bus
	next   uint64
	closed bool
}

// TryRecv returns the next pending event without blocking. It returns
// ErrEmpty when nothing is pending.
func (c *Cursor) TryRecv() (Event, error) {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()
	ev, _, err := c.recvLocked()
	return ev, err
}

// Recv blocks until an event is available, the cursor lagged, the bus closed
// or ctx is done.
func (c *Cursor) Recv(ctx context.Context) (Event, error) {
	for {
		c.bus.mu.Lock()
		ev, wait, err := c.recvLocked()
		c.bus.mu.Unlock()

		if !errors.Is(err, ErrEmpty) {
			return ev, err
		}

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// recvLocked must be called with c.bus.mu held. When nothing is pending it
// returns ErrEmpty and the channel that the next publish will close.
func (c *Cursor) recvLocked() (Event, <-chan struct{}, error) {
	if c.closed {
		return nil, nil, ErrClosed
	}

	b := c.bus
	if c.next == b.tail {
		if b.closed {
			return nil, nil, ErrClosed
		}
		return nil, b.notify, ErrEmpty
	}

	capacity := uint64(len(b.slots))
	if b.tail-c.next > capacity {
		oldest := b.tail - capacity
		missed := oldest - c.next
		c.next = oldest
		return nil, nil, &LagError{Missed: missed}
	}

	s := b.slots[c.next%capacity]
	if s.seq != c.next {
		panic("dispatch: ring slot does not match cursor sequence")
	}
	c.next++
	return s.ev, nil, nil
}

// Pending returns how many events are waiting for this cursor, capped at the
// bus capacity.
func (c *Cursor) Pending() int {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()
	if c.closed {
		return 0
	}
	n := c.bus.tail - c.next
	if n > uint64(len(c.bus.slots)) {
		return len(c.bus.slots)
	}
	return int(n)
}

// Close unsubscribes the cursor. Further receives return ErrClosed.
func (c *Cursor) Close() {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.bus.subs--
}
