package syncstate

import "sync"

// Cell is the single mutable holder behind one synced state slot: the latest
// requested value plus the one outstanding post-commit callback. Reads and
// writes are plain guarded memory operations with no failure paths.
type Cell[T any] struct {
	mu       sync.Mutex
	current  T
	callback func()
}

// NewCell creates a cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{current: initial}
}

// Value returns the latest requested value.
func (c *Cell[T]) Value() T {
	if c == nil {
		var zero T
		return zero
	}
	c.mu.Lock()
	v := c.current
	c.mu.Unlock()
	return v
}

// SetValue overwrites the current value unconditionally. There is no equality
// check: writing the same value again is still a valid, observable update.
func (c *Cell[T]) SetValue(v T) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.current = v
	c.mu.Unlock()
}

// SetCallback replaces the pending callback; nil clears it. The slot holds at
// most one callback and the last writer wins, so an update issued before an
// earlier callback fired silently drops that earlier callback.
func (c *Cell[T]) SetCallback(cb func()) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.callback = cb
	c.mu.Unlock()
}

// TakeCallback returns the pending callback and clears the slot.
func (c *Cell[T]) TakeCallback() func() {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	cb := c.callback
	c.callback = nil
	c.mu.Unlock()
	return cb
}
