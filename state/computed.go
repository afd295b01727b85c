package state

import "sync"

// Computed derives a read-only value from other sources and recomputes when
// any of them notifies.
type Computed[T any] struct {
	signal    *Signal[T]
	compute   func() T
	mu        sync.Mutex
	undo      []func()
	scheduler Scheduler
}

// NewComputed derives a value that recomputes synchronously on dependency changes.
func NewComputed[T any](compute func() T, deps ...Subscribable) *Computed[T] {
	return NewComputedVia(nil, compute, deps...)
}

// NewComputedVia derives a value whose recomputes run through scheduler.
func NewComputedVia[T any](scheduler Scheduler, compute func() T, deps ...Subscribable) *Computed[T] {
	if compute == nil {
		compute = func() T {
			var zero T
			return zero
		}
	}
	c := &Computed[T]{
		signal:    NewSignal(compute()),
		compute:   compute,
		scheduler: scheduler,
	}
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		if undo := dep.Subscribe(c.scheduleRecompute); undo != nil {
			c.undo = append(c.undo, undo)
		}
	}
	return c
}

// SetEqualFunc installs an equality check that suppresses redundant notifications.
func (c *Computed[T]) SetEqualFunc(fn EqualFunc[T]) {
	if c == nil {
		return
	}
	c.signal.SetEqualFunc(fn)
}

// Get returns the current derived value.
func (c *Computed[T]) Get() T {
	if c == nil {
		var zero T
		return zero
	}
	return c.signal.Get()
}

// Subscribe registers fn to run synchronously when the derived value changes.
func (c *Computed[T]) Subscribe(fn func()) func() {
	if c == nil {
		return func() {}
	}
	return c.signal.Subscribe(fn)
}

// SubscribeVia registers fn to run through scheduler when the derived value changes.
func (c *Computed[T]) SubscribeVia(scheduler Scheduler, fn func()) func() {
	if c == nil {
		return func() {}
	}
	return c.signal.SubscribeVia(scheduler, fn)
}

// Stop detaches the computed from its dependencies. Get keeps returning the
// last derived value.
func (c *Computed[T]) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	undo := c.undo
	c.undo = nil
	c.mu.Unlock()
	for _, fn := range undo {
		if fn != nil {
			fn()
		}
	}
}

func (c *Computed[T]) recompute() {
	if c == nil {
		return
	}
	c.signal.Set(c.compute())
}

func (c *Computed[T]) scheduleRecompute() {
	if c == nil {
		return
	}
	if c.scheduler == nil {
		c.recompute()
		return
	}
	c.scheduler.Schedule(c.recompute)
}
