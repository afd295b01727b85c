// Package state provides the host-side reactive primitives a synced state
// cell binds to: signals carrying the committed value, schedulers that decide
// when change notifications run, and subscription tracking for teardown.
package state

import "sync"

// EqualFunc reports whether two values are equivalent.
type EqualFunc[T any] func(a, b T) bool

// Equal compares comparable values with ==.
func Equal[T comparable](a, b T) bool {
	return a == b
}

// Subscribable emits change notifications.
type Subscribable interface {
	Subscribe(fn func()) func()
}

// Readable exposes read-only reactive state.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func()) func()
	SubscribeVia(scheduler Scheduler, fn func()) func()
}

// Writable exposes read/write reactive state.
type Writable[T any] interface {
	Readable[T]
	Set(value T) bool
	Update(fn func(T) T) bool
}

type listener struct {
	id        int
	fn        func()
	scheduler Scheduler
}

// Signal holds a committed value and notifies listeners when it changes.
// Without an EqualFunc every Set notifies, so committing the same value
// twice is still two observable updates; synced cells rely on that.
type Signal[T any] struct {
	mu        sync.Mutex
	value     T
	listeners []listener
	nextID    int
	equal     EqualFunc[T]
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// SetEqualFunc installs an equality check that suppresses redundant notifications.
func (s *Signal[T]) SetEqualFunc(fn EqualFunc[T]) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
}

// Get returns the committed value.
func (s *Signal[T]) Get() T {
	if s == nil {
		var zero T
		return zero
	}
	s.mu.Lock()
	value := s.value
	s.mu.Unlock()
	return value
}

// Set commits value and notifies listeners. It returns false only when an
// installed EqualFunc judged the value redundant.
func (s *Signal[T]) Set(value T) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, value) {
		s.mu.Unlock()
		return false
	}
	s.value = value
	notify := make([]listener, len(s.listeners))
	copy(notify, s.listeners)
	s.mu.Unlock()

	for _, l := range notify {
		if l.fn == nil {
			continue
		}
		if l.scheduler == nil {
			l.fn()
			continue
		}
		l.scheduler.Schedule(l.fn)
	}
	return true
}

// Update commits fn(current). fn runs outside the signal lock, so Update is
// not atomic across goroutines.
func (s *Signal[T]) Update(fn func(T) T) bool {
	if s == nil || fn == nil {
		return false
	}
	return s.Set(fn(s.Get()))
}

// Subscribe registers fn to run synchronously on every commit.
func (s *Signal[T]) Subscribe(fn func()) func() {
	return s.SubscribeVia(nil, fn)
}

// SubscribeVia registers fn to run through scheduler on every commit.
// A nil scheduler runs fn synchronously in the committer's goroutine.
func (s *Signal[T]) SubscribeVia(scheduler Scheduler, fn func()) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn, scheduler: scheduler})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}
