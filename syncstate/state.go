// Package syncstate reconciles two consistency models over one state slot:
// reads through a facade always see the latest requested value synchronously,
// while the host reactive system commits values on its own deferred cycle.
// An update writes the cell immediately, registers at most one post-commit
// callback, and schedules a single coalesced commit on the host scheduler;
// when the host observes the commit, the surviving callback fires exactly
// once against the settled value.
package syncstate

import (
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/Jiayou828/use-state-sync/state"
)

// Updater computes the next value from the current one, observed through the
// facade at invocation time rather than through a closed-over snapshot.
type Updater[T any] func(view *Facade[T]) T

type options struct {
	logger *zap.Logger
}

// Option configures a State.
type Option func(*options)

// WithLogger routes callback failures and lifecycle events to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// State owns one synced slot for the lifetime of its host component: the
// cell, the stable facade over it, and the host-visible signal the committed
// value is published to.
type State[T any] struct {
	id     ulid.ULID
	cell   *Cell[T]
	facade *Facade[T]
	signal *state.Signal[T]
	sched  state.Scheduler
	log    *zap.Logger

	mu      sync.Mutex
	closed  bool
	pending atomic.Bool
}

// New creates a synced slot holding initial and returns its facade and owner.
// The scheduler is the host's commit scheduler; commits scheduled onto it are
// observed when the host runs them (for a queue, at the next flush). A nil
// scheduler commits synchronously inside each update.
func New[T any](scheduler state.Scheduler, initial T, opts ...Option) (*Facade[T], *State[T]) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if scheduler == nil {
		scheduler = state.Direct
	}
	cell := NewCell(initial)
	s := &State[T]{
		id:     ulid.Make(),
		cell:   cell,
		facade: newFacade(cell),
		signal: state.NewSignal(initial),
		sched:  scheduler,
		log:    o.logger,
	}
	s.log.Debug("synced state created", zap.String("state", s.id.String()))
	return s.facade, s
}

// NewLazy is New with the initial value produced by init, invoked exactly
// once at creation. A nil init yields the zero value.
func NewLazy[T any](scheduler state.Scheduler, init func() T, opts ...Option) (*Facade[T], *State[T]) {
	var initial T
	if init != nil {
		initial = init()
	}
	return New(scheduler, initial, opts...)
}

// ID returns the slot's creation-ordered identifier.
func (s *State[T]) ID() string {
	if s == nil {
		return ""
	}
	return s.id.String()
}

// Facade returns the slot's stable facade. The same facade is returned for
// the state's whole lifetime no matter how often the value changes.
func (s *State[T]) Facade() *Facade[T] {
	if s == nil {
		return nil
	}
	return s.facade
}

// Signal returns the host-visible signal. It carries committed values only;
// subscribers observe an update when the host runs the scheduled commit, not
// when Set wrote the cell.
func (s *State[T]) Signal() *state.Signal[T] {
	if s == nil {
		return nil
	}
	return s.signal
}

// Set requests next as the new value. The facade reflects next before Set
// returns; the host sees it at its next commit. Any previously scheduled
// callback is cleared.
func (s *State[T]) Set(next T) {
	s.apply(next, nil)
}

// SetThen is Set plus a callback that fires exactly once after the host
// observes the commit, reading through the facade yields the settled value.
// Only the most recent update's callback survives coalescing.
func (s *State[T]) SetThen(next T, done func()) {
	s.apply(next, done)
}

// Apply requests fn(current) as the new value. fn observes the latest
// requested value through the facade, so chained Apply calls in one
// synchronous burst each see the previous call's result.
func (s *State[T]) Apply(fn Updater[T]) {
	s.ApplyThen(fn, nil)
}

// ApplyThen is Apply plus a post-commit callback. A panic inside fn
// propagates to the caller: nothing has been written yet and no commit has
// been requested.
func (s *State[T]) ApplyThen(fn Updater[T], done func()) {
	if s == nil || fn == nil {
		return
	}
	s.apply(fn(s.facade), done)
}

// Close tears the slot down. The pending callback, if any, is discarded
// without being invoked; scheduled commits become no-ops; later updates are
// ignored. The facade stays readable and keeps returning the final value.
func (s *State[T]) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cell.SetCallback(nil)
	s.mu.Unlock()
	s.log.Debug("synced state closed", zap.String("state", s.id.String()))
}

// Closed reports whether the slot has been torn down.
func (s *State[T]) Closed() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	return closed
}

// apply writes under s.mu so the closed check and the cell writes form one
// critical section: a Close can never interleave and leave a callback
// registered after teardown.
func (s *State[T]) apply(next T, done func()) {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.cell.SetValue(next)
	s.cell.SetCallback(done)
	s.mu.Unlock()
	s.scheduleCommit()
}

// scheduleCommit requests one commit per cycle; updates landing while a
// commit is already scheduled coalesce into it.
func (s *State[T]) scheduleCommit() {
	if !s.pending.CompareAndSwap(false, true) {
		return
	}
	s.sched.Schedule(s.commit)
}

func (s *State[T]) commit() {
	// Reset before publishing so an update arriving mid-commit schedules
	// a fresh cycle instead of being swallowed.
	s.pending.Store(false)
	if s.Closed() {
		return
	}
	s.signal.Set(s.cell.Value())
	s.firePending()
}

// firePending runs the surviving callback exactly once. The slot is cleared
// before invocation, so a panicking callback can never stay registered or
// abort the host's commit cycle; the panic is logged and swallowed.
func (s *State[T]) firePending() {
	done := s.cell.TakeCallback()
	if done == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("post-commit callback panicked",
				zap.String("state", s.id.String()),
				zap.Any("panic", r))
		}
	}()
	done()
}
