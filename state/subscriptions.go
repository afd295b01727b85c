package state

import "sync"

// Subscriptions collects unsubscribe and teardown callbacks so a component
// can drop everything it watches in one call when it unmounts.
type Subscriptions struct {
	mu    sync.Mutex
	undo  []func()
	sched Scheduler
}

// NewSubscriptions creates a Subscriptions with a default scheduler.
func NewSubscriptions(scheduler Scheduler) *Subscriptions {
	return &Subscriptions{sched: scheduler}
}

// SetScheduler replaces the default scheduler.
func (s *Subscriptions) SetScheduler(scheduler Scheduler) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
}

// Scheduler returns the default scheduler.
func (s *Subscriptions) Scheduler() Scheduler {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	scheduler := s.sched
	s.mu.Unlock()
	return scheduler
}

// Add tracks a teardown callback to run on Clear.
func (s *Subscriptions) Add(undo func()) {
	if s == nil || undo == nil {
		return
	}
	s.mu.Lock()
	s.undo = append(s.undo, undo)
	s.mu.Unlock()
}

// Subscribe registers fn synchronously and tracks the unsubscribe.
func (s *Subscriptions) Subscribe(sub Subscribable, fn func()) {
	s.SubscribeVia(sub, nil, fn)
}

// Observe registers fn through the default scheduler and tracks the unsubscribe.
func (s *Subscriptions) Observe(sub Subscribable, fn func()) {
	if s == nil {
		return
	}
	s.SubscribeVia(sub, s.Scheduler(), fn)
}

// SubscribeVia registers fn through scheduler and tracks the unsubscribe.
// Sources that cannot schedule fall back to synchronous delivery.
func (s *Subscriptions) SubscribeVia(sub Subscribable, scheduler Scheduler, fn func()) {
	if s == nil || sub == nil || fn == nil {
		return
	}
	var undo func()
	if scheduler == nil {
		undo = sub.Subscribe(fn)
	} else if via, ok := sub.(interface {
		SubscribeVia(Scheduler, func()) func()
	}); ok {
		undo = via.SubscribeVia(scheduler, fn)
	} else {
		undo = sub.Subscribe(fn)
	}
	s.Add(undo)
}

// Clear runs every tracked teardown once and forgets them.
func (s *Subscriptions) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	undo := s.undo
	s.undo = nil
	s.mu.Unlock()
	for _, fn := range undo {
		if fn != nil {
			fn()
		}
	}
}
