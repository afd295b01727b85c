package runtime

import (
	"sync/atomic"

	"github.com/Jiayou828/use-state-sync/state"
)

// QueueScheduler enqueues commit work and wakes the loop to flush it. Posts
// coalesce: while a FlushMsg is in flight, further schedules only enqueue.
type QueueScheduler struct {
	queue   *state.Queue
	post    func(Message) bool
	pending atomic.Bool
}

// NewQueueScheduler wires a queue to a post function.
func NewQueueScheduler(queue *state.Queue, post func(Message) bool) *QueueScheduler {
	if queue == nil {
		queue = state.NewQueue()
	}
	return &QueueScheduler{
		queue: queue,
		post:  post,
	}
}

// Schedule enqueues fn and posts a flush wake-up if none is in flight.
func (s *QueueScheduler) Schedule(fn func()) {
	if s == nil || s.queue == nil || fn == nil {
		return
	}
	s.queue.Schedule(fn)
	if s.post == nil {
		return
	}
	if s.pending.CompareAndSwap(false, true) {
		if !s.post(FlushMsg{}) {
			s.pending.Store(false)
		}
	}
}

func (s *QueueScheduler) resetPending() {
	if s == nil {
		return
	}
	s.pending.Store(false)
}
