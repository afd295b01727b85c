// Package runtime hosts synced state: a single-goroutine message loop that
// owns the commit queue and flushes it on a configurable cadence. Each flush
// is the commit-observation point for every state slot scheduled onto the
// loop's queue.
package runtime

import "time"

// Message represents an event flowing into the loop. Messages come from
// callers, timers, or background effects.
type Message interface {
	isMessage()
}

// TickMsg is delivered on each tick when the loop has a tick rate.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// FlushMsg wakes the loop to flush the commit queue.
type FlushMsg struct{}

func (FlushMsg) isMessage() {}

// StopMsg asks the loop to exit after the current cycle.
type StopMsg struct{}

func (StopMsg) isMessage() {}

// EventMsg carries an application-defined payload through the loop.
type EventMsg struct {
	Data any
}

func (EventMsg) isMessage() {}
