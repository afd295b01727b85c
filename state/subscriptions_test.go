package state

import "testing"

func TestSubscriptions_SubscribeAndClear(t *testing.T) {
	subs := NewSubscriptions(nil)
	sig := NewSignal(0)
	calls := 0

	subs.Subscribe(sig, func() { calls++ })
	sig.Set(1)
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}

	subs.Clear()
	sig.Set(2)
	if calls != 1 {
		t.Fatalf("expected no calls after clear, got %d", calls)
	}
}

func TestSubscriptions_ObserveUsesDefaultScheduler(t *testing.T) {
	queue := NewQueue()
	subs := NewSubscriptions(queue)
	sig := NewSignal(0)
	calls := 0

	subs.Observe(sig, func() { calls++ })
	sig.Set(1)
	if calls != 0 {
		t.Fatalf("expected observation to be queued, got %d calls", calls)
	}
	queue.Flush()
	if calls != 1 {
		t.Fatalf("expected observation after flush, got %d", calls)
	}
}

func TestSubscriptions_AddRunsOnClearOnce(t *testing.T) {
	subs := NewSubscriptions(nil)
	torn := 0
	subs.Add(func() { torn++ })

	subs.Clear()
	subs.Clear()
	if torn != 1 {
		t.Fatalf("expected teardown exactly once, got %d", torn)
	}
}

func TestSubscriptions_NilArgsIgnored(t *testing.T) {
	subs := NewSubscriptions(nil)
	subs.Subscribe(nil, func() {})
	subs.Subscribe(NewSignal(0), nil)
	subs.Add(nil)
	subs.Clear()
}
