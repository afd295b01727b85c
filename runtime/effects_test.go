package runtime

import (
	"context"
	"testing"
	"time"
)

func TestAfter_PostsOnce(t *testing.T) {
	posted := 0
	eff := After(time.Millisecond, probeMsg{})
	eff.Run(context.Background(), func(Message) bool {
		posted++
		return true
	})
	if posted != 1 {
		t.Fatalf("expected 1 post, got %d", posted)
	}
}

func TestAfter_ZeroDelayPostsImmediately(t *testing.T) {
	posted := 0
	eff := After(0, probeMsg{})
	eff.Run(context.Background(), func(Message) bool {
		posted++
		return true
	})
	if posted != 1 {
		t.Fatalf("expected immediate post, got %d", posted)
	}
}

func TestAfter_CancelledContextSkipsPost(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	posted := 0
	eff := After(time.Hour, probeMsg{})
	eff.Run(ctx, func(Message) bool {
		posted++
		return true
	})
	if posted != 0 {
		t.Fatalf("expected no post after cancel, got %d", posted)
	}
}

func TestEvery_PostsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Message, 4)
	done := make(chan struct{})
	eff := Every(time.Millisecond, func(now time.Time) Message {
		return TickMsg{Time: now}
	})
	go func() {
		eff.Run(ctx, func(msg Message) bool {
			select {
			case got <- msg:
			default:
			}
			return true
		})
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-got:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for tick %d", i)
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("effect did not stop after cancel")
	}
}

func TestEvery_NilFuncReturns(t *testing.T) {
	eff := Every(time.Millisecond, nil)
	eff.Run(context.Background(), func(Message) bool { return true })
}
