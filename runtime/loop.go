package runtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Jiayou828/use-state-sync/state"
)

// Handler reacts to messages flowing through the loop. The loop consumes
// StopMsg itself; everything else reaches the handler before the flush
// decision is made.
type Handler func(loop *Loop, msg Message)

// LoopConfig configures a Loop.
type LoopConfig struct {
	Handler       Handler
	MessageBuffer int
	TickRate      time.Duration
	Queue         *state.Queue
	FlushPolicy   FlushPolicy
	Logger        *zap.Logger
}

// Loop is the host commit cycle for synced state. It runs in a single
// goroutine, receives messages, and flushes the commit queue according to
// its policy; each flush runs the scheduled commits and their post-commit
// callbacks.
type Loop struct {
	handler     Handler
	messages    chan Message
	tickRate    time.Duration
	queue       *state.Queue
	scheduler   *QueueScheduler
	flushPolicy FlushPolicy
	log         *zap.Logger

	mu             sync.Mutex
	components     []Lifecycle
	pendingEffects []Effect
	running        bool
	taskCtx        context.Context
	taskCancel     context.CancelFunc
	group          *errgroup.Group
}

// NewLoop creates a loop from config.
func NewLoop(cfg LoopConfig) *Loop {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	queue := cfg.Queue
	if queue == nil {
		queue = state.NewQueue()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loop{
		handler:     cfg.Handler,
		messages:    make(chan Message, bufferSize),
		tickRate:    cfg.TickRate,
		queue:       queue,
		flushPolicy: cfg.FlushPolicy,
		log:         logger,
	}
	l.scheduler = NewQueueScheduler(queue, l.tryPost)
	return l
}

// Queue returns the loop's commit queue.
func (l *Loop) Queue() *state.Queue {
	if l == nil {
		return nil
	}
	return l.queue
}

// Scheduler returns the commit scheduler components hand to their synced
// state: work scheduled on it runs at the loop's next flush.
func (l *Loop) Scheduler() state.Scheduler {
	if l == nil || l.scheduler == nil {
		return nil
	}
	return l.scheduler
}

// Attach registers a component. Components attached while the loop runs are
// mounted immediately; the rest mount when Run starts.
func (l *Loop) Attach(c Lifecycle) {
	if l == nil || c == nil {
		return
	}
	l.mu.Lock()
	l.components = append(l.components, c)
	running := l.running
	l.mu.Unlock()
	if running {
		c.Mount(l)
	}
}

// Post sends a message to the loop, dropping it if the channel is full.
func (l *Loop) Post(msg Message) {
	_ = l.tryPost(msg)
}

// TryPost sends a message without blocking and reports delivery.
func (l *Loop) TryPost(msg Message) bool {
	return l.tryPost(msg)
}

func (l *Loop) tryPost(msg Message) bool {
	if l == nil || l.messages == nil || msg == nil {
		return false
	}
	select {
	case l.messages <- msg:
		return true
	default:
		return false
	}
}

// Stop asks the loop to exit after the current cycle.
func (l *Loop) Stop() {
	l.Post(StopMsg{})
}

// Spawn starts an effect under the loop's task context. Effects spawned
// before Run are held until the loop starts.
func (l *Loop) Spawn(effect Effect) {
	if l == nil || effect.Run == nil {
		return
	}
	l.mu.Lock()
	if !l.running || l.taskCtx == nil {
		l.pendingEffects = append(l.pendingEffects, effect)
		l.mu.Unlock()
		return
	}
	ctx := l.taskCtx
	group := l.group
	l.mu.Unlock()
	group.Go(func() error {
		effect.Run(ctx, l.tryPost)
		return nil
	})
}

// After schedules a delayed message.
func (l *Loop) After(delay time.Duration, msg Message) {
	l.Spawn(After(delay, msg))
}

// Every schedules a recurring message.
func (l *Loop) Every(interval time.Duration, fn func(time.Time) Message) {
	l.Spawn(Every(interval, fn))
}

// Run mounts attached components and drives the loop until Stop or context
// cancellation. On exit it unmounts components in reverse order and waits
// for spawned effects to finish.
func (l *Loop) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	taskCtx, taskCancel := context.WithCancel(ctx)
	group := new(errgroup.Group)

	l.mu.Lock()
	l.running = true
	l.taskCtx = taskCtx
	l.taskCancel = taskCancel
	l.group = group
	components := make([]Lifecycle, len(l.components))
	copy(components, l.components)
	pending := l.pendingEffects
	l.pendingEffects = nil
	l.mu.Unlock()

	defer func() {
		taskCancel()
		_ = group.Wait()
		l.mu.Lock()
		l.running = false
		l.taskCtx = nil
		l.taskCancel = nil
		l.group = nil
		l.mu.Unlock()
	}()

	mountAll(l, components)
	// Unmount re-reads the list so components attached mid-run are torn
	// down too, not just the start-of-run snapshot.
	defer func() {
		l.mu.Lock()
		mounted := make([]Lifecycle, len(l.components))
		copy(mounted, l.components)
		l.mu.Unlock()
		unmountAll(mounted)
	}()
	l.log.Debug("loop started", zap.Int("components", len(components)))

	for _, effect := range pending {
		l.Spawn(effect)
	}

	var ticks <-chan time.Time
	if l.tickRate > 0 {
		ticker := time.NewTicker(l.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		var msg Message
		select {
		case <-ctx.Done():
			l.log.Debug("loop cancelled")
			return ctx.Err()
		case msg = <-l.messages:
			if _, ok := msg.(StopMsg); ok {
				l.log.Debug("loop stopped")
				return nil
			}
		case now := <-ticks:
			msg = TickMsg{Time: now}
		}

		if l.handler != nil {
			l.handler(l, msg)
		}
		if shouldFlush(l.flushPolicy, msg) {
			l.scheduler.resetPending()
			if flushed := l.queue.Flush(); flushed > 0 {
				l.log.Debug("commits observed", zap.Int("flushed", flushed))
			}
		}
	}
}
