package runtime

// FlushPolicy configures when the loop flushes the commit queue.
type FlushPolicy int

const (
	// FlushOnMessageAndTick flushes after any message or tick.
	FlushOnMessageAndTick FlushPolicy = iota
	// FlushOnMessage flushes after messages except TickMsg.
	FlushOnMessage
	// FlushOnTick flushes only after TickMsg.
	FlushOnTick
	// FlushManual flushes only on FlushMsg.
	FlushManual
)

func shouldFlush(policy FlushPolicy, msg Message) bool {
	if _, ok := msg.(FlushMsg); ok {
		return true
	}
	if policy == FlushManual {
		return false
	}
	_, isTick := msg.(TickMsg)
	switch policy {
	case FlushOnMessage:
		return !isTick
	case FlushOnTick:
		return isTick
	default:
		return true
	}
}
