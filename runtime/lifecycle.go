package runtime

// Lifecycle is implemented by components hosted on a loop. Components that
// own synced state typically create it in Mount using the loop's scheduler
// and Close it in Unmount, which discards any not-yet-fired callbacks.
type Lifecycle interface {
	Mount(loop *Loop)
	Unmount()
}

func mountAll(loop *Loop, components []Lifecycle) {
	for _, c := range components {
		if c != nil {
			c.Mount(loop)
		}
	}
}

// unmountAll tears components down in reverse mount order.
func unmountAll(components []Lifecycle) {
	for i := len(components) - 1; i >= 0; i-- {
		if components[i] != nil {
			components[i].Unmount()
		}
	}
}
