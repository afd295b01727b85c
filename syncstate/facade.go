package syncstate

import "fmt"

// ValueKey is the canonical facade key. It is the only key the facade
// enumerates and the only access path callers should rely on.
const ValueKey = "value"

// Facade is a read-only projection over a cell. It always reflects the last
// requested value, including writes that the host has not yet committed, so
// every holder of the same facade observes updates immediately. It carries no
// data of its own and has no write path; after the owning state closes it
// stays readable and keeps returning the final value.
type Facade[T any] struct {
	cell *Cell[T]
}

func newFacade[T any](cell *Cell[T]) *Facade[T] {
	return &Facade[T]{cell: cell}
}

// Value returns the latest requested value.
func (f *Facade[T]) Value() T {
	if f == nil {
		var zero T
		return zero
	}
	return f.cell.Value()
}

// Get returns the whole current value for any key, not a sub-field of it.
// Only ValueKey is contract; answering every other key the same way is
// preserved compatibility behavior for callers that traverse generically.
func (f *Facade[T]) Get(_ string) T {
	return f.Value()
}

// Has reports true for every key, consistent with Get answering every key.
func (f *Facade[T]) Has(_ string) bool {
	return true
}

// Keys enumerates the single canonical key regardless of the permissive
// Has/Get behavior. The asymmetry is deliberate: enumeration is for
// introspection, access is permissive for ergonomics.
func (f *Facade[T]) Keys() []string {
	return []string{ValueKey}
}

// String renders the current value, so formatting the facade itself is
// equivalent to formatting Value().
func (f *Facade[T]) String() string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprint(f.cell.Value())
}
