// Package window provides the fixed-capacity record buffers backing the
// analytics projections. Appending past capacity evicts exactly one element
// from the opposite end; capacity never changes after construction.
package window

// Window is a bounded ordered buffer of T.
//
// Two configurations exist and must not be confused: a history window appends
// at the tail and evicts from the head (chronological read order), a live-feed
// window inserts at the head and evicts from the tail (newest-first read
// order). Windows are not safe for concurrent use; the aggregation store
// serializes mutation.
type Window[T any] struct {
	items      []T
	capacity   int
	headInsert bool
}

// NewHistory returns a window that appends at the tail and evicts the oldest
// element from the head. Snapshots read in chronological order.
// capacity must be > 0; NewHistory panics otherwise.
func NewHistory[T any](capacity int) *Window[T] {
	mustPositive(capacity)
	return &Window[T]{items: make([]T, 0, capacity), capacity: capacity}
}

// NewLiveFeed returns a window that inserts at the head and evicts from the
// tail. Snapshots read newest-first. capacity must be > 0.
func NewLiveFeed[T any](capacity int) *Window[T] {
	mustPositive(capacity)
	return &Window[T]{items: make([]T, 0, capacity), capacity: capacity, headInsert: true}
}

func mustPositive(capacity int) {
	if capacity <= 0 {
		panic("window: capacity must be positive")
	}
}

// Append inserts item at the window's configured end. When the window is full
// it evicts exactly one element from the opposite end.
func (w *Window[T]) Append(item T) {
	if w.headInsert {
		if len(w.items) == w.capacity {
			w.items = w.items[:len(w.items)-1]
		}
		w.items = append([]T{item}, w.items...)
		return
	}
	if len(w.items) == w.capacity {
		copy(w.items, w.items[1:])
		w.items = w.items[:len(w.items)-1]
	}
	w.items = append(w.items, item)
}

// Replace swaps the window contents wholesale, keeping at most capacity
// elements. A history window keeps the last capacity elements of items (the
// most recent of a chronological array); a live-feed window keeps the first.
func (w *Window[T]) Replace(items []T) {
	n := len(items)
	if n > w.capacity {
		if w.headInsert {
			items = items[:w.capacity]
		} else {
			items = items[n-w.capacity:]
		}
		n = w.capacity
	}
	w.items = w.items[:0]
	w.items = append(w.items, items...)
}

// Snapshot returns a copy of the window contents in canonical read order.
// Callers own the returned slice; it never aliases window storage.
func (w *Window[T]) Snapshot() []T {
	out := make([]T, len(w.items))
	copy(out, w.items)
	return out
}

// Len returns the current number of elements.
func (w *Window[T]) Len() int { return len(w.items) }

// Cap returns the fixed capacity.
func (w *Window[T]) Cap() int { return w.capacity }
