package ring

// Ring is a size-bounded FIFO buffer. Pushing past capacity evicts the
// oldest element. It keeps insertion order, so a snapshot reads back in
// call order.
//
// Ring is intentionally not self-locking: each instance is owned by a
// single wrapper whose mutex covers every access.
type Ring[T any] struct {
	vals  []T
	head  int
	count int
}

func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ring: capacity should be greater than 0")
	}
	return &Ring[T]{vals: make([]T, capacity)}
}

// Push appends v, evicting the oldest element once the ring is full.
func (r *Ring[T]) Push(v T) {
	if r.count < len(r.vals) {
		r.vals[(r.head+r.count)%len(r.vals)] = v
		r.count++
		return
	}
	r.vals[r.head] = v
	r.head = (r.head + 1) % len(r.vals)
}

func (r *Ring[T]) Len() int { return r.count }

func (r *Ring[T]) Cap() int { return len(r.vals) }

// Snapshot returns the buffered elements oldest-first.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.vals[(r.head+i)%len(r.vals)]
	}
	return out
}
