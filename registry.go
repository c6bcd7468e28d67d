// registry.go: the Thread Context Registry, spec.md §4.5.
//
// snapshot() is lock-free: readers load an atomically-swapped slice
// pointer, grounded on the teacher's copy-on-write MultiWriter
// pattern in multiwriter.go, applied here to registry snapshots
// rather than writer fan-out lists. register() and reap() serialize
// through a mutex, matching spec.md §5's "protected by a lightweight
// lock on registration and reap."
package pulse

import (
	"sync"
	"sync/atomic"
)

type threadContextRegistry struct {
	mu       sync.Mutex
	live     map[int64]*ThreadContext
	snapshot atomic.Pointer[[]*ThreadContext]

	bounded  bool
	capacity int64
}

func newRegistry(bounded bool, capacity int64) *threadContextRegistry {
	r := &threadContextRegistry{
		live:     make(map[int64]*ThreadContext),
		bounded:  bounded,
		capacity: capacity,
	}
	empty := []*ThreadContext{}
	r.snapshot.Store(&empty)
	return r
}

// contextFor returns the calling goroutine's ThreadContext, creating
// and registering one lazily on first use, per spec.md §4.4.
func (r *threadContextRegistry) contextFor() *ThreadContext {
	id := currentGoID()

	r.mu.Lock()
	if tc, ok := r.live[id]; ok {
		r.mu.Unlock()
		return tc
	}
	tc := newThreadContext(id, r.bounded, r.capacity)
	r.live[id] = tc
	r.publishSnapshot()
	r.mu.Unlock()
	return tc
}

// publishSnapshot must be called with mu held.
func (r *threadContextRegistry) publishSnapshot() {
	next := make([]*ThreadContext, 0, len(r.live))
	for _, tc := range r.live {
		next = append(next, tc)
	}
	r.snapshot.Store(&next)
}

// Snapshot returns a cheap, lock-free view of all registered
// contexts, guaranteed to include every context registered before
// this call returns (spec.md §4.5).
func (r *threadContextRegistry) Snapshot() []*ThreadContext {
	return *r.snapshot.Load()
}

// Reap removes contexts that are invalidated, empty, and unreferenced
// by the backend's pending heap. The backend only calls this when its
// priority queue is empty, which already guarantees the "no pending
// backend reference" half of spec.md §4.5's condition.
func (r *threadContextRegistry) Reap() {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false
	for id, tc := range r.live {
		if tc.Invalidated() && tc.queue.Empty() {
			delete(r.live, id)
			changed = true
		}
	}
	if changed {
		r.publishSnapshot()
	}
}

// invalidateAll marks every known context invalidated, used at
// engine shutdown before the final drain-and-reap (spec.md §5
// "Cancellation & timeouts").
func (r *threadContextRegistry) invalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tc := range r.live {
		tc.Invalidate()
	}
}
