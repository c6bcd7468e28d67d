// threadcontext.go: Thread Context, spec.md §3 and §4.4.
//
// Go has no goroutine-local storage; per-producer identity is
// obtained via github.com/petermattis/goid, the standard ecosystem
// answer to this exact gap (not present in any retrieved example
// repo — named explicitly here per the no-fabrication rule; see
// SPEC_FULL.md's DOMAIN STACK section).
package pulse

import (
	"sync/atomic"

	"github.com/petermattis/goid"

	"github.com/agilira/pulse/internal/ring"
)

// ThreadContext is owned by a single producer goroutine. Created
// lazily on first use and registered with the Thread Context
// Registry. Goroutine exit is not detected: a context is marked
// invalidated only by Invalidate, which Engine.Close calls for every
// context, and it is removed only once the registry's Reap finds it
// invalidated and its queue empty.
type ThreadContext struct {
	GoID        int64
	queue       *ring.Queue
	invalidated atomic.Bool

	// arrivalSeq is a per-context monotonic counter stamped onto each
	// Transit Event at decode time, used only for the backend's
	// intra-queue tie-break (spec.md §4.6) — it is backend-local
	// bookkeeping, not part of the wire Header.
	arrivalSeq uint64
}

func newThreadContext(id int64, bounded bool, capacity int64) *ThreadContext {
	var q *ring.Queue
	if bounded {
		q = ring.NewBounded(capacity)
	} else {
		q = ring.NewUnbounded(capacity)
	}
	return &ThreadContext{GoID: id, queue: q}
}

func (t *ThreadContext) Invalidate() { t.invalidated.Store(true) }
func (t *ThreadContext) Invalidated() bool { return t.invalidated.Load() }

// Dropped returns the bounded-mode dropped-message counter.
func (t *ThreadContext) Dropped() int64 { return t.queue.Dropped() }

func (t *ThreadContext) nextArrival() uint64 {
	t.arrivalSeq++
	return t.arrivalSeq
}

// currentGoID reads the calling goroutine's id. Exposed as a
// variable so tests can stub it without dragging in real goroutine
// scheduling concerns.
var currentGoID = goid.Get
