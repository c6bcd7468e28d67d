// transit.go: Transit Event and the backend's timestamp-ordered
// min-heap, spec.md §3 and §4.6.
package pulse

import "container/heap"

// transitEvent is a backend-side decoded record awaiting dispatch.
// Formatting (argument decode) is deferred until Commit releases it,
// per spec.md §4.6 step 2 — Poll only decodes the Header.
type transitEvent struct {
	ctx     *ThreadContext
	header  Header
	raw     []byte // the record's full byte run (Header + encoded args), still owned by the ring slot until FinishRead
	anySink []any
	arrival uint64
}

// transitHeap orders transitEvents by (timestamp, thread-context
// identity, intra-queue arrival order) — spec.md §4.6's documented,
// deterministic tie-break, resolving the Open Question spec.md §9
// raises.
type transitHeap []*transitEvent

func (h transitHeap) Len() int { return len(h) }

func (h transitHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.header.Timestamp != b.header.Timestamp {
		return a.header.Timestamp < b.header.Timestamp
	}
	if a.ctx.GoID != b.ctx.GoID {
		return a.ctx.GoID < b.ctx.GoID
	}
	return a.arrival < b.arrival
}

func (h transitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *transitHeap) Push(x any) { *h = append(*h, x.(*transitEvent)) }

func (h *transitHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

var _ heap.Interface = (*transitHeap)(nil)
