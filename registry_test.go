package pulse

import "testing"

// withFakeGoID stubs currentGoID for the duration of fn, restoring the
// real implementation afterward. Registry tests need deterministic,
// caller-controlled goroutine identities rather than racing the real
// scheduler.
func withFakeGoID(id int64, fn func()) {
	prev := currentGoID
	currentGoID = func() int64 { return id }
	defer func() { currentGoID = prev }()
	fn()
}

func TestRegistryContextForIsLazyAndStable(t *testing.T) {
	r := newRegistry(true, 16)

	var first, second *ThreadContext
	withFakeGoID(1, func() {
		first = r.contextFor()
		second = r.contextFor()
	})

	if first != second {
		t.Fatal("expected contextFor to return the same ThreadContext for the same goroutine id")
	}
	if first.GoID != 1 {
		t.Fatalf("expected GoID 1, got %d", first.GoID)
	}
}

func TestRegistrySnapshotVisibleAfterRegister(t *testing.T) {
	r := newRegistry(true, 16)

	withFakeGoID(1, func() { r.contextFor() })
	withFakeGoID(2, func() { r.contextFor() })

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected snapshot to contain 2 contexts, got %d", len(snap))
	}
}

func TestRegistryReapOnlyRemovesInvalidatedEmptyContexts(t *testing.T) {
	r := newRegistry(true, 16)

	var tc1, tc2 *ThreadContext
	withFakeGoID(1, func() { tc1 = r.contextFor() })
	withFakeGoID(2, func() { tc2 = r.contextFor() })

	tc1.Invalidate() // invalidated but still empty: eligible
	tc2.queue.PrepareWrite(8)
	tc2.queue.CommitWrite(8)
	tc2.Invalidate() // invalidated but non-empty: not eligible

	r.Reap()

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected reap to remove exactly the empty invalidated context, got %d remaining", len(snap))
	}
	if snap[0].GoID != 2 {
		t.Fatalf("expected the non-empty context (GoID 2) to survive, got GoID %d", snap[0].GoID)
	}
}

func TestRegistryInvalidateAllMarksEveryContext(t *testing.T) {
	r := newRegistry(true, 16)

	var tc1, tc2 *ThreadContext
	withFakeGoID(1, func() { tc1 = r.contextFor() })
	withFakeGoID(2, func() { tc2 = r.contextFor() })

	r.invalidateAll()

	if !tc1.Invalidated() || !tc2.Invalidated() {
		t.Fatal("expected invalidateAll to mark every registered context invalidated")
	}
}
