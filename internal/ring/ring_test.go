package ring

import (
	"testing"
)

func TestBoundedWriteReadRoundTrip(t *testing.T) {
	q := NewBounded(8)

	buf, ok := q.PrepareWrite(5)
	if !ok {
		t.Fatalf("expected PrepareWrite to succeed on empty queue")
	}
	copy(buf, []byte("hello"))
	q.CommitWrite(5)

	got := q.PrepareRead()
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	q.FinishRead(5)

	if !q.Empty() {
		t.Fatalf("expected queue empty after FinishRead")
	}
}

func TestBoundedDropsWhenFull(t *testing.T) {
	q := NewBounded(2)

	for i := 0; i < 2; i++ {
		buf, ok := q.PrepareWrite(1)
		if !ok {
			t.Fatalf("write %d: expected success", i)
		}
		buf[0] = byte(i)
		q.CommitWrite(1)
	}

	if _, ok := q.PrepareWrite(1); ok {
		t.Fatalf("expected queue full to refuse write")
	}
	if q.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", q.Dropped())
	}
}

func TestUnboundedNeverRefuses(t *testing.T) {
	q := NewUnbounded(2)

	for i := 0; i < 50; i++ {
		buf, ok := q.PrepareWrite(1)
		if !ok {
			t.Fatalf("write %d: unbounded queue must never refuse", i)
		}
		buf[0] = byte(i)
		q.CommitWrite(1)
	}

	for i := 0; i < 50; i++ {
		got := q.PrepareRead()
		if got == nil || got[0] != byte(i) {
			t.Fatalf("read %d: got %v", i, got)
		}
		q.FinishRead(1)
	}
	if !q.Empty() {
		t.Fatalf("expected empty after draining all writes")
	}
}

func TestAnySinkRoundTrip(t *testing.T) {
	q := NewBounded(4)

	_, ok := q.PrepareWrite(8)
	if !ok {
		t.Fatalf("expected write to succeed")
	}
	sink := q.AnySink()
	*sink = append(*sink, "boxed-value")
	q.CommitWrite(8)

	q.PrepareRead()
	anys := q.PrepareReadAny()
	if len(anys) != 1 || anys[0] != "boxed-value" {
		t.Fatalf("got anys=%v", anys)
	}
	q.FinishRead(8)
}

func TestFIFOOrderPreserved(t *testing.T) {
	q := NewBounded(16)

	for i := 0; i < 10; i++ {
		buf, ok := q.PrepareWrite(1)
		if !ok {
			t.Fatalf("write %d failed", i)
		}
		buf[0] = byte(i)
		q.CommitWrite(1)
	}
	for i := 0; i < 10; i++ {
		got := q.PrepareRead()
		if got[0] != byte(i) {
			t.Fatalf("order violated at %d: got %d", i, got[0])
		}
		q.FinishRead(1)
	}
}
