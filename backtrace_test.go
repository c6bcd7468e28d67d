package pulse

import (
	"reflect"
	"testing"
)

func TestBacktraceBufferDrainsOldestFirst(t *testing.T) {
	b := newBacktraceBuffer(3)
	b.append(bufferedEvent{formatted: "x=1"})
	b.append(bufferedEvent{formatted: "x=2"})
	b.append(bufferedEvent{formatted: "x=3"})

	drained := b.drain()
	got := make([]string, len(drained))
	for i, e := range drained {
		got[i] = e.formatted
	}

	want := []string{"x=1", "x=2", "x=3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBacktraceBufferEvictsOldestOnOverflow(t *testing.T) {
	b := newBacktraceBuffer(3)
	for i := 1; i <= 4; i++ {
		b.append(bufferedEvent{formatted: formatN(i)})
	}

	drained := b.drain()
	got := make([]string, len(drained))
	for i, e := range drained {
		got[i] = e.formatted
	}

	want := []string{"x=2", "x=3", "x=4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected the oldest entry evicted, got %v want %v", got, want)
	}
}

func TestBacktraceBufferDrainEmptiesTheRing(t *testing.T) {
	b := newBacktraceBuffer(2)
	b.append(bufferedEvent{formatted: "x=1"})
	b.drain()

	if drained := b.drain(); drained != nil {
		t.Fatalf("expected a second drain to return nothing, got %v", drained)
	}
}

func formatN(i int) string {
	switch i {
	case 1:
		return "x=1"
	case 2:
		return "x=2"
	case 3:
		return "x=3"
	default:
		return "x=4"
	}
}
