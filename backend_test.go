package pulse

import (
	"testing"

	"github.com/agilira/pulse/codec"
	"github.com/agilira/pulse/internal/ring"
)

// fakeCycleSource hands out a caller-controlled timestamp (next), so a
// test can fix every record's timestamp to a known value.
type fakeCycleSource struct {
	next uint64
}

func (f *fakeCycleSource) Now() uint64 { return f.next }
func (f *fakeCycleSource) ToNanos(raw uint64) uint64 { return raw }

func TestEngineSingleThreadOrdering(t *testing.T) {
	engine := NewEngine(true, 1024)
	defer engine.Close()

	h := &recordingHandler{}
	logger := engine.NewLogger("s1", Info, h)
	site := Site("TestEngineSingleThreadOrdering:msg", NewMetadata("f.go", "f", "1", "{}={}", Info, EventLog), codec.String(""), codec.Int(0))

	logger.Log(site, codec.String("a"), codec.Int(1))
	logger.Log(site, codec.String("b"), codec.Int(2))
	logger.Log(site, codec.String("c"), codec.Int(3))
	logger.Flush()

	want := []string{"a=1", "b=2", "c=3"}
	if len(h.lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, h.lines)
	}
	for i := range want {
		if h.lines[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, h.lines)
		}
	}
}

// TestBoundedModeDropCounting exercises spec scenario S4 directly
// against the ring package (internal/ring/ring_test.go covers the
// drop mechanics in more depth); forcing a live Logger's producer
// side to out-race a concurrently-running backend goroutine would be
// inherently non-deterministic, so this confirms the counter
// Logger.Dropped() forwards to without involving the backend.
func TestBoundedModeDropCounting(t *testing.T) {
	q := ring.NewBounded(2)
	for i := 0; i < 5; i++ {
		if _, ok := q.PrepareWrite(8); ok {
			q.CommitWrite(8)
		}
	}
	if got := q.Dropped(); got != 3 {
		t.Fatalf("expected 3 drops with capacity 2 and 5 writes, got %d", got)
	}
}

func TestEngineFlushControlBlocksUntilDrained(t *testing.T) {
	engine := NewEngine(true, 1024, WithTimeSource(&fakeCycleSource{next: 1}))
	defer engine.Close()

	h := &recordingHandler{}
	logger := engine.NewLogger("s6", Info, h)
	site := Site("TestEngineFlushControlBlocksUntilDrained:msg", NewMetadata("f.go", "f", "1", "n={}", Info, EventLog), codec.Int(0))

	for i := 0; i < 20; i++ {
		logger.Log(site, codec.Int(int64(i)))
	}
	logger.Flush()

	if len(h.lines) != 20 {
		t.Fatalf("expected all 20 records dispatched before Flush returned, got %d", len(h.lines))
	}
}

func TestEngineCloseDrainsBeforeExit(t *testing.T) {
	engine := NewEngine(true, 1024)
	h := &recordingHandler{}
	logger := engine.NewLogger("close", Info, h)
	site := Site("TestEngineCloseDrainsBeforeExit:msg", NewMetadata("f.go", "f", "1", "n={}", Info, EventLog), codec.Int(0))
	for i := 0; i < 10; i++ {
		logger.Log(site, codec.Int(int64(i)))
	}
	engine.Close()

	if len(h.lines) != 10 {
		t.Fatalf("expected full drain on Close, got %d", len(h.lines))
	}
}
