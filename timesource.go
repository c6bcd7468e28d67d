// timesource.go: the Time Source component, spec.md §4.1.
//
// Go has no portable RDTSC/cycle-counter read without per-arch
// assembly, so this module exposes a CycleSource abstraction with
// two implementations: a wall-clock source (the default, and the
// only one exercised on platforms without an arch-specific counter)
// and a monotonicCycleSource that still carries the full
// calibration-anchor/resync discipline spec.md §4.1 requires, over a
// synthetic "cycle" derived from time.Now(). Loosely grounded on the
// teacher's timecache.go cached-nanosecond-ticker idea, substantially
// extended here to cover the anchor/resync protocol timecache.go
// does not attempt.
package pulse

import (
	"sync/atomic"
	"time"
)

// CycleSource reads a monotonically-increasing-per-thread timestamp
// and knows how to convert it to epoch nanoseconds.
type CycleSource interface {
	// Now returns the raw timestamp to stamp into a record's Header.
	Now() uint64
	// ToNanos converts a raw timestamp from Now() to nanoseconds since
	// the Unix epoch, using the source's current calibration.
	ToNanos(raw uint64) uint64
}

// wallClockSource implements spec.md §4.1's wall-clock mode directly:
// timestamp is nanoseconds since the Unix epoch.
type wallClockSource struct{}

func (wallClockSource) Now() uint64              { return uint64(time.Now().UnixNano()) }
func (wallClockSource) ToNanos(raw uint64) uint64 { return raw }

// WallClock is the default, portable Time Source.
func WallClock() CycleSource { return wallClockSource{} }

// anchor is a (cycles, epoch_nanos) calibration pair, refreshed
// periodically per spec.md §4.1. Stored packed so a reader gets a
// consistent pair without a lock: the two fields are combined into
// one atomic store of a pointer to an immutable struct.
type anchor struct {
	cycles     uint64
	epochNanos uint64
}

// monotonicCycleSource carries the calibration-anchor/resync protocol
// of spec.md §4.1 over a synthetic cycle counter (nanoseconds since
// an arbitrary process-start epoch, ratio fixed at 1.0), so the
// anchor machinery is exercised even without platform-specific TSC
// assembly. Resync never reorders already-assigned timestamps,
// because the synthetic counter is itself monotonic nanosecond time.
type monotonicCycleSource struct {
	start     time.Time
	anchorPtr atomic.Pointer[anchor]
	resync    time.Duration
	stop      chan struct{}
}

// NewMonotonicCycleSource starts a synthetic cycle-counter mode Time
// Source, refreshing its calibration anchor every resyncInterval.
func NewMonotonicCycleSource(resyncInterval time.Duration) *monotonicCycleSource {
	if resyncInterval <= 0 {
		resyncInterval = 500 * time.Millisecond
	}
	s := &monotonicCycleSource{
		start:  time.Now(),
		resync: resyncInterval,
		stop:   make(chan struct{}),
	}
	s.anchorPtr.Store(&anchor{cycles: 0, epochNanos: uint64(s.start.UnixNano())})
	go s.resyncLoop()
	return s
}

func (s *monotonicCycleSource) resyncLoop() {
	t := time.NewTicker(s.resync)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			now := time.Now()
			s.anchorPtr.Store(&anchor{
				cycles:     uint64(now.Sub(s.start)),
				epochNanos: uint64(now.UnixNano()),
			})
		}
	}
}

// Close stops the background resync goroutine.
func (s *monotonicCycleSource) Close() { close(s.stop) }

func (s *monotonicCycleSource) Now() uint64 {
	return uint64(time.Since(s.start))
}

// ToNanos converts a raw synthetic-cycle value using the
// most-recently-refreshed anchor. Because the synthetic "cycle" unit
// is itself nanoseconds-since-start (ratio 1.0), conversion is a
// direct translation through the anchor's epoch offset rather than a
// cycles-per-nanosecond multiplication. The backend does not call
// ToNanos; it orders records by their raw timestamps.
func (s *monotonicCycleSource) ToNanos(raw uint64) uint64 {
	a := s.anchorPtr.Load()
	return a.epochNanos + (raw - a.cycles)
}
