// Package idle provides wait strategies for the backend drain loop
// when every producer queue is momentarily empty.
package idle

import (
	"runtime"
	"time"
)

// Strategy decides how the backend goroutine waits between empty
// poll iterations. Idle is called once per empty iteration; it
// returns after waiting whatever amount it deems appropriate and
// resets itself on the next call to Reset.
type Strategy interface {
	Idle(emptyIterations int64)
	Reset()
}

// Spinning never sleeps; lowest latency, highest CPU cost. Suitable
// only for dedicated-core backend deployments.
type Spinning struct{}

func (Spinning) Idle(int64) {}
func (Spinning) Reset()     {}

// Yielding calls runtime.Gosched() every iteration.
type Yielding struct{}

func (Yielding) Idle(int64) { runtime.Gosched() }
func (Yielding) Reset()     {}

// Sleeping sleeps a fixed duration every empty iteration.
type Sleeping struct {
	Duration time.Duration
}

func (s Sleeping) Idle(int64) {
	d := s.Duration
	if d <= 0 {
		d = time.Millisecond
	}
	time.Sleep(d)
}
func (Sleeping) Reset() {}

// Progressive spins briefly, then yields, then sleeps with backoff,
// matching the spin-then-yield-then-sleep discipline the teacher's
// idle strategies use to balance latency against CPU burn.
type Progressive struct {
	SpinLimit  int64
	YieldLimit int64
	MaxSleep   time.Duration
}

func (p Progressive) Idle(emptyIterations int64) {
	spinLimit := p.SpinLimit
	if spinLimit <= 0 {
		spinLimit = 1 << 14
	}
	yieldLimit := p.YieldLimit
	if yieldLimit <= 0 {
		yieldLimit = spinLimit + 1000
	}
	maxSleep := p.MaxSleep
	if maxSleep <= 0 {
		maxSleep = time.Millisecond
	}

	switch {
	case emptyIterations < spinLimit:
		// pure spin
	case emptyIterations < yieldLimit:
		runtime.Gosched()
	default:
		backoff := time.Duration(emptyIterations-yieldLimit) * time.Microsecond
		if backoff > maxSleep {
			backoff = maxSleep
		}
		time.Sleep(backoff)
	}
}

func (Progressive) Reset() {}
