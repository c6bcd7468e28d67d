// Package pulsecfg is the declarative configuration layer for a pulse
// Engine: queue mode/capacity, time source selection, and default
// Logger level. Handlers are not part of Config; they are passed to
// Builder.NewLogger or Engine.NewLogger. Grounded on the teacher's config.go (Config struct
// with an explicit withDefaults()/Validate() pair, Architecture-style
// enum for a structural choice), narrowed to the knobs the core
// engine actually exposes — config-file and CLI parsing stay out of
// scope, per the core's own non-goals.
package pulsecfg

import (
	"fmt"
	"time"

	"github.com/agilira/pulse"
)

// QueueMode selects between the bounded (drop-on-full) and unbounded
// (grow-by-doubling) per-thread transport, spec.md §4.4.
type QueueMode int

const (
	// Bounded drops the newest record and increments a counter once
	// the per-thread queue is full. Default: predictable memory use.
	Bounded QueueMode = iota
	// Unbounded never refuses a write, growing by chaining
	// doubled-capacity segments instead.
	Unbounded
)

func (m QueueMode) String() string {
	switch m {
	case Bounded:
		return "bounded"
	case Unbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// ParseQueueMode parses a mode name, for config-file/CLI facades built
// on top of this package.
func ParseQueueMode(s string) (QueueMode, error) {
	switch s {
	case "bounded", "Bounded", "BOUNDED":
		return Bounded, nil
	case "unbounded", "Unbounded", "UNBOUNDED":
		return Unbounded, nil
	default:
		return Bounded, fmt.Errorf("pulsecfg: unknown queue mode %q", s)
	}
}

// TimeSourceMode selects which CycleSource implementation backs an
// Engine, spec.md §4.1.
type TimeSourceMode int

const (
	// WallClock stamps records with nanoseconds since the Unix epoch.
	// Portable, and the only mode that needs no calibration anchor.
	WallClock TimeSourceMode = iota
	// Monotonic stamps records with a synthetic cycle counter carrying
	// the full calibration-anchor/resync protocol.
	Monotonic
)

// Config centralizes the parameters needed to construct one pulse
// Engine and its Loggers. Immutable once passed to Build — callers
// should treat a Config as a value and Clone it before mutating a
// derived copy, following the teacher's own Config.Clone() contract.
type Config struct {
	// QueueMode selects the per-thread transport's overflow behavior.
	QueueMode QueueMode

	// QueueCapacity is the bounded queue's fixed slot count (Bounded
	// mode) or the unbounded queue's starting segment size (Unbounded
	// mode). Must be a power of two.
	QueueCapacity int64

	// TimeSourceMode selects the Engine's CycleSource.
	TimeSourceMode TimeSourceMode

	// ResyncInterval configures Monotonic's anchor refresh cadence.
	// Ignored in WallClock mode.
	ResyncInterval time.Duration

	// DefaultLevel is the initial threshold new Loggers are created
	// with unless overridden per-logger.
	DefaultLevel pulse.Level

	// Name identifies this configuration's owning component, surfaced
	// in diagnostic error context.
	Name string
}

// withDefaults fills in safe fallback values, mirroring the teacher's
// Config.withDefaults() copy-on-write idiom.
func (c *Config) withDefaults() *Config {
	out := *c

	if out.QueueCapacity <= 0 {
		out.QueueCapacity = 1024
	}
	if out.ResyncInterval <= 0 {
		out.ResyncInterval = 500 * time.Millisecond
	}
	// DefaultLevel's zero value is pulse.TraceL3 (iota 0), which is a
	// valid and deliberately permissive default: nothing is filtered
	// out until a caller raises the threshold.

	return &out
}

// Validate checks the configuration for errors a running Engine could
// not otherwise detect early, mirroring the teacher's Config.Validate().
func (c *Config) Validate() error {
	if c.QueueCapacity < 0 {
		return fmt.Errorf("pulsecfg: queue capacity cannot be negative, got %d", c.QueueCapacity)
	}
	if c.QueueCapacity > 0 && c.QueueCapacity&(c.QueueCapacity-1) != 0 {
		return fmt.Errorf("pulsecfg: queue capacity must be a power of two, got %d", c.QueueCapacity)
	}
	if c.DefaultLevel == pulse.Backtrace {
		return fmt.Errorf("pulsecfg: default level cannot be Backtrace")
	}
	return nil
}

// Clone returns a deep copy (the struct holds no reference types
// besides the string/duration/int scalars, so a value copy suffices).
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
