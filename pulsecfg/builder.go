package pulsecfg

import (
	"errors"
	"time"

	"github.com/agilira/pulse"
)

// Builder builds a pulse.Engine with fluent configuration, grounded on
// the teacher's Builder[T] pattern (NewBuilder → With* chain →
// Build() (*T, error)).
type Builder struct {
	cfg    Config
	engine *pulse.Engine
}

// NewBuilder starts a Builder with Config's zero value.
func NewBuilder() *Builder {
	return &Builder{}
}

// FromConfig starts a Builder seeded from an existing Config.
func FromConfig(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

func (b *Builder) WithQueueMode(m QueueMode) *Builder {
	b.cfg.QueueMode = m
	return b
}

func (b *Builder) WithQueueCapacity(capacity int64) *Builder {
	b.cfg.QueueCapacity = capacity
	return b
}

func (b *Builder) WithTimeSourceMode(m TimeSourceMode) *Builder {
	b.cfg.TimeSourceMode = m
	return b
}

func (b *Builder) WithResyncInterval(d time.Duration) *Builder {
	b.cfg.ResyncInterval = d
	return b
}

func (b *Builder) WithDefaultLevel(l pulse.Level) *Builder {
	b.cfg.DefaultLevel = l
	return b
}

func (b *Builder) WithName(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Build validates the accumulated configuration and constructs the
// Engine it describes. The returned Engine starts its backend
// goroutine immediately, per pulse.NewEngine's contract. The resolved
// configuration (including DefaultLevel) is retained on b, so NewLogger
// can apply it to Loggers built afterward.
func (b *Builder) Build() (*pulse.Engine, error) {
	cfg := b.cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var timeSource pulse.CycleSource
	switch cfg.TimeSourceMode {
	case Monotonic:
		timeSource = pulse.NewMonotonicCycleSource(cfg.ResyncInterval)
	default:
		timeSource = pulse.WallClock()
	}

	bounded := cfg.QueueMode != Unbounded
	engine := pulse.NewEngine(bounded, cfg.QueueCapacity, pulse.WithTimeSource(timeSource))

	b.cfg = *cfg
	b.engine = engine
	return engine, nil
}

// NewLogger builds a Logger on this Builder's Engine, using
// Config.DefaultLevel as its initial threshold — the knob Build()
// itself has no way to apply, since pulse.Engine has no notion of a
// default Logger level of its own. Must be called after Build.
func (b *Builder) NewLogger(name string, handlers ...pulse.Handler) (*pulse.Logger, error) {
	if b.engine == nil {
		return nil, errors.New("pulsecfg: NewLogger called before Build")
	}
	return b.engine.NewLogger(name, b.cfg.DefaultLevel, handlers...), nil
}
