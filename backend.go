// backend.go: the Backend Drain loop, spec.md §4.6, and the Engine
// that owns it. New code, grounded on spec.md's own algorithm
// description and the teacher's single-dedicated-goroutine ownership
// model for handlers and backtrace buffers (iris.go).
package pulse

import (
	"container/heap"
	"sync"

	"github.com/agilira/pulse/internal/idle"
	"github.com/agilira/pulse/codec"
)

// fairnessPerContext bounds how many records the Poll step decodes
// from a single context per iteration, preserving starvation-freedom
// across contexts (spec.md §4.6 step 1). This implementation peeks
// one undispatched record per context at a time — the next is only
// peeked once the current one is dispatched and FinishRead — which
// already satisfies "never more than a bounded number" with the
// simplest possible bound.
const fairnessPerContext = 1

// Engine owns the Thread Context Registry, the backend goroutine,
// and the set of Loggers built from it. One Engine is a process-wide
// (or test-scoped) singleton, per spec.md §9's "Process-wide state"
// design note — constructed explicitly at startup, torn down
// explicitly at Close(), never via implicit global init.
type Engine struct {
	registry *threadContextRegistry
	time     CycleSource
	idleStr  idle.Strategy

	loggersMu sync.Mutex
	loggers   []*loggerDetails

	shutdown chan struct{}
	done     chan struct{}

	pending map[int64]*transitEvent
	heap    transitHeap
}

// EngineOption configures an Engine at construction, following the
// teacher's functional-option idiom (options.go).
type EngineOption func(*Engine)

// WithTimeSource selects the Time Source mode (spec.md §4.1). Default
// is WallClock().
func WithTimeSource(src CycleSource) EngineOption {
	return func(e *Engine) { e.time = src }
}

// WithIdleStrategy selects how the backend waits when every context
// is momentarily empty. Default is a Progressive strategy.
func WithIdleStrategy(s idle.Strategy) EngineOption {
	return func(e *Engine) { e.idleStr = s }
}

// bounded/capacity are per-context queue construction parameters,
// selected process-wide at engine start per spec.md §4.4.
func NewEngine(bounded bool, queueCapacity int64, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: newRegistry(bounded, queueCapacity),
		time:     WallClock(),
		idleStr:  idle.Progressive{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		pending:  make(map[int64]*transitEvent),
	}
	for _, opt := range opts {
		opt(e)
	}
	go e.run()
	return e
}

func (e *Engine) newLogger(name string, initialLevel Level) *Logger {
	level := NewAtomicLevel(initialLevel)
	details := newLoggerDetails(name, level)

	e.loggersMu.Lock()
	e.loggers = append(e.loggers, details)
	e.loggersMu.Unlock()

	return &Logger{engine: e, details: details, level: level}
}

// Close stops the backend after a full final drain, per spec.md §5's
// cancellation discipline: "first drains every queue to empty and
// emits a final reap before exit."
func (e *Engine) Close() {
	e.registry.invalidateAll()
	close(e.shutdown)
	<-e.done

	if closer, ok := e.time.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (e *Engine) run() {
	defer close(e.done)

	var emptyIterations int64
	for {
		select {
		case <-e.shutdown:
			e.drainToEmpty()
			e.registry.Reap()
			return
		default:
		}

		didWork := e.iterate()
		if didWork {
			emptyIterations = 0
			e.idleStr.Reset()
		} else {
			emptyIterations++
			e.idleStr.Idle(emptyIterations)
		}
	}
}

// drainToEmpty repeatedly iterates until no context has pending work
// and the heap is empty, used at shutdown.
func (e *Engine) drainToEmpty() {
	for {
		didWork := e.iterate()
		if !didWork && len(e.heap) == 0 && len(e.pending) == 0 {
			return
		}
	}
}

// iterate runs one Poll/Commit/Dispatch/Reap pass. Returns true if
// any record was polled or dispatched, so the caller can decide
// whether to idle.
func (e *Engine) iterate() bool {
	didWork := false

	contexts := e.registry.Snapshot()

	// Poll: ensure every context with available data has a pending
	// Transit Event, and compute the "provably safe to commit" bound
	// (spec.md §4.6 step 1-2).
	var bound uint64
	boundSet := false

	for _, ctx := range contexts {
		if _, ok := e.pending[ctx.GoID]; !ok {
			if buf := ctx.queue.PrepareRead(); buf != nil {
				header := readHeader(buf)
				anySink := ctx.queue.PrepareReadAny()
				ev := &transitEvent{
					ctx:     ctx,
					header:  header,
					raw:     buf,
					anySink: anySink,
					arrival: ctx.nextArrival(),
				}
				e.pending[ctx.GoID] = ev
				heap.Push(&e.heap, ev)
				didWork = true
			}
		}

		var candidate uint64
		if ev, ok := e.pending[ctx.GoID]; ok {
			candidate = ev.header.Timestamp
		} else {
			candidate = e.time.Now()
		}
		if !boundSet || candidate < bound {
			bound = candidate
			boundSet = true
		}
	}

	// Commit + Dispatch: pop everything provably safe, in timestamp
	// (then tie-break) order (spec.md §4.6 steps 2-4).
	for len(e.heap) > 0 && e.heap[0].header.Timestamp <= bound {
		ev := heap.Pop(&e.heap).(*transitEvent)
		delete(e.pending, ev.ctx.GoID)
		e.dispatch(ev)
		ev.ctx.queue.FinishRead(len(ev.raw))
		didWork = true
	}

	// Reap: only safe when the heap (and thus all pending backend
	// references) is empty (spec.md §4.5, §4.6 step 5).
	if len(e.heap) == 0 {
		e.registry.Reap()
	}

	return didWork
}

func (e *Engine) dispatch(ev *transitEvent) {
	logger := ev.header.Logger
	meta := ev.header.Descriptor.Meta

	switch meta.Kind {
	case EventLog:
		_, rendered := ev.header.Descriptor.Decode(ev.raw[HeaderSize:], ev.anySink)
		threshold := logger.level.Load()
		if meta.Level < threshold {
			if logger.backtrace != nil {
				logger.backtrace.append(bufferedEvent{formatted: rendered, meta: meta})
			}
			return
		}
		logger.dispatch(rendered, meta)
		if logger.backtrace != nil && meta.Level >= logger.BacktraceFlushLevel() {
			e.flushBacktrace(logger)
		}

	case EventInitBacktrace:
		// flush_level was already recorded synchronously by InitBacktrace
		// on the producer goroutine (logger.go), so the gate in Log is
		// never stale for events logged right after InitBacktrace returns
		// (spec.md §8 scenario S3). Only the ring allocation itself, which
		// spec.md §5 reserves to the backend, happens here.
		capacity, _ := codec.DecodeIntPair(ev.raw[HeaderSize:])
		logger.backtrace = newBacktraceBuffer(int(capacity))

	case EventFlushBacktrace:
		if logger.backtrace != nil {
			e.flushBacktrace(logger)
		}

	case EventFlush:
		if len(ev.anySink) > 0 {
			if sig, ok := ev.anySink[0].(chan struct{}); ok {
				close(sig)
			}
		}
	}
}

// flushBacktrace drains logger's ring through its handlers in
// insertion order, oldest first (spec.md §4.7).
func (e *Engine) flushBacktrace(logger *loggerDetails) {
	for _, be := range logger.backtrace.drain() {
		logger.dispatch(be.formatted, be.meta)
	}
}

