// handler.go: the Handler external-collaborator interface and
// per-logger details, per spec.md §6. Concrete handlers (console,
// file, network) live in the handlers package; this file only
// defines the interface the backend dispatches through, grounded on
// the teacher's sink.go WriteSyncer-family shape.
package pulse

import "sync/atomic"

// Handler is an external collaborator: the core assumes handlers
// never panic across the dispatch boundary (failures are recovered
// and isolated per spec.md §7) and are invoked only by the backend
// goroutine, so implementations need no internal synchronization.
type Handler interface {
	Write(formatted string, meta Metadata) error
	Flush() error
}

// loggerDetails is the backend-visible state of one Logger: name,
// handler list, and backtrace configuration. Mutated only before
// active logging begins or by the backend goroutine itself — the
// handler list is copy-on-write so concurrent readers on the backend
// never race a writer, per spec.md §5.
type loggerDetails struct {
	name string

	level *AtomicLevel // shared with the owning Logger's public level gate

	handlers atomic.Pointer[[]Handler]

	backtraceFlushLevel atomic.Int32 // Level, stored as int32 for atomic access
	backtrace           *backtraceBuffer
}

func newLoggerDetails(name string, level *AtomicLevel) *loggerDetails {
	d := &loggerDetails{name: name, level: level}
	empty := []Handler{}
	d.handlers.Store(&empty)
	d.backtraceFlushLevel.Store(int32(None))
	return d
}

func (d *loggerDetails) Handlers() []Handler {
	return *d.handlers.Load()
}

// SetHandlers atomically swaps in a new handler list (copy-on-write).
func (d *loggerDetails) SetHandlers(hs []Handler) {
	cp := make([]Handler, len(hs))
	copy(cp, hs)
	d.handlers.Store(&cp)
}

func (d *loggerDetails) BacktraceFlushLevel() Level {
	return Level(d.backtraceFlushLevel.Load())
}

func (d *loggerDetails) setBacktraceFlushLevel(l Level) {
	d.backtraceFlushLevel.Store(int32(l))
}

// dispatch runs formatted through every attached handler, isolating
// failures per spec.md §7: one handler's error does not stop the
// others, and is reported via the engine's ErrorHandler rather than
// propagated to the producer (which is long gone by dispatch time).
func (d *loggerDetails) dispatch(formatted string, meta Metadata) {
	for _, h := range d.Handlers() {
		if err := h.Write(formatted, meta); err != nil {
			handleError(newEngineError(ErrCodeHandlerFailure, "handler write failed").
				WithContext("logger", d.name).
				WithContext("cause", err.Error()))
		}
	}
}
