// logger.go: the Logger Handle, spec.md §4.8. Grounded on the
// teacher's iris.go Logger shape (level-gated convenience methods,
// Close()/drain-then-signal pattern) generalized to this spec's
// exact hot-path steps.
package pulse

import (
	"github.com/agilira/pulse/codec"
	"github.com/agilira/pulse/internal/ring"
)

// Logger is the public entry point call sites use. Construct one via
// Engine.NewLogger.
type Logger struct {
	engine  *Engine
	details *loggerDetails
	level   *AtomicLevel

	initBacktraceSite  *Descriptor
	flushBacktraceSite *Descriptor
	flushSite          *Descriptor
}

// NewLogger creates a Logger attached to this Engine, with its own
// independent level threshold and handler list.
func (e *Engine) NewLogger(name string, initialLevel Level, handlers ...Handler) *Logger {
	l := e.newLogger(name, initialLevel)
	if len(handlers) > 0 {
		l.details.SetHandlers(handlers)
	}
	l.initBacktraceSite = Site("pulse:init_backtrace:"+name, NewMetadata("", "InitBacktrace", "", "", None, EventInitBacktrace), codec.Int(0), codec.Int(0))
	l.flushBacktraceSite = Site("pulse:flush_backtrace:"+name, NewMetadata("", "FlushBacktrace", "", "", None, EventFlushBacktrace))
	l.flushSite = Site("pulse:flush:"+name, NewMetadata("", "Flush", "", "", None, EventFlush), codec.Any(nil))
	return l
}

// Level returns the current threshold (relaxed-ordered read, spec.md §4.8).
func (l *Logger) Level() Level { return l.level.Load() }

// SetLevel updates the threshold. Rejects Backtrace per spec.md §3/§7.
func (l *Logger) SetLevel(lvl Level) error { return l.level.Store(lvl) }

// ShouldLog reports whether a call at lvl would be dispatched given
// the current threshold: l >= level() (spec.md §4.8).
func (l *Logger) ShouldLog(lvl Level) bool { return lvl >= l.level.Load() }

// Handlers returns the logger's current handler list.
func (l *Logger) Handlers() []Handler { return l.details.Handlers() }

// SetHandlers atomically replaces the handler list (copy-on-write).
func (l *Logger) SetHandlers(hs []Handler) { l.details.SetHandlers(hs) }

// Log is the hot path: spec.md §4.8's six steps, all on the caller's
// goroutine. A call below the active threshold is dropped unless a
// backtrace buffer is active, in which case it still flows through
// to the backend so the backend can route it into the ring — this is
// the "backtrace path" spec.md §4.6 step 4 references.
func (l *Logger) Log(site *Descriptor, args ...codec.Arg) {
	threshold := l.level.Load()
	backtraceActive := l.details.BacktraceFlushLevel() != None
	if site.Meta.Level < threshold && !backtraceActive {
		return
	}

	ctx := l.engine.registry.contextFor()
	encSize := codec.EncodedSize(args...)
	total := HeaderSize + encSize

	headerDescriptor := site
	if total > ring.MaxRecordSize {
		// Oversized record: documented truncation policy (spec.md §4.2
		// "Failure"). Args are dropped, and the Header points at a
		// schema-empty twin of site rather than site itself, so the
		// backend's decoder never walks past this record's header-only
		// payload looking for arguments that were never written.
		total = HeaderSize
		headerDescriptor = site.truncatedVariant()
	}

	buf, ok := ctx.queue.PrepareWrite(total)
	if !ok {
		return // bounded queue full: ring already incremented its dropped counter
	}

	writeHeader(buf, Header{
		Descriptor: headerDescriptor,
		Logger:     l.details,
		Timestamp:  l.engine.time.Now(),
	})

	if total > HeaderSize {
		anySink := ctx.queue.AnySink()
		codec.Encode(buf[HeaderSize:total], anySink, args...)
	}

	ctx.queue.CommitWrite(total)
}

// InitBacktrace configures this logger's backtrace ring, per
// spec.md §4.8. flush_level is recorded synchronously, on the calling
// goroutine, before anything is enqueued: Log's gate for sub-threshold
// events reads it on the producer side (spec.md §4.8 step 2 /
// "backtrace path"), and a producer that calls InitBacktrace followed
// immediately by sub-threshold Log calls (spec.md §8 scenario S3) must
// see it active for every one of them, not only once the backend gets
// around to a control message it hasn't polled yet. The ring itself
// (sized by capacity) is still allocated on the backend goroutine, via
// the control message, per spec.md §5's rule that only the backend
// mutates a backtrace buffer.
func (l *Logger) InitBacktrace(capacity int, flushLevel Level) {
	l.details.setBacktraceFlushLevel(flushLevel)
	l.Log(l.initBacktraceSite, codec.Int(int64(capacity)), codec.Int(int64(flushLevel)))
}

// FlushBacktrace enqueues a FlushBacktrace control message.
func (l *Logger) FlushBacktrace() {
	l.Log(l.flushBacktraceSite)
}

// Flush enqueues a Flush control message and blocks until the
// backend, having drained every prior record, signals completion
// (spec.md §4.8 and §8 scenario S6).
func (l *Logger) Flush() {
	signal := make(chan struct{})
	l.Log(l.flushSite, codec.Any(signal))
	<-signal
}

// Dropped returns the calling goroutine's dropped-message count,
// creating and registering that goroutine's Thread Context first if
// it has none yet. The count covers every Logger of the Engine that
// this goroutine writes through, not only this one. Intended
// for diagnostics, per spec.md §7's "dropped counts are made
// available via the registry."
func (l *Logger) Dropped() int64 {
	ctx := l.engine.registry.contextFor()
	return ctx.Dropped()
}
