// Package pulse implements the core engine of an asynchronous,
// low-latency structured logging system: call-site argument
// serialization, a per-goroutine SPSC queue from producer to backend,
// timestamp-ordered merge on drain, and a per-logger backtrace ring
// for replaying recent low-severity context around a triggering
// high-severity event.
//
// # Hot path
//
// A call site registers its Macro Metadata and argument schema once,
// via Site, and is handed back a *Descriptor whose address is stable
// for the process lifetime:
//
//	var fooSite = pulse.Site("pkg:foo", pulse.NewMetadata(
//		"pkg/foo.go", "Foo", "42", "user {} logged in", pulse.Info, pulse.EventLog,
//	), codec.String(""))
//
//	logger.Log(fooSite, codec.String(userID))
//
// Log on the caller's goroutine does only: a level check, a bounded
// binary encode into the calling goroutine's ring buffer, and a
// commit. Formatting and I/O happen later, off the hot path, on the
// engine's dedicated backend goroutine. The backend uses record
// timestamps only for ordering; it does not convert them to
// wall-clock time.
//
// # Engine and backend
//
// An Engine owns the Thread Context Registry and the backend drain
// loop. Each producer goroutine gets its own ring buffer, created
// lazily on first use; the backend polls every registered ring,
// orders pending records by timestamp (tie-broken by goroutine
// identity and arrival order), and dispatches each to its Logger's
// attached Handlers in order.
//
//	engine := pulse.NewEngine(true, 1024, pulse.WithTimeSource(pulse.WallClock()))
//	defer engine.Close()
//
//	logger := engine.NewLogger("service", pulse.Info, handlers.NewConsoleHandler(nil, true))
//
// # Backtrace buffering
//
// A Logger can hold a bounded ring of recent below-threshold events
// (InitBacktrace) that is otherwise silently discarded; a later event
// at or above the configured flush level dispatches normally and then
// triggers a replay of the buffered ring, oldest first, giving
// handlers the context leading up to the triggering event without
// paying the cost of logging it all at Info/Debug volume continuously.
//
// # Configuration and handlers
//
// The pulsecfg package provides a fluent Builder over Config for
// assembling an Engine without hand-wiring each option. The handlers
// package provides concrete Handler implementations: a colorized
// console writer, a rotating/compressing file writer, and a NATS
// publisher.
//
// Concrete output formats, configuration-file/CLI parsing, and
// call-site macro ergonomics are deliberately outside this package's
// scope; it implements the engine those layers sit on top of.
package pulse
