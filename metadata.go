// metadata.go: Macro Metadata, the immutable compile-time-constructible
// record spec.md §3 attaches to every call site.
package pulse

import "strings"

// EventKind identifies which control semantics a record carries,
// per spec.md §3 and §6.
type EventKind uint8

const (
	EventLog EventKind = iota
	EventInitBacktrace
	EventFlushBacktrace
	EventFlush
)

// Metadata is process-lifetime, immutable data about one call site.
// Go has no return-address introspection without unsafe per-arch
// assembly, so File/Func/Line are supplied explicitly by the facade
// that constructs the call site (e.g. via runtime.Caller at
// registration time), not recovered from the Descriptor at call
// time — this matches the teacher's own getCaller() caching idiom of
// paying the cost once, not per call.
type Metadata struct {
	File      string
	ShortFile string
	Func      string
	Line      string
	Format    string
	Level     Level
	Kind      EventKind
}

// NewMetadata derives ShortFile from File (everything after the last
// path delimiter), per spec.md §3.
func NewMetadata(file, fn, line, format string, level Level, kind EventKind) Metadata {
	return Metadata{
		File:      file,
		ShortFile: shortFile(file),
		Func:      fn,
		Line:      line,
		Format:    format,
		Level:     level,
		Kind:      kind,
	}
}

func shortFile(file string) string {
	if idx := strings.LastIndexAny(file, "/\\"); idx >= 0 {
		return file[idx+1:]
	}
	return file
}
