// level.go: the Log Level ordered enum, styled after the teacher's
// level.go (AtomicLevel over atomic.Int32, a flag.Value-compatible
// LevelFlag) but with spec.md §3's exact ten-value ordering, which
// differs from the teacher's own seven-level scheme.
package pulse

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Level is an ordered logging severity. Lower values are more
// verbose. Backtrace is internal-only: it marks events that flow
// through the backtrace path rather than direct dispatch, and must
// never be accepted as an externally configured threshold.
type Level int32

const (
	TraceL3 Level = iota
	TraceL2
	TraceL1
	Debug
	Info
	Warning
	Error
	Critical
	Backtrace
	None
)

func (l Level) String() string {
	switch l {
	case TraceL3:
		return "TRACE_L3"
	case TraceL2:
		return "TRACE_L2"
	case TraceL1:
		return "TRACE_L1"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	case Backtrace:
		return "BACKTRACE"
	case None:
		return "NONE"
	default:
		return fmt.Sprintf("LEVEL(%d)", int32(l))
	}
}

// ParseLevel parses a level name case-insensitively.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE_L3", "TRACEL3":
		return TraceL3, true
	case "TRACE_L2", "TRACEL2":
		return TraceL2, true
	case "TRACE_L1", "TRACEL1":
		return TraceL1, true
	case "DEBUG":
		return Debug, true
	case "INFO":
		return Info, true
	case "WARNING", "WARN":
		return Warning, true
	case "ERROR":
		return Error, true
	case "CRITICAL":
		return Critical, true
	case "NONE":
		return None, true
	default:
		return 0, false
	}
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Level) UnmarshalText(text []byte) error {
	parsed, ok := ParseLevel(string(text))
	if !ok {
		return fmt.Errorf("pulse: invalid level %q", text)
	}
	*l = parsed
	return nil
}

// AtomicLevel provides relaxed-ordered, tear-free access to a Level,
// per spec.md §5's "set_level uses relaxed ordering; no tearing"
// requirement.
type AtomicLevel struct {
	v atomic.Int32
}

func NewAtomicLevel(initial Level) *AtomicLevel {
	a := &AtomicLevel{}
	a.v.Store(int32(initial))
	return a
}

func (a *AtomicLevel) Load() Level { return Level(a.v.Load()) }

// Store sets the level. Setting Backtrace is rejected per spec.md §3
// ("must be rejected when set externally as a logger threshold") and
// spec.md §7's configuration-error taxonomy.
func (a *AtomicLevel) Store(l Level) error {
	if l == Backtrace {
		return newEngineError(ErrCodeInvalidLevel, "level Backtrace cannot be set as a logger threshold").
			WithContext("attempted_level", l.String())
	}
	a.v.Store(int32(l))
	return nil
}

// LevelFlag adapts AtomicLevel to flag.Value for downstream facades
// that want CLI wiring; config-file/CLI parsing itself is out of
// core scope per spec.md §1, but the hook costs nothing to expose.
type LevelFlag struct {
	Level *AtomicLevel
}

func (f LevelFlag) String() string {
	if f.Level == nil {
		return ""
	}
	return f.Level.Load().String()
}

func (f LevelFlag) Set(s string) error {
	l, ok := ParseLevel(s)
	if !ok {
		return fmt.Errorf("pulse: invalid level %q", s)
	}
	return f.Level.Store(l)
}
