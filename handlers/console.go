// console.go: a human-readable, level-colored console Handler,
// grounded on the example corpus's velo/styles.go (a lipgloss.Style
// per level, cached rendered strings to avoid re-styling on every
// call) adapted here to github.com/charmbracelet/lipgloss/v2 and this
// module's ten-level scheme.
package handlers

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/agilira/pulse"
	"github.com/agilira/pulse/internal/bufferpool"
)

// levelStyles maps each Level to its rendered, color-coded label,
// computed once at package init time (mirrors velo's
// CachedLevelStrings optimization: style once, reuse per call).
var levelStyles = map[pulse.Level]string{
	pulse.TraceL3:   lipgloss.NewStyle().Faint(true).Render("TRACE_L3"),
	pulse.TraceL2:   lipgloss.NewStyle().Faint(true).Render("TRACE_L2"),
	pulse.TraceL1:   lipgloss.NewStyle().Faint(true).Render("TRACE_L1"),
	pulse.Debug:     lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true).Render("DEBUG"),
	pulse.Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Render("INFO"),
	pulse.Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("192")).Bold(true).Render("WARN"),
	pulse.Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true).Render("ERROR"),
	pulse.Critical:  lipgloss.NewStyle().Foreground(lipgloss.Color("134")).Bold(true).Render("CRIT"),
}

var callerStyle = lipgloss.NewStyle().Faint(true)

// ConsoleHandler writes formatted records to an io.Writer (stdout by
// default), one line per record, with a color-coded level label.
// Exclusive to the backend goroutine per spec.md §6, so the only
// synchronization needed is around concurrent Flush/Write from
// diagnostic callers sharing one handler instance across loggers.
type ConsoleHandler struct {
	out      io.Writer
	colorize bool
	mu       sync.Mutex
}

// NewConsoleHandler writes to out, color-coding level labels when
// colorize is true.
func NewConsoleHandler(out io.Writer, colorize bool) *ConsoleHandler {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleHandler{out: out, colorize: colorize}
}

// Write renders one line: "LEVEL file:line message" (the file:line
// part is omitted when meta.ShortFile is empty).
func (h *ConsoleHandler) Write(formatted string, meta pulse.Metadata) error {
	buf := bufferpool.Get()
	defer bufferpool.Put(buf)

	if h.colorize {
		if label, ok := levelStyles[meta.Level]; ok {
			buf.WriteString(label)
		} else {
			buf.WriteString(meta.Level.String())
		}
	} else {
		buf.WriteString(meta.Level.String())
	}
	buf.WriteByte(' ')

	if meta.ShortFile != "" {
		caller := fmt.Sprintf("%s:%s", meta.ShortFile, meta.Line)
		if h.colorize {
			caller = callerStyle.Render(caller)
		}
		buf.WriteString(caller)
		buf.WriteByte(' ')
	}

	buf.WriteString(formatted)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

// Flush flushes out if it implements an explicit Flush/Sync method,
// otherwise it is a no-op (most io.Writer destinations, e.g. a plain
// bytes.Buffer or an already-unbuffered os.File, need none).
func (h *ConsoleHandler) Flush() error {
	if f, ok := h.out.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}
