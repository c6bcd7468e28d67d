// nats.go: a NATS-publishing Handler, grounded on the example
// corpus's nats-backend plugin (examples/plugins/nats-backend/main.go):
// a persistent *nats.Conn, a fixed subject, synchronous Publish per
// record with an optional small async buffer flushed on a timer or on
// explicit Flush.
package handlers

import (
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/agilira/pulse"
)

// NATSHandler publishes each formatted record as a NATS message on a
// fixed subject. Exclusive to the backend goroutine per spec.md §6,
// so internal buffering needs no lock beyond what flushing on a timer
// goroutine requires.
type NATSHandler struct {
	conn    *nats.Conn
	subject string

	async         bool
	buffer        [][]byte
	bufferMu      sync.Mutex
	flushInterval time.Duration
	stop          chan struct{}
}

// NewNATSHandler connects to url and returns a handler that publishes
// to subject. Connection failures are returned synchronously so
// callers can fall back to another handler.
func NewNATSHandler(url, subject string) (*NATSHandler, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &NATSHandler{conn: conn, subject: subject}, nil
}

// WithAsyncBuffer enables buffered publishing, flushing at most every
// interval or when Flush is called explicitly.
func (h *NATSHandler) WithAsyncBuffer(interval time.Duration) *NATSHandler {
	h.async = true
	h.flushInterval = interval
	h.stop = make(chan struct{})
	go h.flushLoop()
	return h
}

func (h *NATSHandler) flushLoop() {
	t := time.NewTicker(h.flushInterval)
	defer t.Stop()
	for {
		select {
		case <-h.stop:
			return
		case <-t.C:
			h.Flush()
		}
	}
}

// Write publishes formatted (or buffers it, in async mode).
func (h *NATSHandler) Write(formatted string, meta pulse.Metadata) error {
	payload := []byte(formatted)

	if !h.async {
		return h.conn.Publish(h.subject, payload)
	}

	h.bufferMu.Lock()
	h.buffer = append(h.buffer, payload)
	h.bufferMu.Unlock()
	return nil
}

// Flush publishes any buffered messages and flushes the underlying
// NATS connection.
func (h *NATSHandler) Flush() error {
	h.bufferMu.Lock()
	pending := h.buffer
	h.buffer = nil
	h.bufferMu.Unlock()

	for _, payload := range pending {
		if err := h.conn.Publish(h.subject, payload); err != nil {
			return err
		}
	}
	return h.conn.Flush()
}

// Close stops the async flush loop (if any), flushes pending
// messages, and closes the underlying connection.
func (h *NATSHandler) Close() error {
	if h.stop != nil {
		close(h.stop)
	}
	err := h.Flush()
	h.conn.Close()
	return err
}
