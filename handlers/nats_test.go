package handlers

import "testing"

func TestNewNATSHandlerFailsFastOnUnreachableServer(t *testing.T) {
	// No NATS server is expected to be listening on this port in the
	// test environment; this exercises the synchronous connect-error
	// path without requiring a running broker.
	if _, err := NewNATSHandler("nats://127.0.0.1:4222", "pulse.test"); err == nil {
		t.Fatal("expected connection error against an unreachable server")
	}
}
