package pulsecfg

import (
	"testing"

	"github.com/agilira/pulse"
)

func TestConfigValidateRejectsNonPowerOfTwoCapacity(t *testing.T) {
	cfg := Config{QueueCapacity: 100}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-power-of-two capacity")
	}
}

func TestConfigValidateRejectsBacktraceDefaultLevel(t *testing.T) {
	cfg := Config{DefaultLevel: pulse.Backtrace}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for Backtrace default level")
	}
}

func TestConfigWithDefaultsFillsZeroCapacity(t *testing.T) {
	cfg := Config{}
	out := cfg.withDefaults()
	if out.QueueCapacity != 1024 {
		t.Fatalf("expected default capacity 1024, got %d", out.QueueCapacity)
	}
}

func TestConfigCloneIsIndependent(t *testing.T) {
	cfg := Config{Name: "a"}
	clone := cfg.Clone()
	clone.Name = "b"
	if cfg.Name != "a" {
		t.Fatal("mutating clone affected original")
	}
}

func TestParseQueueMode(t *testing.T) {
	if m, err := ParseQueueMode("unbounded"); err != nil || m != Unbounded {
		t.Fatalf("got %v, %v", m, err)
	}
	if _, err := ParseQueueMode("bogus"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestBuilderBuildsEngine(t *testing.T) {
	engine, err := NewBuilder().WithQueueCapacity(256).WithDefaultLevel(pulse.Info).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer engine.Close()

	logger := engine.NewLogger("test", pulse.Info)
	if logger.Level() != pulse.Info {
		t.Fatalf("expected level Info, got %v", logger.Level())
	}
}

func TestBuilderNewLoggerAppliesDefaultLevel(t *testing.T) {
	b := NewBuilder().WithQueueCapacity(256).WithDefaultLevel(pulse.Warning)
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer engine.Close()

	logger, err := b.NewLogger("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Level() != pulse.Warning {
		t.Fatalf("expected DefaultLevel Warning to apply, got %v", logger.Level())
	}
}

func TestBuilderNewLoggerBeforeBuildErrors(t *testing.T) {
	b := NewBuilder()
	if _, err := b.NewLogger("test"); err == nil {
		t.Fatal("expected an error calling NewLogger before Build")
	}
}
