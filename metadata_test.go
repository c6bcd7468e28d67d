package pulse

import "testing"

func TestNewMetadataDerivesShortFile(t *testing.T) {
	m := NewMetadata("/srv/app/pkg/foo.go", "Foo", "17", "hello {}", Info, EventLog)

	if m.ShortFile != "foo.go" {
		t.Fatalf("expected ShortFile %q, got %q", "foo.go", m.ShortFile)
	}
	if m.Func != "Foo" || m.Line != "17" || m.Level != Info || m.Kind != EventLog {
		t.Fatalf("unexpected metadata fields: %+v", m)
	}
}

func TestNewMetadataHandlesNoPathSeparator(t *testing.T) {
	m := NewMetadata("foo.go", "Foo", "1", "", Debug, EventLog)
	if m.ShortFile != "foo.go" {
		t.Fatalf("expected ShortFile %q, got %q", "foo.go", m.ShortFile)
	}
}

func TestNewMetadataHandlesWindowsSeparator(t *testing.T) {
	m := NewMetadata(`C:\src\pkg\foo.go`, "Foo", "1", "", Debug, EventLog)
	if m.ShortFile != "foo.go" {
		t.Fatalf("expected ShortFile %q, got %q", "foo.go", m.ShortFile)
	}
}
