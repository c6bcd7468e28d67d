// descriptor.go: the Call-Site Descriptor, spec.md §4.3.
//
// Go has no compile-time template specialization, so per spec.md §9's
// recommended resolution this module builds a runtime tagged-variant
// schema per call site at first registration and dispatches through
// a generic decoder keyed on that schema — rather than generating one
// decoder per argument-type tuple at build time. Registration is
// memoized in a sync.Map, mirroring the teacher's funcNameCache
// sync.Map pattern in iris.go's getCaller().
package pulse

import (
	"sync"

	"github.com/agilira/pulse/codec"
)

// Descriptor pairs Macro Metadata with a decoder capable of walking
// the bytes this call site's arguments encode to. Its address is a
// stable identity for the process lifetime once created, satisfying
// spec.md §4.3's "address is stable" and "descriptors are never
// mutated after init."
type Descriptor struct {
	Meta   Metadata
	Schema codec.Schema

	truncatedOnce sync.Once
	truncated     *Descriptor
}

// truncatedVariant returns a schema-empty twin of d sharing d's
// Metadata, built lazily and cached for the life of d. Logger.Log
// writes this variant's address into a record's Header instead of
// d's own when the encoded arguments would exceed the ring's maximum
// record size and are dropped (spec.md §4.2 "Failure"): an empty
// Schema guarantees Decode never walks past the truncated record's
// (header-only) payload, while Meta.Level/Kind stay accurate for
// threshold checks and backtrace routing.
func (d *Descriptor) truncatedVariant() *Descriptor {
	d.truncatedOnce.Do(func() {
		d.truncated = &Descriptor{Meta: d.Meta}
	})
	return d.truncated
}

// Decode runs the descriptor's decoder: walks buf per d.Schema,
// producing the formatted message, per spec.md §4.2 decoding rules.
func (d *Descriptor) Decode(buf []byte, anySink []any) (consumed int, rendered string) {
	return codec.Decode(d.Meta.Format, d.Schema, buf, anySink)
}

var descriptorRegistry sync.Map // map[string]*Descriptor, keyed by call-site token

// Site registers (or retrieves, if already registered) the
// Descriptor for one call site, keyed by an explicit token supplied
// by the facade (typically "file:line" or a generated constant) —
// Go cannot recover a caller's return address portably the way the
// source's macro expansion can, so the token takes that role. The
// schema is derived once, eagerly, from a representative argument
// list, so the first real log call pays no first-time cost beyond
// the registration itself (spec.md §4.3).
func Site(token string, meta Metadata, sample ...codec.Arg) *Descriptor {
	if d, ok := descriptorRegistry.Load(token); ok {
		return d.(*Descriptor)
	}
	d := &Descriptor{Meta: meta, Schema: codec.BuildSchema(sample...)}
	actual, _ := descriptorRegistry.LoadOrStore(token, d)
	return actual.(*Descriptor)
}
