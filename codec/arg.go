// Package codec implements the Argument Codec: alignment-aware
// encoding and decoding of call-site arguments into the contiguous
// byte region that follows each record's Header.
//
// Arg follows the teacher's newer field-construction lineage
// (field_types.go / field_constructors.go's FieldType-tagged Field)
// rather than the older, mutually-conflicting kind-tagged field.go —
// the two declare incompatible shapes for the same concept in the
// retrieved snapshot; this module commits to one.
package codec

// Kind identifies which encoding/decoding rule an Arg follows, per
// spec.md §4.2.
type Kind uint8

const (
	KindInt64 Kind = iota
	KindUint64
	KindFloat64
	KindBool
	KindString // owned string: copy bytes + zero sentinel (spec.md §4.2 rule 3)
	KindCString // c-string: same wire shape as KindString in this codec — Go has no distinct borrowed-C-string representation, so both rules collapse onto one encoding path, documented here rather than silently merged
	KindBytes
	KindAny // non-trivially-copyable: boxed via the ring's AnySink side-channel (spec.md §4.2 rule 5)
)

// alignment returns the size of Kind's encoded payload's natural alignment.
func (k Kind) alignment() int {
	switch k {
	case KindInt64, KindUint64, KindFloat64:
		return 8
	case KindBool:
		return 1
	default:
		return 1 // string/bytes/any payloads are byte-aligned
	}
}

// Arg is one call-site argument, tagged by Kind. Exactly one of the
// scalar fields or str/any is meaningful, selected by Kind.
type Arg struct {
	Kind Kind
	i64  int64
	u64  uint64
	f64  float64
	b    bool
	str  string
	any  any
}

func Int(v int64) Arg     { return Arg{Kind: KindInt64, i64: v} }
func Uint(v uint64) Arg   { return Arg{Kind: KindUint64, u64: v} }
func Float(v float64) Arg { return Arg{Kind: KindFloat64, f64: v} }
func Bool(v bool) Arg     { return Arg{Kind: KindBool, b: v} }
func String(v string) Arg { return Arg{Kind: KindString, str: v} }
func CString(v string) Arg { return Arg{Kind: KindCString, str: v} }
func Bytes(v []byte) Arg  { return Arg{Kind: KindBytes, str: string(v)} }
func Any(v any) Arg       { return Arg{Kind: KindAny, any: v} }

// SafeUint64ToInt64 performs an overflow-checked conversion, grounded
// on the teacher's field_helpers.go conversion guards.
func SafeUint64ToInt64(v uint64) (int64, bool) {
	if v > 1<<63-1 {
		return 0, false
	}
	return int64(v), true
}

// SafeInt64ToUint64 performs an overflow-checked conversion, grounded
// on the teacher's field_helpers.go conversion guards.
func SafeInt64ToUint64(v int64) (uint64, bool) {
	if v < 0 {
		return 0, false
	}
	return uint64(v), true
}
