package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Schema is the ordered argument-type tuple for one call site,
// embedded in its Call-Site Descriptor and used by both EncodedSize
// (producer side) and Decode (backend side) — the two passes must
// walk it identically, per spec.md §4.2's contract.
type Schema []Kind

// BuildSchema derives a Schema from a concrete argument list, done
// once at call-site registration time.
func BuildSchema(args ...Arg) Schema {
	s := make(Schema, len(args))
	for i, a := range args {
		s[i] = a.Kind
	}
	return s
}

func align(offset, alignment int) int {
	if alignment <= 1 {
		return offset
	}
	return (offset + alignment - 1) &^ (alignment - 1)
}

// EncodedSize is the size-precomputation pass of spec.md §4.2: it
// must be called with the exact same argument values/types the
// subsequent Encode call uses, and returns the byte count required
// excluding the Header.
func EncodedSize(args ...Arg) int {
	offset := 0
	for _, a := range args {
		offset = align(offset, a.Kind.alignment())
		offset += encodedPayloadSize(a)
	}
	return offset
}

func encodedPayloadSize(a Arg) int {
	switch a.Kind {
	case KindInt64, KindUint64, KindFloat64:
		return 8
	case KindBool:
		return 1
	case KindString, KindCString, KindBytes:
		return len(a.str) + 1 // + zero sentinel, spec.md §4.2 rules 2-3
	case KindAny:
		return 8 // trivially-copyable index into the ring's AnySink side-channel
	default:
		return 0
	}
}

// Encode writes args into buf starting at offset 0, following
// spec.md §4.2's encoding rules in declaration order. anySink
// receives non-trivially-copyable ("any"-boxed) values, since Go's
// GC does not scan raw byte slots for pointers (see
// internal/ring.Queue.AnySink). Returns the number of bytes written.
func Encode(buf []byte, anySink *[]any, args ...Arg) int {
	offset := 0
	for _, a := range args {
		offset = align(offset, a.Kind.alignment())
		switch a.Kind {
		case KindInt64:
			binary.LittleEndian.PutUint64(buf[offset:], uint64(a.i64))
			offset += 8
		case KindUint64:
			binary.LittleEndian.PutUint64(buf[offset:], a.u64)
			offset += 8
		case KindFloat64:
			binary.LittleEndian.PutUint64(buf[offset:], math.Float64bits(a.f64))
			offset += 8
		case KindBool:
			if a.b {
				buf[offset] = 1
			} else {
				buf[offset] = 0
			}
			offset++
		case KindString, KindCString, KindBytes:
			n := copy(buf[offset:], a.str)
			buf[offset+n] = 0
			offset += n + 1
		case KindAny:
			idx := len(*anySink)
			*anySink = append(*anySink, a.any)
			binary.LittleEndian.PutUint64(buf[offset:], uint64(idx))
			offset += 8
		}
	}
	return offset
}

// Decode walks buf according to schema, producing the formatted
// message by substituting "{}" placeholders in format in argument
// order (the teacher's own wire format uses "{}"-style placeholders
// in its test fixtures' message strings, matching spec.md §8's
// worked examples). Returns bytes consumed and the rendered string.
func Decode(format string, schema Schema, buf []byte, anySink []any) (consumed int, rendered string) {
	offset := 0
	vals := make([]any, 0, len(schema))
	for _, k := range schema {
		offset = align(offset, k.alignment())
		switch k {
		case KindInt64:
			v := int64(binary.LittleEndian.Uint64(buf[offset:]))
			vals = append(vals, v)
			offset += 8
		case KindUint64:
			v := binary.LittleEndian.Uint64(buf[offset:])
			vals = append(vals, v)
			offset += 8
		case KindFloat64:
			v := math.Float64frombits(binary.LittleEndian.Uint64(buf[offset:]))
			vals = append(vals, v)
			offset += 8
		case KindBool:
			vals = append(vals, buf[offset] != 0)
			offset++
		case KindString, KindCString, KindBytes:
			end := offset
			for buf[end] != 0 {
				end++
			}
			vals = append(vals, string(buf[offset:end]))
			offset = end + 1
		case KindAny:
			idx := binary.LittleEndian.Uint64(buf[offset:])
			if int(idx) < len(anySink) {
				vals = append(vals, anySink[idx])
			} else {
				vals = append(vals, nil)
			}
			offset += 8
			// "requires destruction": Go's GC reclaims the boxed
			// value once the ring slot's AnySink entry is reset on
			// the next write to this slot; no explicit destructor
			// call is needed, so this is a structural no-op that
			// keeps the contract's shape (spec.md §4.2 rule 5).
		}
	}
	return offset, render(format, vals)
}

// DecodeIntPair reads two consecutive 8-byte-aligned int64 values
// from the front of buf. Used by the backend to read InitBacktrace's
// (capacity, flushLevel) control arguments directly, without routing
// through the format-string renderer.
func DecodeIntPair(buf []byte) (int64, int64) {
	a := int64(binary.LittleEndian.Uint64(buf[0:8]))
	b := int64(binary.LittleEndian.Uint64(buf[8:16]))
	return a, b
}

func render(format string, vals []any) string {
	var b strings.Builder
	vi := 0
	for i := 0; i < len(format); i++ {
		if format[i] == '{' && i+1 < len(format) && format[i+1] == '}' {
			if vi < len(vals) {
				fmt.Fprintf(&b, "%v", vals[vi])
				vi++
			}
			i++
			continue
		}
		b.WriteByte(format[i])
	}
	return b.String()
}
