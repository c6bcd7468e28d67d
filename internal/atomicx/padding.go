// Package atomicx provides cache-line-padded atomics shared by the
// SPSC ring and the thread context registry, avoiding false sharing
// between producer-side and backend-side cursors.
package atomicx

import "sync/atomic"

// PaddedInt64 is a plain int64 padded to a 64-byte cache line.
type PaddedInt64 struct {
	Value int64
	_     [56]byte
}

// Int64 is an atomic int64 padded to a 64-byte cache line, so that a
// writer's cursor and a reader's cursor never share a line.
type Int64 struct {
	v atomic.Int64
	_ [56]byte
}

func (i *Int64) Load() int64         { return i.v.Load() }
func (i *Int64) Store(val int64)     { i.v.Store(val) }
func (i *Int64) Add(delta int64) int64 {
	return i.v.Add(delta)
}

// Bool is an atomic bool padded to a 64-byte cache line.
type Bool struct {
	v atomic.Bool
	_ [63]byte
}

func (b *Bool) Load() bool     { return b.v.Load() }
func (b *Bool) Store(val bool) { b.v.Store(val) }
