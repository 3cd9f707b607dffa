// Package fastpath implements the local-PE fast path (C5): direct
// intra-node execution via IPC-translated pointers, bypassing the ring
// entirely when the target PE is locally reachable. Grounded on the
// teacher's internal/transport/feature_detect.go detect-then-branch
// shape and affinity/*'s low-level pointer/syscall style; AMO semantics
// fixed by original_source/src/amo_impl.h.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package fastpath

import (
	"errors"
	"sync/atomic"
	"unsafe"

	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/record"
)

// ErrFloatAtomicUnsupported is returned when a floating-point AMO is
// requested on the fast path and the target hardware (here: the Go
// runtime, which has no float atomic primitives at all) cannot perform
// it atomically. Callers must fall through to the ring, which performs
// the operation on the host (spec §4.5/§9: this fallback must be made
// explicit rather than silently relied upon).
var ErrFloatAtomicUnsupported = errors.New("fastpath: floating-point atomic requires ring fallback")

// Resolve implements spec §4.5 steps 1-2: given target PE p, it reports
// whether the fast path may be used and, if so, the translated pointer
// into this process's mapping of p's symmetric heap.
func Resolve(info *global.Info, p int32, addr record.Addr) (target unsafe.Pointer, ok bool) {
	localIndex, ok := info.LocalIndex(p)
	if !ok {
		return nil, false
	}
	delta := info.Delta(localIndex)
	return unsafe.Pointer(uintptr(addr) + delta), true
}

// Put performs a batched wide store of len(src) bytes from src to a
// fast-path-resolved destination (spec §4.5 step 3).
func Put(dst unsafe.Pointer, src []byte) {
	copy(unsafe.Slice((*byte)(dst), len(src)), src)
}

// Get performs a batched wide load of len(dst) bytes from a fast-path
// resolved source.
func Get(dst []byte, src unsafe.Pointer) {
	copy(dst, unsafe.Slice((*byte)(src), len(dst)))
}

// AmoFetchAddUint64 performs a sequentially-consistent fetch-add on the
// fast path (spec §4.5's "AMO semantics on the fast path").
func AmoFetchAddUint64(target unsafe.Pointer, delta uint64) uint64 {
	p := (*atomic.Uint64)(target)
	return p.Add(delta) - delta
}

// AmoCompareSwapUint64 performs a sequentially-consistent CAS.
func AmoCompareSwapUint64(target unsafe.Pointer, old, new uint64) (swapped bool) {
	p := (*atomic.Uint64)(target)
	return p.CompareAndSwap(old, new)
}

// AmoSwapUint64 performs a sequentially-consistent exchange.
func AmoSwapUint64(target unsafe.Pointer, new uint64) uint64 {
	p := (*atomic.Uint64)(target)
	return p.Swap(new)
}

// AmoFetchUint64 performs a sequentially-consistent load.
func AmoFetchUint64(target unsafe.Pointer) uint64 {
	p := (*atomic.Uint64)(target)
	return p.Load()
}

// AmoFetchOrUint64 performs a sequentially-consistent fetch-or.
func AmoFetchOrUint64(target unsafe.Pointer, mask uint64) uint64 {
	p := (*atomic.Uint64)(target)
	return p.Or(mask)
}

// AmoFetchAndUint64 performs a sequentially-consistent fetch-and.
func AmoFetchAndUint64(target unsafe.Pointer, mask uint64) uint64 {
	p := (*atomic.Uint64)(target)
	return p.And(mask)
}

// AmoFetchXorUint64 performs a sequentially-consistent fetch-xor. Go's
// sync/atomic has no Xor method, so it is built from a CAS loop like
// amoCompareSwapHandler's retry shape.
func AmoFetchXorUint64(target unsafe.Pointer, mask uint64) uint64 {
	p := (*atomic.Uint64)(target)
	for {
		prev := p.Load()
		if p.CompareAndSwap(prev, prev^mask) {
			return prev
		}
	}
}

// AmoFetchIncUint64 performs a sequentially-consistent fetch-inc, i.e.
// fetch-add with a fixed delta of 1 (spec §4.5's "inc").
func AmoFetchIncUint64(target unsafe.Pointer) uint64 {
	return AmoFetchAddUint64(target, 1)
}

// AmoFetchAddFloat64 always fails on the fast path: Go's sync/atomic has
// no float primitives, matching the hardware-without-native-float-atomics
// case spec §4.5/§9 requires be made explicit.
func AmoFetchAddFloat64(unsafe.Pointer, float64) (float64, error) {
	return 0, ErrFloatAtomicUnsupported
}

// SignalingPut performs a put followed by an ordered signal update on
// sigAddr at the same PE (spec §4.5 "Signaling put"): a release fence
// (implicit in the atomic store below) ensures the signal is visible
// only after the payload bytes are.
func SignalingPut(dst unsafe.Pointer, src []byte, sigAddr unsafe.Pointer, op record.SignalOp, value uint64) {
	Put(dst, src)
	sig := (*atomic.Uint64)(sigAddr)
	switch op {
	case record.SignalSet:
		sig.Store(value)
	case record.SignalAdd:
		sig.Add(value)
	}
}
