package sync2

import (
	"runtime"
	"sync/atomic"

	"github.com/momentics/gshmem/record"
)

// compare applies a record.CompareOp between an observed and expected
// value.
func compare(op record.CompareOp, observed, expected uint64) bool {
	switch op {
	case record.CompareEQ:
		return observed == expected
	case record.CompareNE:
		return observed != expected
	case record.CompareGT:
		return observed > expected
	case record.CompareGE:
		return observed >= expected
	case record.CompareLT:
		return observed < expected
	case record.CompareLE:
		return observed <= expected
	default:
		return false
	}
}

// WaitUntil spins with bounded backoff, atomically loading target,
// until compare(op, *target, expected) holds (spec §4.6).
func WaitUntil(target *atomic.Uint64, op record.CompareOp, expected uint64) {
	for !compare(op, target.Load(), expected) {
		runtime.Gosched()
	}
}

// SignalWaitUntil spins on a single 64-bit signal word until
// compare(op, value, expected) holds and returns the value it observed.
// It waits on the word in place; it issues no wait request through the
// ring.
func SignalWaitUntil(sig *atomic.Uint64, op record.CompareOp, expected uint64) uint64 {
	for {
		v := sig.Load()
		if compare(op, v, expected) {
			return v
		}
		runtime.Gosched()
	}
}

// TestAll reports whether every index in ivars satisfies compare(op, .,
// cmpValues[i]) right now, without blocking (spec §4.6 "Test variants").
func TestAll(ivars []*atomic.Uint64, op record.CompareOp, cmpValues []uint64) bool {
	for i, iv := range ivars {
		if !compare(op, iv.Load(), cmpValues[i]) {
			return false
		}
	}
	return true
}

// TestAny reports whether at least one index currently satisfies the
// predicate, returning its index.
func TestAny(ivars []*atomic.Uint64, op record.CompareOp, cmpValues []uint64) (index int, ok bool) {
	for i, iv := range ivars {
		if compare(op, iv.Load(), cmpValues[i]) {
			return i, true
		}
	}
	return 0, false
}

// TestSome returns the indices currently satisfying the predicate.
func TestSome(ivars []*atomic.Uint64, op record.CompareOp, cmpValues []uint64) []int {
	var out []int
	for i, iv := range ivars {
		if compare(op, iv.Load(), cmpValues[i]) {
			out = append(out, i)
		}
	}
	return out
}

// TestVector is the per-index compare-value form: each index i is
// checked against its own op/expected pair instead of a single shared
// predicate.
func TestVector(ivars []*atomic.Uint64, ops []record.CompareOp, cmpValues []uint64) []bool {
	out := make([]bool, len(ivars))
	for i, iv := range ivars {
		out[i] = compare(ops[i], iv.Load(), cmpValues[i])
	}
	return out
}
