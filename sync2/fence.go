// Package sync2 implements fence, quiet, wait-until, and the test
// family (C6). Named sync2 to avoid colliding with the standard
// library's sync package. Grounded on the teacher's
// core/concurrency/executor.go drain-and-confirm shutdown handshake and
// original_source/src/proxy_impl.h's ishmemi_drain_ring / ishmemi_wait.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package sync2

import "sync/atomic"

// Fence orders all subsequent RMAs to a given PE after all previously
// issued RMAs to that PE (spec §4.6). On the fast path a system-scope
// release fence suffices: Go has no standalone fence primitive, so
// Fence takes the caller's per-destination issue counter (incremented
// with release order by every RMA to that PE) and re-publishes it with
// release order, so that any thread subsequently acquire-loading the
// same counter observes every RMA issued before this call.
func Fence(perDestIssued *atomic.Uint64) {
	perDestIssued.Store(perDestIssued.Load())
}
