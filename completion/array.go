// Package completion implements the completion array (C3): a built-in
// half paired one-to-one with send-ring slots, plus an allocated half
// used when a request needs a completion that outlives its ring slot.
// Grounded on original_source/src/proxy_impl.h's ishmemi_completion
// class and on the teacher's core/concurrency/ring.go spin/CAS idiom.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package completion

import (
	"runtime"
	"sync/atomic"

	"github.com/momentics/gshmem/record"
)

// Array holds RING_SIZE built-in slots followed by RING_SIZE allocated
// slots (spec §6: COMPLETION_COUNT = 2 * RING_SIZE).
type Array struct {
	size          uint32
	slots         []record.Completion
	allocatedNext atomic.Uint32
}

// NewArray allocates an Array sized for a ring of ringSize slots.
func NewArray(ringSize uint32) *Array {
	a := &Array{
		size:  ringSize,
		slots: make([]record.Completion, 2*ringSize),
	}
	// Built-in slots start at a generation no 16-bit ticket equals, so
	// Send's flow-control check for ticket ringSize waits for ticket 0's
	// real acknowledgement instead of matching the zero value.
	for i := uint32(0); i < ringSize; i++ {
		a.slots[i].Sequence = record.InvalidAllocatedSequence
	}
	return a
}

// Size returns RING_SIZE (not COMPLETION_COUNT).
func (a *Array) Size() uint32 { return a.size }

// Builtin returns the built-in completion paired with ring slot s.
func (a *Array) Builtin(s uint32) *record.Completion {
	return &a.slots[s%a.size]
}

// At returns the completion at absolute index idx, spanning both halves.
func (a *Array) At(idx uint32) *record.Completion {
	return &a.slots[idx]
}

// WaitBuiltin spins with acquire order on the built-in slot s until its
// sequence matches expected under SequenceWaitMask (spec §4.3), then
// reads the return payload and releases the slot by storing expected
// back (clearing bit 31).
func (a *Array) WaitBuiltin(s uint32, expected uint32) (value record.Value, status int32) {
	c := a.Builtin(s)
	for {
		seq := record.LoadCompletionSequence(c)
		if seq&record.SequenceWaitMask == expected {
			break
		}
		runtime.Gosched()
	}
	value = c.Ret
	status = atomic.LoadInt32(&c.Status)
	record.PublishCompletion(c, expected)
	return value, status
}

// Allocate rotates allocatedNext and returns the absolute index of a
// freshly-owned allocated slot (spec §4.3 step 1-3): on a failed CAS it
// re-rotates to a new slot rather than retrying the same one, so one
// busy slot never blocks a caller while others sit free.
func (a *Array) Allocate() uint32 {
	var idx uint32
	var slot *record.Completion
	for {
		idx = a.size + (a.allocatedNext.Add(1)-1)%a.size
		slot = &a.slots[idx]
		if atomic.CompareAndSwapUint32(&slot.Lock, 0, 1) {
			break
		}
		runtime.Gosched()
	}
	// An invalid generation so a spurious wake on a freshly rotated slot
	// can never satisfy a stale waiter.
	record.PublishCompletion(slot, record.InvalidAllocatedSequence)
	return idx
}

// Free releases an allocated slot with a release-ordered store.
func (a *Array) Free(idx uint32) {
	atomic.StoreUint32(&a.slots[idx].Lock, 0)
}

// WaitAllocated is the allocated-half counterpart of WaitBuiltin: it
// spins on the slot at idx until its sequence matches expected, then
// reads the return payload without releasing the slot (Free is explicit).
func (a *Array) WaitAllocated(idx uint32, expected uint32) (value record.Value, status int32) {
	c := a.At(idx)
	for {
		seq := record.LoadCompletionSequence(c)
		if seq&record.SequenceWaitMask == expected {
			break
		}
		runtime.Gosched()
	}
	value = c.Ret
	status = atomic.LoadInt32(&c.Status)
	return value, status
}
