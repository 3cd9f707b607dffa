// Package ring implements the send ring (C2): a lock-free
// producer/single-consumer FIFO of request slots, flow-controlled by
// the paired built-in completion rather than a plain counter. Grounded
// on the teacher's core/concurrency/ring.go (Vyukov-style sequence-cell
// ring) and disambiguated against original_source/src/proxy_impl.h's
// ishmemi_ringcompletion::send/ishmemi_proxy_funcs consumer loop.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package ring

import (
	"runtime"
	"sync/atomic"

	"github.com/momentics/gshmem/completion"
	"github.com/momentics/gshmem/record"
)

// slot pairs a request payload with its own publication counter. Go has
// no portable single aligned wide store for an arbitrary struct, so gen
// is the release/acquire barrier spec §4.1 asks for when that hardware
// primitive is unavailable; once the slot is published its value is
// request.Sequence zero-extended to 32 bits, and before that it is
// 1<<16, which no 16-bit sequence equals.
type slot struct {
	gen atomic.Uint32
	req record.Request
}

// SendRing is RING_SIZE request slots shared between device producers
// and the single host proxy consumer.
type SendRing struct {
	size uint32
	mask uint32

	slots []slot

	nextSend    atomic.Uint32
	nextReceive atomic.Uint32

	completions *completion.Array

	// consumerLock gives a best-effort second consumer (e.g. finalize's
	// progress call) mutual exclusion with the dedicated proxy thread.
	consumerLock atomic.Uint32
}

// New allocates a SendRing of size ringSize (must be a power of two,
// spec §6 fixes it at 4096) paired with completions.
func New(ringSize uint32, completions *completion.Array) *SendRing {
	if ringSize == 0 || ringSize&(ringSize-1) != 0 {
		panic("ring: size must be a non-zero power of two")
	}
	r := &SendRing{
		size:        ringSize,
		mask:        ringSize - 1,
		slots:       make([]slot, ringSize),
		completions: completions,
	}
	for i := range r.slots {
		r.slots[i].gen.Store(1 << 16)
	}
	return r
}

// Size returns RING_SIZE.
func (r *SendRing) Size() uint32 { return r.size }

// Send implements the producer contract (spec §4.2, steps 1-6): it
// obtains a ticket, waits for the slot's previous generation to be
// acknowledged, publishes the request, and returns the correlation
// sequence (t mod 2^16).
func (r *SendRing) Send(payload record.Request) uint16 {
	t := r.nextSend.Add(1) - 1
	s := t & r.mask

	if t >= r.size {
		expected := uint32(uint16(t - r.size))
		for {
			seq := record.LoadCompletionSequence(r.completions.Builtin(s))
			if seq&record.SequenceWaitMask == expected && seq&record.SequenceReturnBit == 0 {
				break
			}
			runtime.Gosched()
		}
	}

	seqVal := uint16(t)
	payload.Sequence = seqVal
	sl := &r.slots[s]
	sl.req = payload
	sl.gen.Store(uint32(seqVal))
	return seqVal
}

// SendWait is the blocking form: it publishes via Send, then spins on
// the paired built-in completion until it carries the return value for
// this ticket, clearing the request's completion field to 0 first so
// the handler knows only the built-in slot is in use.
func (r *SendRing) SendWait(payload record.Request) (record.Value, int32) {
	payload.Completion = 0
	seqVal := r.Send(payload)
	s := uint32(seqVal) & r.mask
	return r.completions.WaitBuiltin(s, uint32(seqVal))
}

// Receive implements the consumer contract's read step (spec §4.2,
// step 1-2): if the slot at next_receive carries the expected
// generation, it returns the request, its paired completion, and the
// slot index; otherwise ok is false and the caller should back off.
func (r *SendRing) Receive() (req *record.Request, comp *record.Completion, slotIndex uint32, ok bool) {
	nr := r.nextReceive.Load()
	s := nr & r.mask
	expected := uint32(uint16(nr))

	sl := &r.slots[s]
	if sl.gen.Load() != expected {
		return nil, nil, 0, false
	}
	return &sl.req, r.completions.Builtin(s), s, true
}

// Advance moves next_receive forward by one slot; callers invoke this
// only after fully dispatching the request returned by Receive.
func (r *SendRing) Advance() {
	r.nextReceive.Add(1)
}

// NextSend returns next_send with acquire order, used by quiet (spec §4.6).
func (r *SendRing) NextSend() uint32 {
	return r.nextSend.Load()
}

// NextReceive returns next_receive with acquire order.
func (r *SendRing) NextReceive() uint32 {
	return r.nextReceive.Load()
}

// TryLockConsumer attempts the best-effort second-consumer exclusion
// (spec §4.2): the dedicated proxy thread and an assisting caller (e.g.
// finalize's progress loop) both go through this before touching
// Receive/Advance.
func (r *SendRing) TryLockConsumer() bool {
	return r.consumerLock.CompareAndSwap(0, 1)
}

// UnlockConsumer releases the best-effort consumer lock.
func (r *SendRing) UnlockConsumer() {
	r.consumerLock.Store(0)
}
