package record

import "sync/atomic"

// PublishRequest performs the release-ordered publication store into gen,
// making every field the caller already wrote into the slot visible to a
// consumer that subsequently loads gen with acquire order (spec §4.1's
// software fallback for the "single aligned wide store" hardware
// primitive that Go cannot express directly). Callers must finish
// writing the slot's payload fields before calling this.
func PublishRequest(gen *atomic.Uint32, value uint32) {
	gen.Store(value)
}

// AcquireRequest loads gen with acquire order and returns its value; it
// is the consumer-side counterpart of PublishRequest.
// Callers compare the returned value against the sequence number they
// expect before reading any field of *slot.
func AcquireRequest(gen *atomic.Uint32) uint32 {
	return gen.Load()
}

// PublishCompletion performs the proxy-to-producer release store of a
// completion sequence, mirroring original_source/src/proxy_impl.h's
// store to completion.sequence with release semantics after the return
// value has been written.
func PublishCompletion(c *Completion, sequence uint32) {
	atomic.StoreUint32(&c.Sequence, sequence)
}

// LoadCompletionSequence loads a completion's sequence word with acquire
// order, the counterpart a waiter spins on.
func LoadCompletionSequence(c *Completion) uint32 {
	return atomic.LoadUint32(&c.Sequence)
}
