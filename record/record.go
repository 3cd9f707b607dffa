package record

import "unsafe"

// Addr is an opaque address into the symmetric heap or host memory
// (spec §3). It is a plain offset/pointer value, never dereferenced by
// this package; resolution into real memory is the heap package's job.
type Addr uintptr

// Request is the producer-to-proxy record (C1, spec §3/§4.1). Every
// field from spec §3's "Request record" list has a direct counterpart
// here, field-for-field, disambiguated against
// original_source/src/proxy_impl.h's ISHMEMI_RUNTIME_REQUEST_HELPER
// macro (which enumerates exactly these fields per handler).
//
// The struct is padded to a multiple of 64 bytes so slices of Request
// are cache-line aligned; Go has no portable way to force a single
// hardware-atomic wide store of an arbitrary-width struct, so publication
// instead follows spec §4.1's documented software fallback: every field
// here is written by the producer, then the ring slot's own generation
// counter is published with a release-ordered atomic store (see
// ring.SendRing), and the consumer reads that counter with acquire order
// before touching any other field.
type Request struct {
	Op   Op
	Type BaseType

	Dst   Addr
	Src   Addr
	Fetch Addr

	Value    Value
	Cond     Value
	CmpValue Value

	Nelems    uint64
	Bsize     uint64
	DstStride int64
	SrcStride int64

	SigAddr Addr
	Signal  uint64
	SigOp   SignalOp

	Cmp       CompareOp
	CmpValues Addr
	Status    Addr
	Indices   Addr

	Root   int32
	Team   uint64
	DestPE int32

	// Sequence holds the low 16 bits of the producer's ticket (spec §3):
	// it is written here as part of the payload for the proxy's
	// correlation/logging use, in addition to the ring slot's own
	// publication counter.
	Sequence uint16
	// Completion is 0 when only the built-in completion slot is used,
	// else the index of an allocated completion slot (spec §3).
	Completion uint16

	_ [72]byte // pad to a 64-byte multiple; widen if fields above grow.
}

// Completion is the proxy-to-producer record (C3, spec §3/§4.3).
type Completion struct {
	// Sequence packs bits [15:0] = correlator, bit 31 = return-pending.
	// Bits [30:16] must always be written as zero (spec §6).
	Sequence uint32
	// Lock is used only by allocated slots: 0 = idle, 1 = in-use.
	Lock uint32
	Ret  Value
	// Status carries a secondary status/error code alongside Ret, per
	// spec §4.1 ("one base-type value or status code").
	Status int32

	_ [36]byte // pad to 64 bytes.
}

// SequenceReturnBit marks "return value present / not yet consumed" (spec §3).
const SequenceReturnBit uint32 = 1 << 31

// SequenceCorrelationMask isolates the low 16 bits used for ring-slot
// correlation (spec §3/§6).
const SequenceCorrelationMask uint32 = 0xFFFF

// SequenceWaitMask is the mask original_source/src/proxy_impl.h applies
// in ishmemi_completion::wait: it subsumes both the built-in-slot case
// (low 16 bits + top bit) and the allocated-slot case (low 17 bits),
// so the identical wait routine serves both halves of the array.
const SequenceWaitMask uint32 = 0x1FFFF

// InvalidAllocatedSequence is the sentinel completion::allocate() writes
// so a freshly-rotated allocated slot can never satisfy a stale wait
// (original_source/src/proxy_impl.h: `comp->completion.sequence = 0x10000`).
const InvalidAllocatedSequence uint32 = 0x10000

func sizeofRequest() uintptr    { return unsafe.Sizeof(Request{}) }
func sizeofCompletion() uintptr { return unsafe.Sizeof(Completion{}) }
