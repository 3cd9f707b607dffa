// Package record defines the fixed-size request and completion records
// exchanged between producers (callers) and the host proxy, matching
// spec.md §3/§4.1 field-for-field and disambiguated against
// original_source/src/proxy_impl.h's ishmemi_request_t/ishmemi_completion_t.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package record

// Op enumerates every operation the ring can carry (spec §3/§4).
type Op uint8

const (
	OpNop Op = iota

	OpPut
	OpPutNonblocking
	OpGet
	OpGetNonblocking
	OpPutStrided
	OpGetStrided
	OpPutBatch
	OpGetBatch
	OpPutSignal
	OpPutSignalNonblocking

	OpAmoFetch
	OpAmoFetchNonblocking
	OpAmoSet
	OpAmoSetNonblocking
	OpAmoAdd
	OpAmoAddNonblocking
	OpAmoFetchAdd
	OpAmoFetchAddNonblocking
	OpAmoInc
	OpAmoIncNonblocking
	OpAmoFetchInc
	OpAmoFetchIncNonblocking
	OpAmoAnd
	OpAmoAndNonblocking
	OpAmoFetchAnd
	OpAmoFetchAndNonblocking
	OpAmoOr
	OpAmoOrNonblocking
	OpAmoFetchOr
	OpAmoFetchOrNonblocking
	OpAmoXor
	OpAmoXorNonblocking
	OpAmoFetchXor
	OpAmoFetchXorNonblocking
	OpAmoSwap
	OpAmoSwapNonblocking
	OpAmoCompareSwap
	OpAmoCompareSwapNonblocking

	OpWaitUntil
	OpSignalWaitUntil
	OpTestAll
	OpTestAny
	OpTestSome
	OpTestVector

	OpFence
	OpQuiet
	OpTimestamp

	OpCollectiveBarrier
	OpCollectiveBroadcast
	OpCollectiveFCollect
	OpCollectiveReduce

	opCount // sentinel, not a real op
)

// OpCount is the number of valid Op values, sizing dispatch.Table's first axis.
const OpCount = int(opCount)

func (o Op) String() string {
	names := [...]string{
		"nop",
		"put", "put_nb", "get", "get_nb", "put_strided", "get_strided",
		"put_batch", "get_batch", "put_signal", "put_signal_nb",
		"amo_fetch", "amo_fetch_nb",
		"amo_set", "amo_set_nb", "amo_add", "amo_add_nb",
		"amo_fetch_add", "amo_fetch_add_nb",
		"amo_inc", "amo_inc_nb", "amo_fetch_inc", "amo_fetch_inc_nb",
		"amo_and", "amo_and_nb", "amo_fetch_and", "amo_fetch_and_nb",
		"amo_or", "amo_or_nb", "amo_fetch_or", "amo_fetch_or_nb",
		"amo_xor", "amo_xor_nb", "amo_fetch_xor", "amo_fetch_xor_nb",
		"amo_swap", "amo_swap_nb",
		"amo_compare_swap", "amo_compare_swap_nb",
		"wait_until", "signal_wait_until",
		"test_all", "test_any", "test_some", "test_vector",
		"fence", "quiet", "timestamp",
		"collective_barrier", "collective_broadcast", "collective_fcollect", "collective_reduce",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return "unknown_op"
}

// BaseType enumerates the operand type set (spec §3): 14 types, matching
// original_source/src/runtime.h's proxy_func_num_types constant exactly.
type BaseType uint8

const (
	TypeUint8 BaseType = iota
	TypeUint16
	TypeUint32
	TypeUint64
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeLongDouble // represented with float64 storage; see typed package.
	TypeSize       // size_t, represented as uint64.
	TypePtrdiff    // ptrdiff_t, represented as int64.
	TypeVoid

	typeCount
)

// TypeCount is the number of valid BaseType values (14, spec §6).
const TypeCount = int(typeCount)

func (t BaseType) String() string {
	names := [...]string{
		"uint8", "uint16", "uint32", "uint64",
		"int8", "int16", "int32", "int64",
		"float32", "float64", "long_double", "size", "ptrdiff", "void",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown_type"
}

// CompareOp enumerates the comparisons usable by wait/test families (spec §8).
type CompareOp uint8

const (
	CompareEQ CompareOp = iota
	CompareNE
	CompareGT
	CompareGE
	CompareLT
	CompareLE
)

// SignalOp enumerates the update applied to a signal word by a signaling put (spec §4.5).
type SignalOp uint8

const (
	SignalSet SignalOp = iota
	SignalAdd
)
