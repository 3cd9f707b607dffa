// Package typed collapses the C-style per-(op,type) generated wrapper
// surface (spec §9) into a single generic API, the way the teacher
// collapses per-type buffer/ring/pool code into `[T any]` contracts
// throughout its api package (api/ring.go, api/pool.go, api/batching.go).
// Each exported function here stands in for what the original would
// have needed fourteen hand-written, type-suffixed copies of.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package typed

import (
	"fmt"

	"github.com/momentics/gshmem/record"
	"github.com/momentics/gshmem/ring"
)

// Numeric is the operand type set spec §3's BaseType enumerates (minus
// void, long double, size_t, and ptrdiff_t, which are represented at
// float64/uint64/int64 precision and reached through those cases).
type Numeric interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// BaseTypeOf maps a Go numeric type to its record.BaseType tag.
func BaseTypeOf[T Numeric]() record.BaseType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return record.TypeUint8
	case uint16:
		return record.TypeUint16
	case uint32:
		return record.TypeUint32
	case uint64:
		return record.TypeUint64
	case int8:
		return record.TypeInt8
	case int16:
		return record.TypeInt16
	case int32:
		return record.TypeInt32
	case int64:
		return record.TypeInt64
	case float32:
		return record.TypeFloat32
	case float64:
		return record.TypeFloat64
	default:
		panic(fmt.Sprintf("typed: unsupported operand type %T", zero))
	}
}

// ValueOf packs v into a record.Value.
func ValueOf[T Numeric](v T) record.Value {
	var rv record.Value
	switch x := any(v).(type) {
	case uint8:
		rv.SetUint8(x)
	case uint16:
		rv.SetUint16(x)
	case uint32:
		rv.SetUint32(x)
	case uint64:
		rv.SetUint64(x)
	case int8:
		rv.SetInt8(x)
	case int16:
		rv.SetInt16(x)
	case int32:
		rv.SetInt32(x)
	case int64:
		rv.SetInt64(x)
	case float32:
		rv.SetFloat32(x)
	case float64:
		rv.SetFloat64(x)
	}
	return rv
}

// ValueTo unpacks a record.Value as T.
func ValueTo[T Numeric](rv record.Value) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return any(rv.AsUint8()).(T)
	case uint16:
		return any(rv.AsUint16()).(T)
	case uint32:
		return any(rv.AsUint32()).(T)
	case uint64:
		return any(rv.AsUint64()).(T)
	case int8:
		return any(rv.AsInt8()).(T)
	case int16:
		return any(rv.AsInt16()).(T)
	case int32:
		return any(rv.AsInt32()).(T)
	case int64:
		return any(rv.AsInt64()).(T)
	case float32:
		return any(rv.AsFloat32()).(T)
	case float64:
		return any(rv.AsFloat64()).(T)
	default:
		panic(fmt.Sprintf("typed: unsupported operand type %T", zero))
	}
}

// Put issues a blocking put of value to dst on destPE via the ring.
func Put[T Numeric](r *ring.SendRing, dst record.Addr, value T, destPE int32) int32 {
	var req record.Request
	req.Op = record.OpPut
	req.Type = BaseTypeOf[T]()
	req.Dst = dst
	req.Value = ValueOf(value)
	req.DestPE = destPE
	_, status := r.SendWait(req)
	return status
}

// PutNonblocking issues a non-blocking put, returning the correlation
// sequence without waiting for completion.
func PutNonblocking[T Numeric](r *ring.SendRing, dst record.Addr, value T, destPE int32) uint16 {
	var req record.Request
	req.Op = record.OpPutNonblocking
	req.Type = BaseTypeOf[T]()
	req.Dst = dst
	req.Value = ValueOf(value)
	req.DestPE = destPE
	return r.Send(req)
}

// Get issues a blocking get from src on destPE.
func Get[T Numeric](r *ring.SendRing, src record.Addr, destPE int32) (T, int32) {
	var req record.Request
	req.Op = record.OpGet
	req.Type = BaseTypeOf[T]()
	req.Src = src
	req.DestPE = destPE
	val, status := r.SendWait(req)
	return ValueTo[T](val), status
}

// AmoFetchAdd issues a blocking fetch-add AMO, returning the
// pre-update value.
func AmoFetchAdd[T Numeric](r *ring.SendRing, dst record.Addr, delta T, destPE int32) (T, int32) {
	var req record.Request
	req.Op = record.OpAmoFetchAdd
	req.Type = BaseTypeOf[T]()
	req.Dst = dst
	req.Value = ValueOf(delta)
	req.DestPE = destPE
	val, status := r.SendWait(req)
	return ValueTo[T](val), status
}

// AmoNonblocking issues any non-blocking AMO op, returning the
// correlation sequence; the single generic function collapsing the
// free-function/functor duality spec §9 raises as an open question.
func AmoNonblocking[T Numeric](r *ring.SendRing, op record.Op, dst record.Addr, value T, destPE int32) uint16 {
	var req record.Request
	req.Op = op
	req.Type = BaseTypeOf[T]()
	req.Dst = dst
	req.Value = ValueOf(value)
	req.DestPE = destPE
	return r.Send(req)
}

// AmoCompareSwap issues a blocking compare-and-swap AMO.
func AmoCompareSwap[T Numeric](r *ring.SendRing, dst record.Addr, cond, value T, destPE int32) (T, int32) {
	var req record.Request
	req.Op = record.OpAmoCompareSwap
	req.Type = BaseTypeOf[T]()
	req.Dst = dst
	req.CmpValue = ValueOf(cond)
	req.Value = ValueOf(value)
	req.DestPE = destPE
	val, status := r.SendWait(req)
	return ValueTo[T](val), status
}

// AmoFetchOr issues a blocking fetch-or AMO, returning the pre-update
// value (spec §4.5's bitwise AMO set, §8's mandatory fetch-or property).
func AmoFetchOr[T Numeric](r *ring.SendRing, dst record.Addr, mask T, destPE int32) (T, int32) {
	var req record.Request
	req.Op = record.OpAmoFetchOr
	req.Type = BaseTypeOf[T]()
	req.Dst = dst
	req.Value = ValueOf(mask)
	req.DestPE = destPE
	val, status := r.SendWait(req)
	return ValueTo[T](val), status
}

// AmoFetchAnd issues a blocking fetch-and AMO.
func AmoFetchAnd[T Numeric](r *ring.SendRing, dst record.Addr, mask T, destPE int32) (T, int32) {
	var req record.Request
	req.Op = record.OpAmoFetchAnd
	req.Type = BaseTypeOf[T]()
	req.Dst = dst
	req.Value = ValueOf(mask)
	req.DestPE = destPE
	val, status := r.SendWait(req)
	return ValueTo[T](val), status
}

// AmoFetchXor issues a blocking fetch-xor AMO.
func AmoFetchXor[T Numeric](r *ring.SendRing, dst record.Addr, mask T, destPE int32) (T, int32) {
	var req record.Request
	req.Op = record.OpAmoFetchXor
	req.Type = BaseTypeOf[T]()
	req.Dst = dst
	req.Value = ValueOf(mask)
	req.DestPE = destPE
	val, status := r.SendWait(req)
	return ValueTo[T](val), status
}

// AmoFetchInc issues a blocking fetch-inc AMO (fetch-add with a fixed
// delta of 1, spec §4.5's "inc").
func AmoFetchInc[T Numeric](r *ring.SendRing, dst record.Addr, destPE int32) (T, int32) {
	var req record.Request
	req.Op = record.OpAmoFetchInc
	req.Type = BaseTypeOf[T]()
	req.Dst = dst
	req.DestPE = destPE
	val, status := r.SendWait(req)
	return ValueTo[T](val), status
}

// PutSignal issues a blocking signaling put (spec §4.5 "Signaling put",
// §8 scenario 3): payload moves from the issuing PE's src address to
// dst on destPE, then the signal word at sigAddr on destPE is updated
// per sigOp, ordered after the payload write.
func PutSignal(r *ring.SendRing, src, dst record.Addr, bsize uint64, destPE int32, sigAddr record.Addr, sigOp record.SignalOp, signal uint64) int32 {
	var req record.Request
	req.Op = record.OpPutSignal
	req.Type = record.TypeUint8
	req.Src = src
	req.Dst = dst
	req.Bsize = bsize
	req.DestPE = destPE
	req.SigAddr = sigAddr
	req.SigOp = sigOp
	req.Signal = signal
	_, status := r.SendWait(req)
	return status
}

// PutStrided issues a blocking strided put of nelems elements of bsize
// bytes each, stepping srcStride bytes between source elements and
// dstStride bytes between destination elements (spec §3/§4's strided RMA).
func PutStrided(r *ring.SendRing, src, dst record.Addr, nelems, bsize uint64, srcStride, dstStride int64, destPE int32) int32 {
	var req record.Request
	req.Op = record.OpPutStrided
	req.Type = record.TypeUint8
	req.Src = src
	req.Dst = dst
	req.Nelems = nelems
	req.Bsize = bsize
	req.SrcStride = srcStride
	req.DstStride = dstStride
	req.DestPE = destPE
	_, status := r.SendWait(req)
	return status
}

// GetStrided is PutStrided's read counterpart.
func GetStrided(r *ring.SendRing, src, dst record.Addr, nelems, bsize uint64, srcStride, dstStride int64, destPE int32) int32 {
	var req record.Request
	req.Op = record.OpGetStrided
	req.Type = record.TypeUint8
	req.Src = src
	req.Dst = dst
	req.Nelems = nelems
	req.Bsize = bsize
	req.SrcStride = srcStride
	req.DstStride = dstStride
	req.DestPE = destPE
	_, status := r.SendWait(req)
	return status
}

// PutBatch issues a blocking batched (contiguous) put of nelems*bsize
// bytes (spec §3/§4's batched RMA).
func PutBatch(r *ring.SendRing, src, dst record.Addr, nelems, bsize uint64, destPE int32) int32 {
	var req record.Request
	req.Op = record.OpPutBatch
	req.Type = record.TypeUint8
	req.Src = src
	req.Dst = dst
	req.Nelems = nelems
	req.Bsize = bsize
	req.DestPE = destPE
	_, status := r.SendWait(req)
	return status
}

// GetBatch is PutBatch's read counterpart.
func GetBatch(r *ring.SendRing, src, dst record.Addr, nelems, bsize uint64, destPE int32) int32 {
	var req record.Request
	req.Op = record.OpGetBatch
	req.Type = record.TypeUint8
	req.Src = src
	req.Dst = dst
	req.Nelems = nelems
	req.Bsize = bsize
	req.DestPE = destPE
	_, status := r.SendWait(req)
	return status
}
