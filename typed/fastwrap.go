package typed

import (
	"unsafe"

	"github.com/momentics/gshmem/fastpath"
	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/record"
	"github.com/momentics/gshmem/ring"
)

// PutFast implements the producer side of the local-PE fast path (spec
// §4.5): when destPE is locally reachable it writes straight through a
// translated pointer, bypassing the ring entirely; otherwise it falls
// back to Put.
func PutFast[T Numeric](r *ring.SendRing, info *global.Info, dst record.Addr, value T, destPE int32) int32 {
	width := record.TypeWidth(BaseTypeOf[T]())
	if target, ok := fastpath.Resolve(info, destPE, dst); ok {
		v := ValueOf(value)
		fastpath.Put(target, v.Raw(width))
		return 0
	}
	return Put(r, dst, value, destPE)
}

// GetFast is PutFast's read counterpart.
func GetFast[T Numeric](r *ring.SendRing, info *global.Info, src record.Addr, destPE int32) (T, int32) {
	width := record.TypeWidth(BaseTypeOf[T]())
	if target, ok := fastpath.Resolve(info, destPE, src); ok {
		buf := make([]byte, width)
		fastpath.Get(buf, target)
		var v record.Value
		v.SetRaw(buf)
		return ValueTo[T](v), 0
	}
	return Get[T](r, src, destPE)
}

// AmoFetchAddFast uses the fast path only for the 64-bit integer
// operand types fastpath's atomic primitives actually support
// (floating-point AMOs have no fast-path implementation at all, spec
// §4.5/§9); every other type, or a failed locality check, falls back
// to the ring.
func AmoFetchAddFast[T Numeric](r *ring.SendRing, info *global.Info, dst record.Addr, delta T, destPE int32) (T, int32) {
	bt := BaseTypeOf[T]()
	if bt == record.TypeUint64 || bt == record.TypeInt64 {
		if target, ok := fastpath.Resolve(info, destPE, dst); ok {
			d := ValueOf(delta)
			prev := fastpath.AmoFetchAddUint64(target, d.AsUint64())
			var v record.Value
			v.SetUint64(prev)
			return ValueTo[T](v), 0
		}
	}
	return AmoFetchAdd[T](r, dst, delta, destPE)
}

// AmoCompareSwapFast is AmoCompareSwap's fast-path counterpart, under
// the same 64-bit-integer-only restriction as AmoFetchAddFast.
func AmoCompareSwapFast[T Numeric](r *ring.SendRing, info *global.Info, dst record.Addr, cond, value T, destPE int32) (T, int32) {
	bt := BaseTypeOf[T]()
	if bt == record.TypeUint64 || bt == record.TypeInt64 {
		if target, ok := fastpath.Resolve(info, destPE, dst); ok {
			condV, valueV := ValueOf(cond), ValueOf(value)
			condBits := condV.AsUint64()
			valueBits := valueV.AsUint64()
			for {
				prev := fastpath.AmoFetchUint64(target)
				if prev != condBits || fastpath.AmoCompareSwapUint64(target, prev, valueBits) {
					var v record.Value
					v.SetUint64(prev)
					return ValueTo[T](v), 0
				}
			}
		}
	}
	return AmoCompareSwap[T](r, dst, cond, value, destPE)
}

// AmoFetchOrFast is AmoFetchOr's fast-path counterpart, under the same
// 64-bit-integer-only restriction as AmoFetchAddFast (spec §4.5's
// fast-path bitwise AMO set).
func AmoFetchOrFast[T Numeric](r *ring.SendRing, info *global.Info, dst record.Addr, mask T, destPE int32) (T, int32) {
	bt := BaseTypeOf[T]()
	if bt == record.TypeUint64 || bt == record.TypeInt64 {
		if target, ok := fastpath.Resolve(info, destPE, dst); ok {
			m := ValueOf(mask)
			prev := fastpath.AmoFetchOrUint64(target, m.AsUint64())
			var v record.Value
			v.SetUint64(prev)
			return ValueTo[T](v), 0
		}
	}
	return AmoFetchOr[T](r, dst, mask, destPE)
}

// AmoFetchAndFast is AmoFetchAnd's fast-path counterpart.
func AmoFetchAndFast[T Numeric](r *ring.SendRing, info *global.Info, dst record.Addr, mask T, destPE int32) (T, int32) {
	bt := BaseTypeOf[T]()
	if bt == record.TypeUint64 || bt == record.TypeInt64 {
		if target, ok := fastpath.Resolve(info, destPE, dst); ok {
			m := ValueOf(mask)
			prev := fastpath.AmoFetchAndUint64(target, m.AsUint64())
			var v record.Value
			v.SetUint64(prev)
			return ValueTo[T](v), 0
		}
	}
	return AmoFetchAnd[T](r, dst, mask, destPE)
}

// AmoFetchXorFast is AmoFetchXor's fast-path counterpart.
func AmoFetchXorFast[T Numeric](r *ring.SendRing, info *global.Info, dst record.Addr, mask T, destPE int32) (T, int32) {
	bt := BaseTypeOf[T]()
	if bt == record.TypeUint64 || bt == record.TypeInt64 {
		if target, ok := fastpath.Resolve(info, destPE, dst); ok {
			m := ValueOf(mask)
			prev := fastpath.AmoFetchXorUint64(target, m.AsUint64())
			var v record.Value
			v.SetUint64(prev)
			return ValueTo[T](v), 0
		}
	}
	return AmoFetchXor[T](r, dst, mask, destPE)
}

// AmoFetchIncFast is AmoFetchInc's fast-path counterpart.
func AmoFetchIncFast[T Numeric](r *ring.SendRing, info *global.Info, dst record.Addr, destPE int32) (T, int32) {
	bt := BaseTypeOf[T]()
	if bt == record.TypeUint64 || bt == record.TypeInt64 {
		if target, ok := fastpath.Resolve(info, destPE, dst); ok {
			prev := fastpath.AmoFetchIncUint64(target)
			var v record.Value
			v.SetUint64(prev)
			return ValueTo[T](v), 0
		}
	}
	return AmoFetchInc[T](r, dst, destPE)
}

// PutSignalFast is PutSignal's fast-path counterpart (spec §4.5
// "Signaling put", §8 scenario 3). src and dst are both symmetric-heap
// addresses, matching PutSignal's and PutFast's addressing convention:
// src resolves against the issuing PE itself (info.MyPE), dst and
// sigAddr resolve against destPE. The fast path is used only when all
// three resolve locally; any one failing falls back to the ring in full.
func PutSignalFast(r *ring.SendRing, info *global.Info, src, dst record.Addr, bsize uint64, sigAddr record.Addr, sigOp record.SignalOp, signal uint64, destPE int32) int32 {
	srcTarget, srcOK := fastpath.Resolve(info, info.MyPE, src)
	dstTarget, dstOK := fastpath.Resolve(info, destPE, dst)
	sigTarget, sigOK := fastpath.Resolve(info, destPE, sigAddr)
	if srcOK && dstOK && sigOK {
		payload := unsafe.Slice((*byte)(srcTarget), bsize)
		fastpath.SignalingPut(dstTarget, payload, sigTarget, sigOp, signal)
		return 0
	}
	return PutSignal(r, src, dst, bsize, destPE, sigAddr, sigOp, signal)
}
