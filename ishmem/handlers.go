// Handlers bridge ring-received put/get/AMO requests into real memory
// operations against the symmetric heap, the half of the dispatch table
// fastpath.Resolve never reaches because it requires the target PE to
// already be proven reachable without the ring. Grounded on
// original_source/src/amo_impl.h's per-type AMO switch and amo.cpp's
// put/get byte-copy path, expressed as one width-parameterized handler
// per op family instead of fourteen generated copies, the same
// collapsing typed.go applies to the producer side.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package ishmem

import (
	"sync/atomic"
	"unsafe"

	"github.com/momentics/gshmem/diag"
	"github.com/momentics/gshmem/dispatch"
	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/heap"
	"github.com/momentics/gshmem/record"
)

// registerMemoryOps installs put/get handlers for every non-void
// operand type, and AMO handlers for the 32/64-bit integer types Go's
// sync/atomic can operate on directly (spec §4.5/§9: narrower operand
// types have no atomic hardware counterpart and stay on the default
// unsupported sentinel, the same restriction the fast path documents
// for floats). info identifies the issuing PE, the implicit local side
// of every bulk RMA op (signaling put, strided/batched put/get), since
// record.Request only ever names the remote DestPE.
func registerMemoryOps(table *dispatch.Table, alloc *heap.Allocator, info *global.Info) {
	for i := 0; i < record.TypeCount; i++ {
		ty := record.BaseType(i)
		width := record.TypeWidth(ty)
		if width == 0 {
			continue
		}
		table.Register(record.OpPut, ty, putHandler(alloc, width))
		table.Register(record.OpPutNonblocking, ty, putHandler(alloc, width))
		table.Register(record.OpGet, ty, getHandler(alloc, width))
		table.Register(record.OpGetNonblocking, ty, getHandler(alloc, width))
		table.Register(record.OpPutStrided, ty, putStridedHandler(alloc, info))
		table.Register(record.OpGetStrided, ty, getStridedHandler(alloc, info))
		table.Register(record.OpPutBatch, ty, putBatchHandler(alloc, info))
		table.Register(record.OpGetBatch, ty, getBatchHandler(alloc, info))
		table.Register(record.OpPutSignal, ty, putSignalHandler(alloc, info))
		table.Register(record.OpPutSignalNonblocking, ty, putSignalHandler(alloc, info))

		if width != 4 && width != 8 {
			continue
		}
		table.Register(record.OpAmoFetch, ty, amoFetchHandler(alloc, width))
		table.Register(record.OpAmoFetchNonblocking, ty, amoFetchHandler(alloc, width))
		table.Register(record.OpAmoSet, ty, amoSetHandler(alloc, width))
		table.Register(record.OpAmoSetNonblocking, ty, amoSetHandler(alloc, width))
		table.Register(record.OpAmoFetchAdd, ty, amoFetchAddHandler(alloc, width))
		table.Register(record.OpAmoFetchAddNonblocking, ty, amoFetchAddHandler(alloc, width))
		table.Register(record.OpAmoAdd, ty, amoAddHandler(alloc, width))
		table.Register(record.OpAmoAddNonblocking, ty, amoAddHandler(alloc, width))
		table.Register(record.OpAmoFetchOr, ty, amoFetchOrHandler(alloc, width))
		table.Register(record.OpAmoFetchOrNonblocking, ty, amoFetchOrHandler(alloc, width))
		table.Register(record.OpAmoOr, ty, amoOrHandler(alloc, width))
		table.Register(record.OpAmoOrNonblocking, ty, amoOrHandler(alloc, width))
		table.Register(record.OpAmoFetchAnd, ty, amoFetchAndHandler(alloc, width))
		table.Register(record.OpAmoFetchAndNonblocking, ty, amoFetchAndHandler(alloc, width))
		table.Register(record.OpAmoAnd, ty, amoAndHandler(alloc, width))
		table.Register(record.OpAmoAndNonblocking, ty, amoAndHandler(alloc, width))
		table.Register(record.OpAmoFetchXor, ty, amoFetchXorHandler(alloc, width))
		table.Register(record.OpAmoFetchXorNonblocking, ty, amoFetchXorHandler(alloc, width))
		table.Register(record.OpAmoXor, ty, amoXorHandler(alloc, width))
		table.Register(record.OpAmoXorNonblocking, ty, amoXorHandler(alloc, width))
		table.Register(record.OpAmoFetchInc, ty, amoFetchIncHandler(alloc, width))
		table.Register(record.OpAmoFetchIncNonblocking, ty, amoFetchIncHandler(alloc, width))
		table.Register(record.OpAmoInc, ty, amoIncHandler(alloc, width))
		table.Register(record.OpAmoIncNonblocking, ty, amoIncHandler(alloc, width))
		table.Register(record.OpAmoSwap, ty, amoSwapHandler(alloc, width))
		table.Register(record.OpAmoSwapNonblocking, ty, amoSwapHandler(alloc, width))
		table.Register(record.OpAmoCompareSwap, ty, amoCompareSwapHandler(alloc, width))
		table.Register(record.OpAmoCompareSwapNonblocking, ty, amoCompareSwapHandler(alloc, width))
	}
}

func release(builtin, allocated *record.Completion, req *record.Request, ret record.Value, status int32) {
	if builtin != nil {
		builtin.Ret = ret
		builtin.Status = status
		record.PublishCompletion(builtin, uint32(req.Sequence))
	}
	if allocated != nil {
		allocated.Ret = ret
		allocated.Status = status
		record.PublishCompletion(allocated, uint32(req.Sequence))
	}
}

func amoTarget(alloc *heap.Allocator, pe int32, dst record.Addr) unsafe.Pointer {
	arena := alloc.Arena(pe)
	return unsafe.Pointer(&arena[dst])
}

func putHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		arena := alloc.Arena(req.DestPE)
		copy(arena[req.Dst:req.Dst+record.Addr(width)], req.Value.Raw(width))
		release(builtin, allocated, req, record.Value{}, int32(diag.ErrCodeOK))
	}
}

func getHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		arena := alloc.Arena(req.DestPE)
		var ret record.Value
		ret.SetRaw(arena[req.Src : req.Src+record.Addr(width)])
		release(builtin, allocated, req, ret, int32(diag.ErrCodeOK))
	}
}

func amoFetchHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		target := amoTarget(alloc, req.DestPE, req.Dst)
		var ret record.Value
		switch width {
		case 4:
			ret.SetUint64(uint64((*atomic.Uint32)(target).Load()))
		case 8:
			ret.SetUint64((*atomic.Uint64)(target).Load())
		}
		release(builtin, allocated, req, ret, int32(diag.ErrCodeOK))
	}
}

func amoSetHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		target := amoTarget(alloc, req.DestPE, req.Dst)
		switch width {
		case 4:
			(*atomic.Uint32)(target).Store(uint32(req.Value.AsUint64()))
		case 8:
			(*atomic.Uint64)(target).Store(req.Value.AsUint64())
		}
		release(builtin, allocated, req, record.Value{}, int32(diag.ErrCodeOK))
	}
}

func amoFetchAddHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		target := amoTarget(alloc, req.DestPE, req.Dst)
		var ret record.Value
		switch width {
		case 4:
			delta := uint32(req.Value.AsUint64())
			prev := (*atomic.Uint32)(target).Add(delta) - delta
			ret.SetUint64(uint64(prev))
		case 8:
			delta := req.Value.AsUint64()
			prev := (*atomic.Uint64)(target).Add(delta) - delta
			ret.SetUint64(prev)
		}
		release(builtin, allocated, req, ret, int32(diag.ErrCodeOK))
	}
}

// amoAddHandler is the non-fetching add: it runs amoFetchAddHandler
// unchanged, so the prior value is still written to the completion's
// Ret; OpAmoAdd differs from OpAmoFetchAdd only in its op code.
func amoAddHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	inner := amoFetchAddHandler(alloc, width)
	return func(req *record.Request, builtin, allocated *record.Completion) {
		inner(req, builtin, allocated)
	}
}

// amoFetchOrHandler performs a fetch-or, the target of seed scenario 1's
// 4-PE fan-in (spec §8). Go 1.23's atomic.Uint32/Uint64.Or already
// returns the prior value, matching amoFetchAddHandler's shape exactly.
func amoFetchOrHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		target := amoTarget(alloc, req.DestPE, req.Dst)
		var ret record.Value
		switch width {
		case 4:
			mask := uint32(req.Value.AsUint64())
			prev := (*atomic.Uint32)(target).Or(mask)
			ret.SetUint64(uint64(prev))
		case 8:
			mask := req.Value.AsUint64()
			prev := (*atomic.Uint64)(target).Or(mask)
			ret.SetUint64(prev)
		}
		release(builtin, allocated, req, ret, int32(diag.ErrCodeOK))
	}
}

// amoOrHandler is the non-fetching or: it runs amoFetchOrHandler
// unchanged, so the prior value is still written to the completion's
// Ret, matching amoAddHandler's pattern.
func amoOrHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	inner := amoFetchOrHandler(alloc, width)
	return func(req *record.Request, builtin, allocated *record.Completion) {
		inner(req, builtin, allocated)
	}
}

// amoFetchAndHandler performs a fetch-and; atomic.Uint32/Uint64.And
// returns the prior value, same as Or.
func amoFetchAndHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		target := amoTarget(alloc, req.DestPE, req.Dst)
		var ret record.Value
		switch width {
		case 4:
			mask := uint32(req.Value.AsUint64())
			prev := (*atomic.Uint32)(target).And(mask)
			ret.SetUint64(uint64(prev))
		case 8:
			mask := req.Value.AsUint64()
			prev := (*atomic.Uint64)(target).And(mask)
			ret.SetUint64(prev)
		}
		release(builtin, allocated, req, ret, int32(diag.ErrCodeOK))
	}
}

func amoAndHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	inner := amoFetchAndHandler(alloc, width)
	return func(req *record.Request, builtin, allocated *record.Completion) {
		inner(req, builtin, allocated)
	}
}

// amoFetchXorHandler performs a fetch-xor. sync/atomic has no Xor
// method, so it is built from the same CAS-retry shape as
// amoCompareSwapHandler.
func amoFetchXorHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		target := amoTarget(alloc, req.DestPE, req.Dst)
		var ret record.Value
		switch width {
		case 4:
			mask := uint32(req.Value.AsUint64())
			p := (*atomic.Uint32)(target)
			for {
				prev := p.Load()
				if p.CompareAndSwap(prev, prev^mask) {
					ret.SetUint64(uint64(prev))
					break
				}
			}
		case 8:
			mask := req.Value.AsUint64()
			p := (*atomic.Uint64)(target)
			for {
				prev := p.Load()
				if p.CompareAndSwap(prev, prev^mask) {
					ret.SetUint64(prev)
					break
				}
			}
		}
		release(builtin, allocated, req, ret, int32(diag.ErrCodeOK))
	}
}

func amoXorHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	inner := amoFetchXorHandler(alloc, width)
	return func(req *record.Request, builtin, allocated *record.Completion) {
		inner(req, builtin, allocated)
	}
}

// amoFetchIncHandler is fetch-add with a fixed delta of 1 (spec §4.5's
// "inc"), ignoring whatever req.Value carries.
func amoFetchIncHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		target := amoTarget(alloc, req.DestPE, req.Dst)
		var ret record.Value
		switch width {
		case 4:
			prev := (*atomic.Uint32)(target).Add(1) - 1
			ret.SetUint64(uint64(prev))
		case 8:
			prev := (*atomic.Uint64)(target).Add(1) - 1
			ret.SetUint64(prev)
		}
		release(builtin, allocated, req, ret, int32(diag.ErrCodeOK))
	}
}

func amoIncHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	inner := amoFetchIncHandler(alloc, width)
	return func(req *record.Request, builtin, allocated *record.Completion) {
		inner(req, builtin, allocated)
	}
}

func amoSwapHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		target := amoTarget(alloc, req.DestPE, req.Dst)
		var ret record.Value
		switch width {
		case 4:
			prev := (*atomic.Uint32)(target).Swap(uint32(req.Value.AsUint64()))
			ret.SetUint64(uint64(prev))
		case 8:
			prev := (*atomic.Uint64)(target).Swap(req.Value.AsUint64())
			ret.SetUint64(prev)
		}
		release(builtin, allocated, req, ret, int32(diag.ErrCodeOK))
	}
}

// amoCompareSwapHandler always returns the value observed at dst,
// whether or not the swap took place, matching SHMEM's
// atomic_compare_swap semantics (original_source/src/amo_impl.h).
func amoCompareSwapHandler(alloc *heap.Allocator, width int) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		target := amoTarget(alloc, req.DestPE, req.Dst)
		var ret record.Value
		switch width {
		case 4:
			cond := uint32(req.CmpValue.AsUint64())
			newVal := uint32(req.Value.AsUint64())
			p := (*atomic.Uint32)(target)
			for {
				prev := p.Load()
				if prev != cond || p.CompareAndSwap(prev, newVal) {
					ret.SetUint64(uint64(prev))
					break
				}
			}
		case 8:
			cond := req.CmpValue.AsUint64()
			newVal := req.Value.AsUint64()
			p := (*atomic.Uint64)(target)
			for {
				prev := p.Load()
				if prev != cond || p.CompareAndSwap(prev, newVal) {
					ret.SetUint64(prev)
					break
				}
			}
		}
		release(builtin, allocated, req, ret, int32(diag.ErrCodeOK))
	}
}

// putSignalHandler performs a put of req.Bsize bytes followed by an
// ordered signal update at req.SigAddr, both against req.DestPE (spec
// §4.5 "Signaling put", §8 scenario 3's put_signal -> signal_wait_until).
// The issuing PE's bytes come from info.MyPE's arena at req.Src, since
// Request carries only the remote DestPE.
func putSignalHandler(alloc *heap.Allocator, info *global.Info) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		srcArena := alloc.Arena(info.MyPE)
		payload := srcArena[req.Src : req.Src+record.Addr(req.Bsize)]
		dst := amoTarget(alloc, req.DestPE, req.Dst)
		copy(unsafe.Slice((*byte)(dst), req.Bsize), payload)

		sig := (*atomic.Uint64)(amoTarget(alloc, req.DestPE, req.SigAddr))
		switch req.SigOp {
		case record.SignalSet:
			sig.Store(req.Signal)
		case record.SignalAdd:
			sig.Add(req.Signal)
		}
		release(builtin, allocated, req, record.Value{}, int32(diag.ErrCodeOK))
	}
}

// putStridedHandler copies req.Nelems elements of req.Bsize bytes each
// from the issuing PE's arena to req.DestPE's, stepping req.SrcStride
// bytes between source elements and req.DstStride bytes between
// destination elements (spec §3/§4's strided RMA).
func putStridedHandler(alloc *heap.Allocator, info *global.Info) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		srcArena := alloc.Arena(info.MyPE)
		dstArena := alloc.Arena(req.DestPE)
		for i := uint64(0); i < req.Nelems; i++ {
			srcOff := req.Src + record.Addr(int64(i)*req.SrcStride)
			dstOff := req.Dst + record.Addr(int64(i)*req.DstStride)
			copy(dstArena[dstOff:dstOff+record.Addr(req.Bsize)], srcArena[srcOff:srcOff+record.Addr(req.Bsize)])
		}
		release(builtin, allocated, req, record.Value{}, int32(diag.ErrCodeOK))
	}
}

// getStridedHandler is putStridedHandler's mirror: req.Src is the
// remote read address on req.DestPE (matching getHandler's existing
// Src-is-remote convention), req.Dst is the issuing PE's local
// destination address.
func getStridedHandler(alloc *heap.Allocator, info *global.Info) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		srcArena := alloc.Arena(req.DestPE)
		dstArena := alloc.Arena(info.MyPE)
		for i := uint64(0); i < req.Nelems; i++ {
			srcOff := req.Src + record.Addr(int64(i)*req.SrcStride)
			dstOff := req.Dst + record.Addr(int64(i)*req.DstStride)
			copy(dstArena[dstOff:dstOff+record.Addr(req.Bsize)], srcArena[srcOff:srcOff+record.Addr(req.Bsize)])
		}
		release(builtin, allocated, req, record.Value{}, int32(diag.ErrCodeOK))
	}
}

// putBatchHandler is the contiguous special case of strided put: both
// strides equal the element size, so req.Nelems*req.Bsize bytes move in
// one contiguous copy (spec §3/§4's batched RMA).
func putBatchHandler(alloc *heap.Allocator, info *global.Info) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		srcArena := alloc.Arena(info.MyPE)
		dstArena := alloc.Arena(req.DestPE)
		n := record.Addr(req.Nelems * req.Bsize)
		copy(dstArena[req.Dst:req.Dst+n], srcArena[req.Src:req.Src+n])
		release(builtin, allocated, req, record.Value{}, int32(diag.ErrCodeOK))
	}
}

// getBatchHandler is putBatchHandler's mirror for a contiguous get:
// req.Src is the remote read address on req.DestPE, req.Dst is the
// issuing PE's local destination address.
func getBatchHandler(alloc *heap.Allocator, info *global.Info) dispatch.Handler {
	return func(req *record.Request, builtin, allocated *record.Completion) {
		srcArena := alloc.Arena(req.DestPE)
		dstArena := alloc.Arena(info.MyPE)
		n := record.Addr(req.Nelems * req.Bsize)
		copy(dstArena[req.Dst:req.Dst+n], srcArena[req.Src:req.Src+n])
		release(builtin, allocated, req, record.Value{}, int32(diag.ErrCodeOK))
	}
}
