// Package runtime2 defines the runtime plug-in contract (§6): the
// bootstrap/transport abstraction C4 handlers delegate to for anything
// that cannot be resolved on the local node. Named runtime2 to avoid
// colliding with the standard library's runtime package. Method set
// fixed verbatim by original_source/src/runtime.h's ishmemi_runtime_type
// virtual interface; the detect/switch/stub-fallback factory shape is
// grounded on the teacher's internal/transport/transport.go and
// dpdk_transport_stub.go.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package runtime2

import "github.com/momentics/gshmem/record"

// Plugin is the bootstrap runtime's full method set. Handlers in the
// dispatch table that target a non-local PE delegate to these methods
// (spec §6).
type Plugin interface {
	Init() error
	Fini() error

	GetRank() int32
	GetSize() int32
	GetNodeRank() int32
	GetNodeSize() int32
	IsLocal(pe int32) bool
	IsSymmetricAddress(addr record.Addr, pe int32) bool

	Malloc(size uintptr) (record.Addr, error)
	Calloc(nmemb, size uintptr) (record.Addr, error)
	Free(addr record.Addr)

	TeamSync(team uint64) error
	TeamPredefinedSet(kind string) (uint64, error)
	TeamSplitStrided(parent uint64, start, stride, size int32) (uint64, error)
	TeamDestroy(team uint64) error

	Bcast(team uint64, root int32, addr record.Addr, nelems uint64, ty record.BaseType) error
	NodeBcast(team uint64, root int32, addr record.Addr, nelems uint64, ty record.BaseType) error
	FCollect(team uint64, dst, src record.Addr, nelems uint64, ty record.BaseType) error
	NodeFCollect(team uint64, dst, src record.Addr, nelems uint64, ty record.BaseType) error
	BarrierAll() error
	NodeBarrier() error

	Fence(pe int32) error
	Quiet() error
	Sync(team uint64) error

	ReduceUChar(team uint64, op string, dst, src record.Addr, nelems uint64) error
	ReduceMaxInt(team uint64, dst, src record.Addr, nelems uint64) error

	Progress() error
	Abort(status int32, message string)
}
