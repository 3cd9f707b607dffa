// Package global implements the global info and bootstrap contract
// (C7): a process-wide singleton holding PE identity, heap bounds, and
// the intra-node locality tables the fast path consults, plus the team
// pool external collaborator. Grounded on the teacher's
// facade/hioload.go subsystem-wiring shape and internal/session/store.go's
// sharded map; field list fixed by
// original_source/src/proxy_impl.h's ishmemi_info_t/ishmemi_cpu_info_t.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package global

import "sync"

// Info is the process-wide, post-init-immutable state every subsystem
// consults for PE identity and intra-node locality (spec §6/§7).
type Info struct {
	MyPE int32
	NPEs int32

	HeapBase uintptr
	HeapSize uintptr

	// OnlyIntraNode is set once, at init, after PE locality has been
	// fully determined (spec §4.5). The fast path only resolves a local
	// pointer when this is true.
	OnlyIntraNode bool

	// LocalPEs[p] is the local intra-node index of PE p, or 0 if p is
	// not locally reachable (spec §4.5 step 1).
	LocalPEs []int32
	// IPCBufferDelta[localIndex] is the byte offset added to a
	// symmetric-heap address to translate it into this process's
	// mapping of PE localIndex's heap (spec §6).
	IPCBufferDelta []uintptr

	Teams *TeamPool

	mu sync.RWMutex
}

// New builds an Info for a process of npes PEs, with myPE as this
// process's rank. LocalPEs/IPCBufferDelta start zeroed (no locality
// known) until the bootstrap runtime populates them.
func New(myPE, npes int32, heapBase, heapSize uintptr) *Info {
	return &Info{
		MyPE:           myPE,
		NPEs:           npes,
		HeapBase:       heapBase,
		HeapSize:       heapSize,
		LocalPEs:       make([]int32, npes),
		IPCBufferDelta: make([]uintptr, npes),
		Teams:          NewTeamPool(16),
	}
}

// SetLocality records PE p's local index and ipc buffer delta, called
// by the bootstrap runtime during init only.
func (g *Info) SetLocality(p int32, localIndex int32, delta uintptr) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.LocalPEs[p] = localIndex
	if int(localIndex) < len(g.IPCBufferDelta) {
		g.IPCBufferDelta[localIndex] = delta
	}
}

// FinishBootstrap marks locality discovery complete and records whether
// every reachable PE is intra-node (spec §4.5).
func (g *Info) FinishBootstrap(onlyIntraNode bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.OnlyIntraNode = onlyIntraNode
}

// LocalIndex returns the local intra-node index for PE p and whether
// the fast path may be attempted for it at all.
func (g *Info) LocalIndex(p int32) (localIndex int32, ok bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if int(p) >= len(g.LocalPEs) {
		return 0, false
	}
	li := g.LocalPEs[p]
	return li, li != 0 && g.OnlyIntraNode
}

// Delta returns the IPC buffer delta for a local index already known
// to be valid (callers check LocalIndex's ok first).
func (g *Info) Delta(localIndex int32) uintptr {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.IPCBufferDelta[localIndex]
}
