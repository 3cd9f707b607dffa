//go:build mpi

// File: runtime2/mpi/mpi.go
// Placeholder MPI-backed runtime2.Plugin, grounded on the teacher's
// internal/transport/dpdk_transport.go ("+build dpdk" placeholder that
// succeeds without a real binding): no MPI Go client exists in the
// reference corpus, so this satisfies the interface by delegating to
// the loopback plugin rather than fabricating an MPI binding.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package mpi

import (
	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/heap"
	"github.com/momentics/gshmem/runtime2"
	"github.com/momentics/gshmem/runtime2/loopback"
)

// New returns a Plugin that satisfies runtime2.Plugin by delegating to
// the in-process loopback implementation; real inter-node MPI traffic
// is not implemented.
func New(info *global.Info, alloc *heap.Allocator) (runtime2.Plugin, error) {
	return loopback.New(info, alloc), nil
}
