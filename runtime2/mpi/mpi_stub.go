//go:build !mpi

// File: runtime2/mpi/mpi_stub.go
// Stub fallback when the 'mpi' build tag is not enabled, grounded on
// the teacher's internal/transport/dpdk_transport_stub.go.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package mpi

import (
	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/heap"
	"github.com/momentics/gshmem/runtime2"
)

// New always fails without the 'mpi' build tag: no MPI Go binding
// exists anywhere in the reference corpus, so this mirrors the
// teacher's own stub-behind-build-tag treatment of its one
// unwireable dependency class (DPDK).
func New(*global.Info, *heap.Allocator) (runtime2.Plugin, error) {
	return nil, runtime2.ErrBackendUnavailable
}
