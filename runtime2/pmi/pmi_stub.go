//go:build !pmi

// File: runtime2/pmi/pmi_stub.go
// Stub fallback when the 'pmi' build tag is not enabled, grounded on
// the teacher's internal/transport/dpdk_transport_stub.go.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package pmi

import (
	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/heap"
	"github.com/momentics/gshmem/runtime2"
)

// New always fails without the 'pmi' build tag: no PMI Go binding
// exists anywhere in the reference corpus.
func New(*global.Info, *heap.Allocator) (runtime2.Plugin, error) {
	return nil, runtime2.ErrBackendUnavailable
}
