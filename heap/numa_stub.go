//go:build !linux && !windows

// File: heap/numa_stub.go
// Fallback backing allocation for platforms without a NUMA-aware path,
// grounded on the teacher's pool/numa_stub.go.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package heap

func allocNUMA(size int, _ int) ([]byte, error) {
	return make([]byte, size), nil
}

func freeNUMA([]byte, int) {}
