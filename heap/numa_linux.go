//go:build linux

// File: heap/numa_linux.go
// Linux NUMA-aware backing allocation via libnuma, grounded on the
// teacher's pool/numa_linux.go cgo binding.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package heap

/*
#cgo LDFLAGS: -lnuma
#include <numa.h>
#include <stdlib.h>
void* gshmem_numa_alloc(size_t size, int node) {
	if (numa_available() == -1 || node < 0) {
		return calloc(1, size);
	}
	return numa_alloc_onnode(size, node);
}
void gshmem_numa_free(void *mem, size_t size, int node) {
	if (numa_available() == -1 || node < 0) {
		free(mem);
		return;
	}
	numa_free(mem, size);
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// allocNUMA reserves size zeroed bytes pinned to node, or falls back to
// calloc if NUMA is unavailable.
func allocNUMA(size int, node int) ([]byte, error) {
	ptr := C.gshmem_numa_alloc(C.size_t(size), C.int(node))
	if ptr == nil {
		return nil, fmt.Errorf("heap: linux NUMA alloc failed")
	}
	return unsafe.Slice((*byte)(ptr), size), nil
}

func freeNUMA(buf []byte, node int) {
	if len(buf) == 0 {
		return
	}
	C.gshmem_numa_free(unsafe.Pointer(&buf[0]), C.size_t(len(buf)), C.int(node))
}
