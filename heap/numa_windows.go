//go:build windows

// File: heap/numa_windows.go
// Windows NUMA-aware backing allocation via VirtualAllocExNuma, grounded
// on the teacher's internal/concurrency/numa_windows.go.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package heap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var procVirtualAllocExNuma = windows.NewLazySystemDLL("kernel32.dll").NewProc("VirtualAllocExNuma")
var procVirtualFree = windows.NewLazySystemDLL("kernel32.dll").NewProc("VirtualFree")

// allocNUMA reserves and commits size bytes on the given NUMA node, or
// falls back to plain heap-backed memory when node < 0.
func allocNUMA(size int, node int) ([]byte, error) {
	if node < 0 {
		return make([]byte, size), nil
	}
	hProc := windows.CurrentProcess()
	addr, _, err := procVirtualAllocExNuma.Call(
		uintptr(hProc),
		0,
		uintptr(size),
		uintptr(windows.MEM_RESERVE|windows.MEM_COMMIT),
		uintptr(windows.PAGE_READWRITE),
		uintptr(node),
	)
	if addr == 0 {
		return nil, fmt.Errorf("heap: windows VirtualAllocExNuma failed: %w", err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func freeNUMA(buf []byte, node int) {
	if len(buf) == 0 || node < 0 {
		return
	}
	const memRelease = 0x8000
	addr := uintptr(unsafe.Pointer(&buf[0]))
	procVirtualFree.Call(addr, 0, memRelease)
}
