package typed

import (
	"testing"
	"time"
	"unsafe"

	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/record"
)

func localInfo(t *testing.T, buf []byte) *global.Info {
	t.Helper()
	info := global.New(0, 2, 0, uintptr(len(buf)))
	delta := uintptr(unsafe.Pointer(&buf[0]))
	info.SetLocality(1, 1, delta)
	info.FinishBootstrap(true)
	return info
}

func TestPutGetFastTakeLocalPath(t *testing.T) {
	buf := make([]byte, 64)
	info := localInfo(t, buf)
	r := newTestRing() // unused fallback path, but PutFast/GetFast never reach it here

	status := PutFast[uint64](r, info, record.Addr(0), 0x1122334455667788, 1)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}

	val, status := GetFast[uint64](r, info, record.Addr(0), 1)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if val != 0x1122334455667788 {
		t.Fatalf("val = %x, want 0x1122334455667788", val)
	}
}

func TestPutFastFallsBackWhenNotLocal(t *testing.T) {
	r := newTestRing()
	info := global.New(0, 2, 0, 1<<16) // PE 1 never marked local

	done := make(chan struct{})
	go serveOnce(t, r, done)

	status := PutFast[uint64](r, info, record.Addr(0x10), 7, 1)
	close(done)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
}

func TestAmoFetchAddFastLocalPath(t *testing.T) {
	buf := make([]byte, 64)
	info := localInfo(t, buf)
	r := newTestRing()

	prev, status := AmoFetchAddFast[uint64](r, info, record.Addr(0), 5, 1)
	if status != 0 || prev != 0 {
		t.Fatalf("prev=%d status=%d, want 0/0", prev, status)
	}
	prev2, status := AmoFetchAddFast[uint64](r, info, record.Addr(0), 5, 1)
	if status != 0 || prev2 != 5 {
		t.Fatalf("prev2=%d status=%d, want 5/0", prev2, status)
	}
}

func TestAmoCompareSwapFastLocalPath(t *testing.T) {
	buf := make([]byte, 64)
	info := localInfo(t, buf)
	r := newTestRing()

	PutFast[uint64](r, info, record.Addr(0), 42, 1)

	prev, status := AmoCompareSwapFast[uint64](r, info, record.Addr(0), 42, 99, 1)
	if status != 0 || prev != 42 {
		t.Fatalf("prev=%d status=%d, want 42/0", prev, status)
	}

	got, status := GetFast[uint64](r, info, record.Addr(0), 1)
	if status != 0 || got != 99 {
		t.Fatalf("got=%d status=%d, want 99/0", got, status)
	}
}

func TestAmoFetchAddFastNarrowTypeFallsBackToRing(t *testing.T) {
	buf := make([]byte, 64)
	info := localInfo(t, buf)
	r := newTestRing()

	resultCh := make(chan uint64, 1)
	go func() {
		req, comp, _, ok := r.Receive()
		for !ok {
			req, comp, _, ok = r.Receive()
		}
		resultCh <- req.Value.AsUint64()
		comp.Ret.SetUint64(200)
		record.PublishCompletion(comp, uint32(req.Sequence)|record.SequenceReturnBit)
		r.Advance()
	}()

	prev, status := AmoFetchAddFast[uint32](r, info, record.Addr(0), 3, 1)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if prev != 200 {
		t.Fatalf("prev = %d, want 200 (ring fallback result)", prev)
	}

	select {
	case <-resultCh:
	case <-time.After(time.Second):
		t.Fatalf("server goroutine never observed the request")
	}
}

func TestPutSignalFastFallsBackWhenNotLocal(t *testing.T) {
	r := newTestRing()
	info := global.New(0, 2, 0, 1<<16) // neither self nor destPE marked local

	done := make(chan struct{})
	go serveOnce(t, r, done)

	status := PutSignalFast(r, info, record.Addr(0x10), record.Addr(0x20), 64, record.Addr(0x30), record.SignalSet, 7, 1)
	close(done)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
}

func TestAmoFetchOrFastLocalPath(t *testing.T) {
	buf := make([]byte, 64)
	info := localInfo(t, buf)
	r := newTestRing()

	PutFast[uint64](r, info, record.Addr(0), 0xF0, 1)

	prev, status := AmoFetchOrFast[uint64](r, info, record.Addr(0), 0x0F, 1)
	if status != 0 || prev != 0xF0 {
		t.Fatalf("prev=%#x status=%d, want 0xf0/0", prev, status)
	}

	got, status := GetFast[uint64](r, info, record.Addr(0), 1)
	if status != 0 || got != 0xFF {
		t.Fatalf("got=%#x status=%d, want 0xff/0", got, status)
	}
}
