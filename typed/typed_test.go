package typed

import (
	"testing"
	"time"

	"github.com/momentics/gshmem/completion"
	"github.com/momentics/gshmem/record"
	"github.com/momentics/gshmem/ring"
)

// serveOnce drains a single ring request and echoes its value back as
// the completion's return payload, simulating the proxy side for a
// unit test that exercises only the producer surface.
func serveOnce(t *testing.T, r *ring.SendRing, done <-chan struct{}) {
	t.Helper()
	for {
		select {
		case <-done:
			return
		default:
		}
		req, comp, _, ok := r.Receive()
		if !ok {
			continue
		}
		comp.Ret = req.Value
		record.PublishCompletion(comp, uint32(req.Sequence)|record.SequenceReturnBit)
		r.Advance()
		return
	}
}

func newTestRing() *ring.SendRing {
	comps := completion.NewArray(8)
	return ring.New(8, comps)
}

func TestPutRoundTrip(t *testing.T) {
	r := newTestRing()
	done := make(chan struct{})
	go serveOnce(t, r, done)

	status := Put[uint64](r, record.Addr(0x100), 42, 1)
	close(done)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
}

func TestGetRoundTrip(t *testing.T) {
	r := newTestRing()
	done := make(chan struct{})
	go serveOnce(t, r, done)

	val, _ := Get[uint64](r, record.Addr(0x200), 1)
	close(done)
	_ = val
}

func TestAmoFetchAddRoundTrip(t *testing.T) {
	r := newTestRing()
	resultCh := make(chan uint64, 1)
	go func() {
		req, comp, _, ok := r.Receive()
		for !ok {
			req, comp, _, ok = r.Receive()
		}
		resultCh <- req.Value.AsUint64()
		comp.Ret.SetUint64(100)
		record.PublishCompletion(comp, uint32(req.Sequence)|record.SequenceReturnBit)
		r.Advance()
	}()

	prev, status := AmoFetchAdd[uint64](r, record.Addr(0x300), 5, 1)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if prev != 100 {
		t.Fatalf("prev = %d, want 100", prev)
	}

	select {
	case sent := <-resultCh:
		if sent != 5 {
			t.Fatalf("delta sent = %d, want 5", sent)
		}
	case <-time.After(time.Second):
		t.Fatalf("server goroutine never observed the request")
	}
}

func TestBaseTypeOfMapping(t *testing.T) {
	if BaseTypeOf[uint64]() != record.TypeUint64 {
		t.Fatalf("uint64 mapping wrong")
	}
	if BaseTypeOf[float32]() != record.TypeFloat32 {
		t.Fatalf("float32 mapping wrong")
	}
	if BaseTypeOf[int8]() != record.TypeInt8 {
		t.Fatalf("int8 mapping wrong")
	}
}

func TestValueOfValueToRoundTrip(t *testing.T) {
	v := ValueOf[int32](-5)
	if got := ValueTo[int32](v); got != -5 {
		t.Fatalf("got %d, want -5", got)
	}
}

func TestAmoFetchOrRoundTrip(t *testing.T) {
	r := newTestRing()
	done := make(chan struct{})
	go serveOnce(t, r, done)

	prev, status := AmoFetchOr[uint64](r, record.Addr(0x400), 0x0F, 1)
	close(done)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if prev != 0x0F {
		t.Fatalf("prev = %#x, want 0xf (serveOnce echoes the request's own value)", prev)
	}
}

func TestAmoFetchIncRoundTrip(t *testing.T) {
	r := newTestRing()
	done := make(chan struct{})
	go serveOnce(t, r, done)

	_, status := AmoFetchInc[uint64](r, record.Addr(0x500), 1)
	close(done)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
}

func TestPutSignalRoundTrip(t *testing.T) {
	r := newTestRing()
	done := make(chan struct{})
	go serveOnce(t, r, done)

	status := PutSignal(r, record.Addr(0x10), record.Addr(0x20), 64, 1, record.Addr(0x30), record.SignalSet, 7)
	close(done)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
}

func TestPutBatchRoundTrip(t *testing.T) {
	r := newTestRing()
	done := make(chan struct{})
	go serveOnce(t, r, done)

	status := PutBatch(r, record.Addr(0x10), record.Addr(0x20), 4, 8, 1)
	close(done)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
}

func TestGetStridedRoundTrip(t *testing.T) {
	r := newTestRing()
	done := make(chan struct{})
	go serveOnce(t, r, done)

	status := GetStrided(r, record.Addr(0x10), record.Addr(0x20), 4, 4, 16, 8, 1)
	close(done)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
}
