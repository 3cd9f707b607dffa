package ishmem

import (
	"testing"
	"time"

	"github.com/momentics/gshmem/config"
	"github.com/momentics/gshmem/record"
	"github.com/momentics/gshmem/typed"
)

func newTestSession(t *testing.T, npes int32) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Runtime = config.RuntimeOpenSHMEM
	cfg.RingSize = 64
	s, err := Init(cfg, 0, npes, 1<<20, -1)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Finalize(); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
	})
	return s
}

func TestPutGetRoundTripThroughSession(t *testing.T) {
	s := newTestSession(t, 2)

	addr, err := s.Allocator().Malloc(8)
	if err != nil {
		t.Fatalf("malloc: %v", err)
	}

	if status := typed.Put[uint64](s.Ring(), addr, 0xCAFEBABE, 1); status != 0 {
		t.Fatalf("put status = %d, want 0", status)
	}
	s.MarkIssued(1)
	s.Fence(1)

	val, status := typed.Get[uint64](s.Ring(), addr, 1)
	if status != 0 {
		t.Fatalf("get status = %d, want 0", status)
	}
	if val != 0xCAFEBABE {
		t.Fatalf("val = %x, want 0xCAFEBABE", val)
	}
}

func TestAmoFetchAddThroughSession(t *testing.T) {
	s := newTestSession(t, 2)

	addr, err := s.Allocator().Malloc(8)
	if err != nil {
		t.Fatalf("malloc: %v", err)
	}

	prev, status := typed.AmoFetchAdd[uint64](s.Ring(), addr, 5, 1)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if prev != 0 {
		t.Fatalf("prev = %d, want 0", prev)
	}

	prev2, status := typed.AmoFetchAdd[uint64](s.Ring(), addr, 3, 1)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if prev2 != 5 {
		t.Fatalf("prev2 = %d, want 5", prev2)
	}
}

func TestBarrierThroughSession(t *testing.T) {
	s := newTestSession(t, 2)

	var req record.Request
	req.Op = record.OpCollectiveBarrier
	req.Team = s.WorldTeam()

	_, status := s.Ring().SendWait(req)
	if status != 0 {
		t.Fatalf("barrier status = %d, want 0", status)
	}
}

func TestAssistFinalizeEventuallyObservesDrainedRing(t *testing.T) {
	// The dedicated proxy goroutine is already draining the ring, so
	// AssistFinalize will usually lose the race for the consumer lock;
	// this only checks that calling it never panics and that, given a
	// request actually issued, the system converges on it being handled
	// one way or another within the deadline.
	s := newTestSession(t, 2)

	addr, err := s.Allocator().Malloc(8)
	if err != nil {
		t.Fatalf("malloc: %v", err)
	}

	var req record.Request
	req.Op = record.OpPut
	req.Type = record.TypeUint64
	req.Dst = addr
	req.Value.SetUint64(7)
	req.DestPE = 0
	_, status := s.Ring().SendWait(req)
	if status != 0 {
		t.Fatalf("put status = %d, want 0", status)
	}

	deadline := time.After(time.Second)
	for i := 0; i < 3; i++ {
		select {
		case <-deadline:
			return
		default:
			s.AssistFinalize()
		}
	}
}
