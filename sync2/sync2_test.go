package sync2

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/gshmem/diag"
	"github.com/momentics/gshmem/record"
)

type fakeRing struct {
	nextSend    atomic.Uint32
	nextReceive atomic.Uint32
}

func (f *fakeRing) NextSend() uint32    { return f.nextSend.Load() }
func (f *fakeRing) NextReceive() uint32 { return f.nextReceive.Load() }

func TestQuietWaitsForReceiveToCatchUp(t *testing.T) {
	r := &fakeRing{}
	r.nextSend.Store(5)

	done := make(chan struct{})
	go func() {
		Quiet(r, 10, nil)
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("quiet returned before next_receive caught up")
	case <-time.After(20 * time.Millisecond):
	}

	r.nextReceive.Store(5)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("quiet did not return after receive caught up")
	}
}

// churningRing returns a new next_send on every read, so no two
// consecutive reads ever agree.
type churningRing struct{ nextSend atomic.Uint32 }

func (c *churningRing) NextSend() uint32    { return c.nextSend.Add(1) }
func (c *churningRing) NextReceive() uint32 { return ^uint32(0) } // never blocks on receive catch-up

func TestQuietExhaustionIncrementsMetricButProceeds(t *testing.T) {
	r := &churningRing{}
	m := &diag.Metrics{}

	Quiet(r, 3, m)

	if m.Snapshot()["drain_threshold_exceeded"] == 0 {
		t.Fatalf("expected drain threshold exceeded metric to be bumped")
	}
}

func TestWaitUntilUnblocksOnExpectedValue(t *testing.T) {
	var target atomic.Uint64
	done := make(chan struct{})
	go func() {
		WaitUntil(&target, record.CompareEQ, 7)
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("wait returned before condition was met")
	case <-time.After(10 * time.Millisecond):
	}

	target.Store(7)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("wait did not unblock")
	}
}

func TestTestAllAnySomeVector(t *testing.T) {
	var a, b, c atomic.Uint64
	a.Store(1)
	b.Store(2)
	c.Store(1)
	ivars := []*atomic.Uint64{&a, &b, &c}
	cmp := []uint64{1, 1, 1}

	if TestAll(ivars, record.CompareEQ, cmp) {
		t.Fatalf("not all equal 1")
	}
	if idx, ok := TestAny(ivars, record.CompareEQ, cmp); !ok || idx != 0 {
		t.Fatalf("any = (%d, %v), want (0, true)", idx, ok)
	}
	some := TestSome(ivars, record.CompareEQ, cmp)
	if len(some) != 2 || some[0] != 0 || some[1] != 2 {
		t.Fatalf("some = %v, want [0 2]", some)
	}

	ops := []record.CompareOp{record.CompareEQ, record.CompareGT, record.CompareLT}
	vec := TestVector(ivars, ops, []uint64{1, 1, 1})
	if !vec[0] || !vec[1] || vec[2] {
		t.Fatalf("vector = %v", vec)
	}
}
