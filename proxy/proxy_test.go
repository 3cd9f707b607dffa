package proxy

import (
	"testing"
	"time"

	"github.com/momentics/gshmem/completion"
	"github.com/momentics/gshmem/diag"
	"github.com/momentics/gshmem/dispatch"
	"github.com/momentics/gshmem/record"
	"github.com/momentics/gshmem/ring"
)

func newTestProxy(t *testing.T) (*Proxy, *ring.SendRing, *dispatch.Table) {
	t.Helper()
	comps := completion.NewArray(8)
	r := ring.New(8, comps)
	metrics := &diag.Metrics{}
	table := dispatch.NewTable(metrics)
	p := New(r, comps, table, metrics, -1)
	return p, r, table
}

func TestRunDispatchesAndReleasesBuiltin(t *testing.T) {
	p, r, table := newTestProxy(t)

	seen := make(chan record.Addr, 1)
	table.Register(record.OpPut, record.TypeUint64, func(req *record.Request, builtin, allocated *record.Completion) {
		seen <- req.Dst
		builtin.Status = int32(diag.ErrCodeOK)
		record.PublishCompletion(builtin, uint32(req.Sequence)|record.SequenceReturnBit)
	})

	go p.Run()
	defer func() { <-p.Stop() }()

	var req record.Request
	req.Op = record.OpPut
	req.Type = record.TypeUint64
	req.Dst = record.Addr(0xABC)

	r.Send(req)

	select {
	case dst := <-seen:
		if dst != record.Addr(0xABC) {
			t.Fatalf("dst = %x, want 0xABC", dst)
		}
	case <-time.After(time.Second):
		t.Fatalf("proxy never dispatched the request")
	}
}

func TestUnsupportedCellReleasesWithFatalStatus(t *testing.T) {
	p, r, _ := newTestProxy(t)
	go p.Run()
	defer func() { <-p.Stop() }()

	var req record.Request
	req.Op = record.OpAmoSwap
	req.Type = record.TypeInt8

	_, status := r.SendWait(req)
	if status != int32(diag.ErrCodeUnsupportedOpType) {
		t.Fatalf("status = %d, want ErrCodeUnsupportedOpType", status)
	}
}

func TestScheduleMaintenanceRunsBetweenDispatches(t *testing.T) {
	p, _, _ := newTestProxy(t)
	done := make(chan struct{})
	p.ScheduleMaintenance(func() { close(done) })

	go p.Run()
	defer func() { <-p.Stop() }()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("maintenance task never ran")
	}
}

func TestAssistOnceYieldsToActiveConsumer(t *testing.T) {
	p, r, _ := newTestProxy(t)
	if !r.TryLockConsumer() {
		t.Fatalf("expected to acquire consumer lock")
	}
	defer r.UnlockConsumer()

	if p.AssistOnce() {
		t.Fatalf("AssistOnce should not proceed while the consumer lock is held")
	}
}
