package dispatch

import (
	"testing"

	"github.com/momentics/gshmem/diag"
	"github.com/momentics/gshmem/record"
)

func TestUnsupportedCellsReleaseWithFatalStatus(t *testing.T) {
	m := &diag.Metrics{}
	tbl := NewTable(m)

	var req record.Request
	req.Op = record.OpNop
	req.Type = record.TypeUint64
	req.Sequence = 7

	var builtin record.Completion
	tbl.Invoke(&req, &builtin, nil)

	if builtin.Status != int32(diag.ErrCodeUnsupportedOpType) {
		t.Fatalf("status = %d, want ErrCodeUnsupportedOpType", builtin.Status)
	}
	if seq := record.LoadCompletionSequence(&builtin); seq != 7 {
		t.Fatalf("sequence = %d, want 7", seq)
	}
	if got := m.Snapshot()["dispatch_unsupported"]; got != 1 {
		t.Fatalf("dispatch_unsupported metric = %d, want 1", got)
	}
}

func TestRegisterOverridesDefault(t *testing.T) {
	tbl := NewTable(nil)
	called := false
	tbl.Register(record.OpPut, record.TypeUint64, func(req *record.Request, builtin, allocated *record.Completion) {
		called = true
		record.PublishCompletion(builtin, uint32(req.Sequence))
	})

	var req record.Request
	req.Op = record.OpPut
	req.Type = record.TypeUint64
	var builtin record.Completion
	tbl.Invoke(&req, &builtin, nil)

	if !called {
		t.Fatalf("registered handler not invoked")
	}
}
