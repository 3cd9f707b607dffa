package diag

import "testing"

func TestClampStackPrintLimit(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 10},
		{5, 10},
		{10, 10},
		{32, 32},
		{50, 50},
		{999, 50},
		{-5, 10},
	}
	for _, c := range cases {
		if got := ClampStackPrintLimit(c.in); got != c.want {
			t.Errorf("ClampStackPrintLimit(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestErrorWithContext(t *testing.T) {
	err := New(ErrCodeInvalidPE, "pe out of range").WithContext("pe", 7).WithContext("n_pes", 4)
	if err.Code != ErrCodeInvalidPE {
		t.Fatalf("unexpected code: %v", err.Code)
	}
	if err.Context["pe"] != 7 || err.Context["n_pes"] != 4 {
		t.Fatalf("unexpected context: %+v", err.Context)
	}
	if err.Error() == "" {
		t.Fatal("expected non-empty error string")
	}
}

func TestErrorCodeIsFatal(t *testing.T) {
	if ErrCodeRingConsistencyWarning.IsFatal() {
		t.Fatal("ring consistency warning must not be fatal")
	}
	if !ErrCodeInvalidPE.IsFatal() {
		t.Fatal("invalid PE must be fatal")
	}
}

func TestProbesDumpState(t *testing.T) {
	p := NewProbes()
	p.Register("answer", func() any { return 42 })
	out := p.DumpState()
	if out["answer"] != 42 {
		t.Fatalf("unexpected probe dump: %+v", out)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	var m Metrics
	m.Enqueued.Add(3)
	m.FastPathHits.Add(1)
	snap := m.Snapshot()
	if snap["enqueued"] != 3 || snap["fast_path_hits"] != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
