package diag

import "sync/atomic"

// Metrics is a fixed set of atomic counters for the ring/proxy/heap
// subsystems, ported from the teacher's control.MetricsRegistry but
// specialized to named fields instead of a generic map, since every
// counter here is known ahead of time and accessed from hot paths.
type Metrics struct {
	Enqueued               atomic.Uint64
	Dequeued                atomic.Uint64
	FastPathHits            atomic.Uint64
	RingFullStalls          atomic.Uint64
	AllocatedCompletions    atomic.Uint64
	DrainThresholdExceeded  atomic.Uint64
	DispatchUnsupported     atomic.Uint64
	FloatAtomicFallbacks    atomic.Uint64
}

// Snapshot returns a point-in-time copy of all counters as a plain map,
// the same "GetSnapshot" shape the teacher's registries expose.
func (m *Metrics) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"enqueued":                m.Enqueued.Load(),
		"dequeued":                m.Dequeued.Load(),
		"fast_path_hits":          m.FastPathHits.Load(),
		"ring_full_stalls":        m.RingFullStalls.Load(),
		"allocated_completions":   m.AllocatedCompletions.Load(),
		"drain_threshold_exceeded": m.DrainThresholdExceeded.Load(),
		"dispatch_unsupported":    m.DispatchUnsupported.Load(),
		"float_atomic_fallbacks":  m.FloatAtomicFallbacks.Load(),
	}
}
