package sync2

import (
	"fmt"
	"os"
	"runtime"

	"github.com/momentics/gshmem/diag"
)

// ringCounters is the minimal view sync2 needs of ring.SendRing, kept
// as an interface here so sync2 never imports ring (ring already
// imports completion; ishmem.Session passes its *ring.SendRing in).
type ringCounters interface {
	NextSend() uint32
	NextReceive() uint32
}

// Quiet implements spec §4.6's quiet algorithm: it samples next_send
// twice until two consecutive reads agree (bounded by
// drainRingThreshold retries; on exhaustion it logs a warning and
// proceeds with the last observed value, per original_source's
// ishmemi_drain_ring), then spins until next_receive has caught up.
func Quiet(r ringCounters, drainRingThreshold int, metrics *diag.Metrics) {
	checkpoint := r.NextSend()
	for i := 0; i < drainRingThreshold; i++ {
		again := r.NextSend()
		if again == checkpoint {
			break
		}
		checkpoint = again
		if i == drainRingThreshold-1 {
			fmt.Fprintln(os.Stderr, diag.New(diag.ErrCodeRingConsistencyWarning,
				"quiet: next_send did not settle within the drain threshold; proceeding"))
			if metrics != nil {
				metrics.DrainThresholdExceeded.Add(1)
			}
		}
	}

	for r.NextReceive() < checkpoint {
		runtime.Gosched()
	}
}
