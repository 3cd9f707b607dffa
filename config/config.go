// Package config defines the configuration surface for a session: the
// bootstrap runtime selection, ring sizing, and diagnostic knobs from
// spec §6, plus a hot-reloadable store grounded on the teacher's
// control.ConfigStore.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package config

// RuntimeKind selects the bootstrap/transport backend (spec §6).
type RuntimeKind int

const (
	RuntimeMPI RuntimeKind = iota
	RuntimeOpenSHMEM
	RuntimePMI
)

func (k RuntimeKind) String() string {
	switch k {
	case RuntimeMPI:
		return "mpi"
	case RuntimeOpenSHMEM:
		return "openshmem"
	case RuntimePMI:
		return "pmi"
	default:
		return "unknown"
	}
}

const (
	// DefaultRingSize is RING_SIZE from spec §3/§6.
	DefaultRingSize = 4096
	// DefaultDrainRingThreshold is DRAIN_RING_THRESHOLD from spec §5/§6.
	DefaultDrainRingThreshold = 10
	minStackPrintLimit        = 10
	maxStackPrintLimit        = 50
)

// Config is the immutable-after-bootstrap configuration for a session.
type Config struct {
	// Runtime selects the bootstrap/transport backend. Default MPI.
	Runtime RuntimeKind
	// InitializeRuntime controls whether the session bootstraps the
	// underlying runtime or adopts an already-initialized one. Default true.
	InitializeRuntime bool
	// GPU marks whether operations target a device-resident heap region.
	// Default true.
	GPU bool
	// StackPrintLimit bounds stack-trace depth, clamped to [10,50].
	StackPrintLimit int
	// Checked is the argument-validation flag (spec §7's
	// compile-time-or-init-time bracketing flag). No package reads it;
	// entry points perform no argument validation whatever its value.
	Checked bool
	// RingSize is the number of request slots in the send ring.
	RingSize int
	// DrainRingThreshold bounds the number of retries quiet() performs
	// while trying to obtain two consecutive identical reads of next_send.
	DrainRingThreshold int
}

// Default returns the configuration defaults enumerated in spec §6.
func Default() Config {
	return Config{
		Runtime:            RuntimeMPI,
		InitializeRuntime:  true,
		GPU:                true,
		StackPrintLimit:    ClampStackPrintLimit(20),
		Checked:            true,
		RingSize:           DefaultRingSize,
		DrainRingThreshold: DefaultDrainRingThreshold,
	}
}

// ClampStackPrintLimit clamps a configured stack-trace depth into [10,50].
func ClampStackPrintLimit(n int) int {
	if n < minStackPrintLimit {
		return minStackPrintLimit
	}
	if n > maxStackPrintLimit {
		return maxStackPrintLimit
	}
	return n
}

// Normalize clamps and fills any out-of-range fields in place, so callers
// building a Config by hand can't end up with an invalid ring size or
// stack-print depth.
func (c *Config) Normalize() {
	c.StackPrintLimit = ClampStackPrintLimit(c.StackPrintLimit)
	if c.RingSize <= 0 {
		c.RingSize = DefaultRingSize
	}
	if c.DrainRingThreshold <= 0 {
		c.DrainRingThreshold = DefaultDrainRingThreshold
	}
}
