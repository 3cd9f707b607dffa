// Package ishmem is the top-level facade (spec §7's init/finalize
// contract): it wires config, global, heap, ring, completion, dispatch,
// proxy, collective, and a runtime2.Plugin into one Session, the same
// way the teacher's facade/hioload.go constructs and owns every
// subsystem behind a single entry point.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package ishmem

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/momentics/gshmem/collective"
	"github.com/momentics/gshmem/completion"
	"github.com/momentics/gshmem/config"
	"github.com/momentics/gshmem/diag"
	"github.com/momentics/gshmem/dispatch"
	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/heap"
	"github.com/momentics/gshmem/proxy"
	"github.com/momentics/gshmem/record"
	"github.com/momentics/gshmem/ring"
	"github.com/momentics/gshmem/runtime2"
	"github.com/momentics/gshmem/runtime2/loopback"
	"github.com/momentics/gshmem/runtime2/mpi"
	"github.com/momentics/gshmem/runtime2/pmi"
	"github.com/momentics/gshmem/sync2"
)

// Session is one bootstrapped library instance: the process-wide state
// spec §7 describes as the result of ishmem_init.
type Session struct {
	store  *config.Store
	info   *global.Info
	alloc  *heap.Allocator
	ring   *ring.SendRing
	comps  *completion.Array
	table  *dispatch.Table
	proxy  *proxy.Proxy
	plugin runtime2.Plugin
	team   *collective.Handlers
	metrics *diag.Metrics

	worldTeam uint64

	// perDestIssued is an issue counter per destination PE, incremented
	// with release order by MarkIssued and consulted by Fence (spec
	// §4.6). The typed wrappers do not call MarkIssued themselves.
	perDestIssued []atomic.Uint64
}

// Init bootstraps a Session per cfg: builds the symmetric heap, the
// send ring, the completion array, selects a runtime2.Plugin, and
// starts the proxy goroutine. It mirrors spec §7's init contract: argc
// is not needed in this binding, so PE identity and size are supplied
// directly by the caller instead of parsed from a launcher.
func Init(cfg config.Config, myPE, npes int32, heapSize uintptr, proxyCPU int) (*Session, error) {
	cfg.Normalize()
	store := config.NewStore(cfg)

	info := global.New(myPE, npes, 0, heapSize)
	alloc := heap.NewAllocator(int(npes), heapSize)

	plugin, err := selectPlugin(cfg.Runtime, info, alloc)
	if err != nil {
		alloc.Destroy()
		return nil, fmt.Errorf("ishmem: select runtime: %w", err)
	}
	if cfg.InitializeRuntime {
		if err := plugin.Init(); err != nil {
			alloc.Destroy()
			return nil, fmt.Errorf("ishmem: runtime init: %w", err)
		}
	}

	info.FinishBootstrap(true) // loopback and placeholder backends are always intra-node.
	for pe := int32(0); pe < npes; pe++ {
		info.SetLocality(pe, pe, 0) // same process: no IPC delta translation needed.
	}

	metrics := &diag.Metrics{}
	comps := completion.NewArray(uint32(cfg.RingSize))
	sendRing := ring.New(uint32(cfg.RingSize), comps)
	table := dispatch.NewTable(metrics)

	registerMemoryOps(table, alloc, info)
	teamHandlers := collective.New(plugin, metrics)
	// Collectives are registered across every operand type cell: Barrier
	// ignores Type entirely, Broadcast/FCollect move raw bytes regardless
	// of type, and Reduce's own internal switch (not the table) decides
	// which types it actually supports, matching original_source's
	// reduction dispatch rather than the default sentinel's.
	for i := 0; i < record.TypeCount; i++ {
		ty := record.BaseType(i)
		table.Register(record.OpCollectiveBarrier, ty, teamHandlers.Barrier)
		table.Register(record.OpCollectiveBroadcast, ty, teamHandlers.Broadcast)
		table.Register(record.OpCollectiveFCollect, ty, teamHandlers.FCollect)
		table.Register(record.OpCollectiveReduce, ty, teamHandlers.Reduce)
	}

	worldTeam, err := plugin.TeamPredefinedSet("world")
	if err != nil {
		alloc.Destroy()
		return nil, fmt.Errorf("ishmem: bootstrap world team: %w", err)
	}

	p := proxy.New(sendRing, comps, table, metrics, proxyCPU)
	go p.Run()

	s := &Session{
		store:         store,
		info:          info,
		alloc:         alloc,
		ring:          sendRing,
		comps:         comps,
		table:         table,
		proxy:         p,
		plugin:        plugin,
		team:          teamHandlers,
		metrics:       metrics,
		worldTeam:     worldTeam,
		perDestIssued: make([]atomic.Uint64, npes),
	}
	return s, nil
}

// Finalize implements spec §7's finalize contract: it drains the ring
// (quiet), stops the proxy goroutine, tears down the runtime plugin,
// and releases the symmetric heap. Callers must not use the Session
// afterward.
func (s *Session) Finalize() error {
	sync2.Quiet(s.ring, s.store.Config().DrainRingThreshold, s.metrics)
	<-s.proxy.Stop()
	if err := s.plugin.Fini(); err != nil {
		s.alloc.Destroy()
		return fmt.Errorf("ishmem: runtime fini: %w", err)
	}
	s.alloc.Destroy()
	return nil
}

// Ring exposes the send ring typed.go's generic wrappers publish
// through.
func (s *Session) Ring() *ring.SendRing { return s.ring }

// Info returns the process-wide PE/heap identity.
func (s *Session) Info() *global.Info { return s.info }

// Allocator returns the symmetric heap allocator.
func (s *Session) Allocator() *heap.Allocator { return s.alloc }

// Metrics returns the shared metrics registry.
func (s *Session) Metrics() *diag.Metrics { return s.metrics }

// WorldTeam returns the predefined team id spanning every PE.
func (s *Session) WorldTeam() uint64 { return s.worldTeam }

// MarkIssued records an RMA issued to destPE, for a later Fence(destPE)
// to order against (spec §4.6).
func (s *Session) MarkIssued(destPE int32) {
	s.perDestIssued[destPE].Add(1)
}

// Fence orders all RMAs previously issued to destPE ahead of whatever
// the caller does next.
func (s *Session) Fence(destPE int32) {
	sync2.Fence(&s.perDestIssued[destPE])
}

// Quiet drains the send ring, ensuring every issued request has reached
// the proxy before returning (spec §4.6).
func (s *Session) Quiet() {
	sync2.Quiet(s.ring, s.store.Config().DrainRingThreshold, s.metrics)
}

// AssistFinalize lets a caller outside the proxy goroutine help drain
// the ring once, for a finalize progress loop that cannot simply wait
// (spec §4.2's best-effort second consumer).
func (s *Session) AssistFinalize() bool {
	return s.proxy.AssistOnce()
}

func selectPlugin(kind config.RuntimeKind, info *global.Info, alloc *heap.Allocator) (runtime2.Plugin, error) {
	switch kind {
	case config.RuntimeMPI:
		plugin, err := mpi.New(info, alloc)
		if errors.Is(err, runtime2.ErrBackendUnavailable) {
			// config.Default's Runtime is MPI (spec §6), so a plain, untagged
			// build must still bootstrap: the loopback backend serves every
			// single-node configuration when the 'mpi' build tag isn't enabled.
			return loopback.New(info, alloc), nil
		}
		return plugin, err
	case config.RuntimePMI:
		plugin, err := pmi.New(info, alloc)
		if errors.Is(err, runtime2.ErrBackendUnavailable) {
			return loopback.New(info, alloc), nil
		}
		return plugin, err
	case config.RuntimeOpenSHMEM:
		// No standalone OpenSHMEM Go binding exists in the reference
		// corpus either; the loopback backend serves every single-node
		// configuration regardless of the configured launcher family.
		return loopback.New(info, alloc), nil
	default:
		// An unrecognized kind still bootstraps rather than refusing to
		// start: the loopback backend is the universal single-node
		// fallback for every launcher family this library knows about.
		return loopback.New(info, alloc), nil
	}
}
