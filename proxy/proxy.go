// Package proxy implements the host proxy thread (C2 consumer side,
// dispatching through the C4 table):
// a single dedicated goroutine that drains the send ring, dispatches
// each request through the dispatch table, and advances the consumer
// cursor. Grounded on the teacher's internal/concurrency/executor.go
// worker loop (stop-channel select, queue-or-backoff body, eapache/queue
// for the auxiliary work list) and disambiguated against
// original_source/src/proxy_impl.h's ishmemi_proxy_funcs consumer loop,
// which likewise never blocks waiting for the next request but spins
// with a yield between empty polls.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package proxy

import (
	"runtime"
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/gshmem/affinity"
	"github.com/momentics/gshmem/completion"
	"github.com/momentics/gshmem/diag"
	"github.com/momentics/gshmem/dispatch"
	"github.com/momentics/gshmem/record"
	"github.com/momentics/gshmem/ring"
)

// idleBackoff bounds how long the proxy sleeps after a burst of empty
// polls, the way the teacher's worker.run falls back to time.Sleep(1ms)
// once both its local and global queues are empty.
const idleBackoff = time.Millisecond

// maintenanceTask is a unit of background work unrelated to any single
// ring request: team garbage collection, metrics flushing, and similar
// chores the proxy thread interleaves between request dispatches.
type maintenanceTask func()

// Proxy owns the consumer side of one send ring: it is the only regular
// caller of Receive/Advance, though AssistOnce lets another goroutine
// help out under best-effort mutual exclusion (spec §4.2).
type Proxy struct {
	ring        *ring.SendRing
	completions *completion.Array
	table       *dispatch.Table
	metrics     *diag.Metrics

	cpuID int

	mu          sync.Mutex
	maintenance *queue.Queue

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// New builds a Proxy bound to r, draining into table. cpuID pins the
// Run goroutine's OS thread via affinity.SetAffinity; pass -1 to leave
// it unpinned.
func New(r *ring.SendRing, completions *completion.Array, table *dispatch.Table, metrics *diag.Metrics, cpuID int) *Proxy {
	return &Proxy{
		ring:        r,
		completions: completions,
		table:       table,
		metrics:     metrics,
		cpuID:       cpuID,
		maintenance: queue.New(),
		stopCh:      make(chan struct{}),
		stoppedCh:   make(chan struct{}),
	}
}

// ScheduleMaintenance enqueues a background task to run on the proxy
// goroutine between request dispatches. It never blocks Run's caller.
func (p *Proxy) ScheduleMaintenance(task maintenanceTask) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maintenance.Add(task)
}

// runOneMaintenanceTask pops and runs a single queued task, if any.
func (p *Proxy) runOneMaintenanceTask() bool {
	p.mu.Lock()
	if p.maintenance.Length() == 0 {
		p.mu.Unlock()
		return false
	}
	task := p.maintenance.Remove().(maintenanceTask)
	p.mu.Unlock()

	p.safeRun(task)
	return true
}

// Run drains the ring until Stop is called. It must be invoked from its
// own goroutine; callers that need to know when it has exited should
// wait on the channel returned by Stop.
func (p *Proxy) Run() {
	defer close(p.stoppedCh)

	if p.cpuID >= 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		_ = affinity.SetAffinity(p.cpuID)
	}

	idleStreak := 0
	for {
		select {
		case <-p.stopCh:
			return
		default:
		}

		if p.dispatchOnce() {
			idleStreak = 0
			continue
		}

		if p.runOneMaintenanceTask() {
			idleStreak = 0
			continue
		}

		idleStreak++
		if idleStreak < 64 {
			runtime.Gosched()
		} else {
			time.Sleep(idleBackoff)
		}
	}
}

// Stop signals Run to exit and returns a channel closed once it has.
func (p *Proxy) Stop() <-chan struct{} {
	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
	return p.stoppedCh
}

// AssistOnce lets a caller outside the dedicated proxy goroutine drain
// at most one request, for callers like a finalize progress loop that
// cannot afford to wait for the next Run iteration. It is a no-op if
// the proxy goroutine currently holds the consumer lock.
func (p *Proxy) AssistOnce() bool {
	return p.dispatchOnce()
}

// dispatchOnce takes the consumer lock, reads one request if available,
// dispatches it, and advances the ring. Both Run and AssistOnce funnel
// through it so they never race on the same slot.
func (p *Proxy) dispatchOnce() bool {
	if !p.ring.TryLockConsumer() {
		return false
	}
	defer p.ring.UnlockConsumer()

	req, builtin, _, ok := p.ring.Receive()
	if !ok {
		return false
	}

	allocated := p.allocatedFor(req)
	p.safeInvoke(req, builtin, allocated)
	p.ring.Advance()

	if p.metrics != nil {
		p.metrics.Dequeued.Add(1)
	}
	return true
}

// allocatedFor resolves req's allocated completion slot, if it carries
// one: req.Completion is the absolute index into the completion array's
// allocated half, or 0 when the request only uses its built-in slot
// (spec §4.1: a zero completion field means "none requested").
func (p *Proxy) allocatedFor(req *record.Request) *record.Completion {
	if req.Completion == 0 {
		return nil
	}
	return p.completions.At(uint32(req.Completion))
}

// safeInvoke calls the dispatch table under a recover guard, the same
// shape as the teacher's worker.safeExecute: a handler panic must not
// take down the proxy goroutine, but it also must not leave the ring
// slot permanently stuck, so the built-in completion is still released
// with a failure status on the recovered path.
func (p *Proxy) safeInvoke(req *record.Request, builtin, allocated *record.Completion) {
	defer func() {
		if r := recover(); r != nil {
			builtin.Status = int32(diag.ErrCodeInternal)
			record.PublishCompletion(builtin, uint32(req.Sequence))
			if allocated != nil {
				allocated.Status = int32(diag.ErrCodeInternal)
				record.PublishCompletion(allocated, uint32(req.Sequence))
			}
		}
	}()
	p.table.Invoke(req, builtin, allocated)
}

// safeRun executes a maintenance task under the same recover guard as
// request dispatch: a misbehaving background chore must not kill the
// proxy goroutine.
func (p *Proxy) safeRun(task maintenanceTask) {
	defer func() { recover() }()
	task()
}
