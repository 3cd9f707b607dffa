// Package collective implements the collectives entry/exit contract
// (spec §1/§4.6/§6): it does not implement the collective algorithms
// themselves (out of scope), only how a collective request enters the
// ring-dispatch path and how its completion leaves it, delegating the
// actual operation to a runtime2.Plugin. Grounded on the teacher's
// internal/session/store.go sharded registration (repurposed as
// global.TeamPool) and disambiguated against
// original_source/src/synchronization.cpp's team/collective dispatch
// shape.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package collective

import (
	"github.com/momentics/gshmem/diag"
	"github.com/momentics/gshmem/record"
	"github.com/momentics/gshmem/runtime2"
)

// Handlers builds the dispatch.Handler set for every OpCollective*
// operation, bound to plugin.
type Handlers struct {
	plugin  runtime2.Plugin
	metrics *diag.Metrics
}

// New constructs a Handlers bound to plugin.
func New(plugin runtime2.Plugin, metrics *diag.Metrics) *Handlers {
	return &Handlers{plugin: plugin, metrics: metrics}
}

func (h *Handlers) release(builtin, allocated *record.Completion, req *record.Request, status int32) {
	if builtin != nil {
		builtin.Status = status
		record.PublishCompletion(builtin, uint32(req.Sequence))
	}
	if allocated != nil {
		allocated.Status = status
		record.PublishCompletion(allocated, uint32(req.Sequence))
	}
}

// Barrier handles OpCollectiveBarrier: a whole-team rendezvous with no
// payload.
func (h *Handlers) Barrier(req *record.Request, builtin, allocated *record.Completion) {
	err := h.plugin.BarrierAll()
	h.release(builtin, allocated, req, statusOf(err))
}

// Broadcast handles OpCollectiveBroadcast: req.Root is the source PE,
// req.Dst the destination address, req.Nelems/req.Type the payload
// shape.
func (h *Handlers) Broadcast(req *record.Request, builtin, allocated *record.Completion) {
	err := h.plugin.Bcast(req.Team, req.Root, req.Dst, req.Nelems, req.Type)
	h.release(builtin, allocated, req, statusOf(err))
}

// FCollect handles OpCollectiveFCollect: every team member contributes
// req.Nelems elements from req.Src, gathered into req.Dst.
func (h *Handlers) FCollect(req *record.Request, builtin, allocated *record.Completion) {
	err := h.plugin.FCollect(req.Team, req.Dst, req.Src, req.Nelems, req.Type)
	h.release(builtin, allocated, req, statusOf(err))
}

// Reduce handles OpCollectiveReduce, using the plugin's internal
// unsigned-char/max-int reductions (spec §6) when the operand type
// matches; other types are rejected as unsupported, matching the
// plugin's own enumerated reduction set.
func (h *Handlers) Reduce(req *record.Request, builtin, allocated *record.Completion) {
	var err error
	switch req.Type {
	case record.TypeUint8:
		err = h.plugin.ReduceUChar(req.Team, "and", req.Dst, req.Src, req.Nelems)
	case record.TypeInt32, record.TypeInt64:
		err = h.plugin.ReduceMaxInt(req.Team, req.Dst, req.Src, req.Nelems)
	default:
		err = diag.New(diag.ErrCodeUnsupportedOpType, "reduce: unsupported operand type").WithContext("type", req.Type.String())
	}
	h.release(builtin, allocated, req, statusOf(err))
}

func statusOf(err error) int32 {
	if err == nil {
		return int32(diag.ErrCodeOK)
	}
	if de, ok := err.(*diag.Error); ok {
		return int32(de.Code)
	}
	return int32(diag.ErrCodeTransportFailure)
}
