// Package dispatch implements the proxy dispatch table (C4): a dense
// OP_COUNT x TYPE_COUNT array of handlers, constructed at init with
// every unfilled cell defaulting to an unsupported sentinel. Grounded
// on original_source/src/proxy_impl.h's ishmemi_proxy_funcs table and
// on the teacher's control/debug.go diagnostic style.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package dispatch

import (
	"github.com/momentics/gshmem/diag"
	"github.com/momentics/gshmem/record"
)

// Handler processes one dispatched request. builtin is always non-nil
// for ring-sourced requests; allocated is non-nil only when
// req.Completion != 0. A handler with no return value and no completion
// semantics (e.g. a non-blocking AMO folded into a future quiet) may
// still be called with a non-nil builtin and must simply leave it alone
// apart from the flow-control release.
//
// Every handler must, as its last act, publish builtin's sequence field
// with release order so the ring slot can be reused (spec §4.4); this
// package does not do it on the handler's behalf.
type Handler func(req *record.Request, builtin *record.Completion, allocated *record.Completion)

// Table is the OP_COUNT x TYPE_COUNT dispatch table.
type Table struct {
	handlers [record.OpCount][record.TypeCount]Handler
	metrics  *diag.Metrics
}

// NewTable returns a table with every cell populated by Unsupported.
func NewTable(metrics *diag.Metrics) *Table {
	t := &Table{metrics: metrics}
	for op := 0; op < record.OpCount; op++ {
		for ty := 0; ty < record.TypeCount; ty++ {
			t.handlers[op][ty] = t.unsupported
		}
	}
	return t
}

// Register installs handler for (op, type), overwriting any previous
// entry (including the default Unsupported sentinel).
func (t *Table) Register(op record.Op, ty record.BaseType, h Handler) {
	t.handlers[op][ty] = h
}

// Invoke looks up and calls the handler for (req.Op, req.Type).
func (t *Table) Invoke(req *record.Request, builtin *record.Completion, allocated *record.Completion) {
	t.handlers[req.Op][req.Type](req, builtin, allocated)
}

// unsupported is installed in every cell Register never touches. It
// records a diagnostic and releases the ring slot with a fatal status,
// matching spec §4.4's "records a diagnostic and returns a fatal status".
func (t *Table) unsupported(req *record.Request, builtin *record.Completion, allocated *record.Completion) {
	if t.metrics != nil {
		t.metrics.DispatchUnsupported.Add(1)
	}
	if builtin != nil {
		builtin.Status = int32(diag.ErrCodeUnsupportedOpType)
		record.PublishCompletion(builtin, uint32(req.Sequence))
	}
	if allocated != nil {
		allocated.Status = int32(diag.ErrCodeUnsupportedOpType)
		record.PublishCompletion(allocated, uint32(req.Sequence))
	}
}
