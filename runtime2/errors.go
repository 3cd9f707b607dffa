package runtime2

import "errors"

// ErrBackendUnavailable is returned by a stub backend constructor when
// its build tag was not enabled, mirroring the teacher's
// dpdk_transport_stub.go "not available" error.
var ErrBackendUnavailable = errors.New("runtime2: backend not available (build tag not enabled)")
