package diag

import (
	"fmt"
	"os"
	"runtime"
)

// minStackPrintLimit and maxStackPrintLimit bound STACK_PRINT_LIMIT (spec §6),
// mirroring original_source/src/err.cpp's ishmemi_print_trace clamp.
const (
	minStackPrintLimit = 10
	maxStackPrintLimit = 50
)

// ClampStackPrintLimit clamps a configured depth into [10,50].
func ClampStackPrintLimit(n int) int {
	if n < minStackPrintLimit {
		return minStackPrintLimit
	}
	if n > maxStackPrintLimit {
		return maxStackPrintLimit
	}
	return n
}

// PrintTrace writes up to limit stack frames to stderr. limit is clamped
// defensively in case a caller forgot ClampStackPrintLimit.
func PrintTrace(limit int) {
	limit = ClampStackPrintLimit(limit)
	pcs := make([]uintptr, limit)
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return
	}
	frames := runtime.CallersFrames(pcs[:n])
	fmt.Fprintf(os.Stderr, "obtained %d stack frames\n", n)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(os.Stderr, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
}

// Fatal prints a diagnostic, an optional stack trace, and aborts the
// process. Every "Fatal" error kind in spec §7 surfaces through this path.
func Fatal(stackPrintLimit int, err error) {
	fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
	PrintTrace(stackPrintLimit)
	os.Exit(1)
}
