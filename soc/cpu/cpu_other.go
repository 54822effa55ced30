//go:build !arm64

package cpu

import "runtime"

// Nop does nothing, but isn't inlined so loops around it aren't optimized
// away.
//
//go:noinline
func Nop() {}

// WaitForEvent yields the processor. There are no hardware events to wait
// for on hosts.
func WaitForEvent() { runtime.Gosched() }
