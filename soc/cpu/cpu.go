// Package cpu provides the few processor primitives the drivers need for
// timing and parking the core.
package cpu

// SpinForCycles busy-waits for at least n iterations of Nop. It's used where
// the hardware documents a minimum setup time in cycles that software can't
// observe in any other way.
//
//go:nosplit
func SpinForCycles(n int) {
	for i := 0; i < n; i++ {
		Nop()
	}
}
