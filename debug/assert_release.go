//go:build !debug

// Package debug provides assertions for invariants the hardware layers rely on
// but don't check at run time. They are active with the debug build tag and
// compile to nothing otherwise, so register access stays a single load or
// store in the kernel image.
package debug

// Enabled guards assertions that are expensive to evaluate, so that release
// builds drop them together with their arguments.
const Enabled = false

// Assert panics with message if b is false.
func Assert(b bool, message string) {}
