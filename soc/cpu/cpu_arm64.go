package cpu

// Nop executes a single nop instruction.
//
//go:noescape
func Nop()

// WaitForEvent suspends the core until an event or interrupt arrives.
//
//go:noescape
func WaitForEvent()
