//go:build debug

package debug

// Enabled guards assertions that are expensive to evaluate, so that release
// builds drop them together with their arguments.
const Enabled = true

// Assert panics with message if b is false.
func Assert(b bool, message string) {
	if !b {
		panic(message)
	}
}
