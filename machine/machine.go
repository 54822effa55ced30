// Package machine is the kernel's last resort. Before the console works there
// is no way to report anything, so fatal errors are rendered into a fixed
// buffer where a debugger attached to the halted core can read them.
package machine

import (
	"github.com/clktmr/rpi/drivers"
	"github.com/clktmr/rpi/soc/cpu"
)

const payloadSize = 128

// The diagnostic of the last fatal error. Lives in the data segment, so
// recording it doesn't depend on a working allocator.
var payload struct {
	buf       [payloadSize]byte
	n         int
	truncated bool
}

// appendString adds as much of str to the payload as fits.
func appendString(str string) {
	n := copy(payload.buf[payload.n:], str)
	payload.n += n
	if n < len(str) {
		payload.truncated = true
	}
}

// appendError renders err without fmt. Driver failures are spelled out the
// way InitError.Error does.
func appendError(err error) {
	switch e := err.(type) {
	case nil:
		appendString("<nil>")
	case *drivers.InitError:
		appendString("failed to load driver ")
		appendString(e.Driver)
		appendString(": ")
		appendError(e.Err)
	default:
		appendString(err.Error())
	}
}

// Record replaces the halt diagnostic with a description of err. Messages
// longer than the payload buffer are truncated. Record doesn't allocate,
// unless err's Error method does.
func Record(err error) {
	payload.n = 0
	payload.truncated = false
	appendString("kernel: ")
	appendError(err)
}

// Payload returns the recorded diagnostic and whether it was truncated.
func Payload() (msg []byte, truncated bool) {
	return payload.buf[:payload.n], payload.truncated
}

// Fatal records err and halts.
func Fatal(err error) {
	Record(err)
	Halt()
}

// Halt parks the core forever.
func Halt() {
	for {
		cpu.WaitForEvent()
	}
}
