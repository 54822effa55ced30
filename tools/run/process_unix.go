//go:build unix

package run

import (
	"os"
	"syscall"
)

// The pty makes the emulator a session leader, so its pid is also the id of
// its process group.
func processGroupKill(p *os.Process) error {
	return syscall.Kill(-p.Pid, syscall.SIGINT)
}
