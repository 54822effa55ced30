// Package run boots a kernel image in an emulator and attaches the local
// terminal to the emulated UART.
package run

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/aymanbagabas/go-pty"
	"github.com/golang/glog"
	"github.com/kballard/go-shellquote"

	"github.com/clktmr/rpi/tools/term"
)

const DefaultCommand = "qemu-system-aarch64 -M raspi3b -serial stdio -display none -kernel"

const usageString = `Run a kernel image in an emulator.

Usage: %s [flags] <kernel8.img>

The image is appended to the emulator command, which defaults to $RPI_RUN or
'` + DefaultCommand + `'. Type Ctrl-] to quit.

Flags:
`

var (
	flags   = flag.NewFlagSet("run", flag.ExitOnError)
	command = flags.String("run", "", "emulator command")
	probe   = flags.Bool("probe", false, "check that the console echoes and exit")
	size    = flags.Int("size", 64, "probe payload size in bytes")
	timeout = flags.Duration("timeout", 10*time.Second, "probe timeout")
)

// Command returns the emulator command line for the kernel image at path.
// cmdline is split the way a shell would split it.
func Command(cmdline, path string) ([]string, error) {
	if cmdline == "" {
		cmdline = os.Getenv("RPI_RUN")
	}
	if cmdline == "" {
		cmdline = DefaultCommand
	}
	args, err := shellquote.Split(cmdline)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty emulator command")
	}
	return append(args, path), nil
}

func Main(args []string) {
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), usageString, args[0])
		flags.PrintDefaults()
	}
	flags.Parse(args[1:])
	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	argv, err := Command(*command, flags.Arg(0))
	if err != nil {
		glog.Exitf("run: %v", err)
	}
	os.Exit(runKernel(argv))
}

// ErrTimeout is returned if the console didn't echo within the probe timeout.
var ErrTimeout = errors.New("no echo from console")

// emulator is a kernel running in an emulator whose serial console is
// attached to a pty.
type emulator struct {
	pty.Pty
	cmd  *pty.Cmd
	once sync.Once
}

func startEmulator(argv []string) (*emulator, error) {
	p, err := pty.New()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}
	cmd := p.Command(argv[0], argv[1:]...)
	glog.V(1).Infof("starting %q", argv)
	if err := cmd.Start(); err != nil {
		p.Close()
		return nil, fmt.Errorf("start command: %w", err)
	}
	return &emulator{Pty: p, cmd: cmd}, nil
}

// stop interrupts the emulator's process group, closes the pty and waits for
// the emulator to exit. Reads blocked on the pty return.
func (e *emulator) stop() {
	e.once.Do(func() {
		if err := processGroupKill(e.cmd.Process); err != nil {
			glog.V(1).Info(err)
		}
		e.Pty.Close()
		e.cmd.Wait()
	})
}

// probeKernel checks that the console of e echoes payload. A pty has no read
// deadlines, so the emulator is stopped if the echo doesn't arrive within
// timeout.
func probeKernel(e *emulator, payload []byte, timeout time.Duration) error {
	t := time.AfterFunc(timeout, e.stop)
	err := term.Probe(e, payload, 0)
	if !t.Stop() {
		return fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
	return err
}

func runKernel(argv []string) (code int) {
	e, err := startEmulator(argv)
	if err != nil {
		glog.Exit(err)
	}
	defer e.stop()

	sigintr := make(chan os.Signal, 1)
	signal.Notify(sigintr, os.Interrupt)
	go func() {
		<-sigintr
		e.stop()
	}()

	if *probe {
		if err := probeKernel(e, term.Pattern(*size), *timeout); err != nil {
			glog.Error(err)
			return 1
		}
		glog.Infof("echoed %d bytes", *size)
	} else if err := term.Interactive(e); err != nil {
		glog.Error(err)
		return 1
	}
	return 0
}
