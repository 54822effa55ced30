// Package kernel brings up the board and runs the console loop, which is all
// the kernel does for the rest of its life.
package kernel

import (
	"io"

	"github.com/clktmr/rpi/drivers"
	"github.com/clktmr/rpi/iox"
	"github.com/clktmr/rpi/machine"
)

// Board is what the kernel needs from the board support.
type Board interface {
	// Registry returns the board's drivers in initialization order. It
	// must return the same registry on every call.
	Registry() *drivers.Registry

	// PostInit does board specific wiring after all drivers are up.
	PostInit()

	// Console returns the console, which is valid after PostInit.
	Console() io.ReadWriter
}

// Init initializes the board's drivers in order, runs the board's post-init
// hook and returns the console. If a driver fails, nothing after it runs.
// Drivers are initialized once per board: calling Init again fails with
// drivers.ErrInitialized.
func Init(b Board) (io.ReadWriter, error) {
	if err := b.Registry().InitAll(); err != nil {
		return nil, err
	}
	b.PostInit()
	return b.Console(), nil
}

// Run boots the board and hands the console to Main. It never returns: a
// failed boot or a failing console halts the machine with a diagnostic.
func Run(b Board) {
	con, err := Init(b)
	if err != nil {
		machine.Fatal(err)
	}
	machine.Fatal(Main(con))
}

// Main discards everything up to and including the first newline, then
// echoes every byte it reads. It returns only if the console fails.
func Main(con io.ReadWriter) error {
	if err := awaitNewline(con); err != nil {
		return err
	}
	return echo(con)
}

func awaitNewline(con io.Reader) error {
	var c [1]byte
	for {
		if err := iox.ReadExact(con, c[:], nil); err != nil {
			return err
		}
		if c[0] == '\n' {
			return nil
		}
	}
}

func echo(con io.ReadWriter) error {
	var c [1]byte
	for {
		if err := iox.ReadExact(con, c[:], nil); err != nil {
			return err
		}
		if err := iox.WriteAll(con, c[:], nil); err != nil {
			return err
		}
	}
}
