// Rpigo builds, boots and talks to Raspberry Pi console kernels.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/clktmr/rpi/tools/run"
	"github.com/clktmr/rpi/tools/sdimage"
	"github.com/clktmr/rpi/tools/term"
)

const usageString = `rpigo is a tool for development of Raspberry Pi console kernels.

Usage:

	%s [flags] <command> [arguments]

The commands are:

	image    build a bootable SD card image from a kernel ELF or kernel8.img
	run      boot a kernel8.img in an emulator and attach to its UART
	term     attach to the UART console over a serial line or websocket

Run '%[1]s <command> -h' for the arguments of a command.

Flags:
`

var commands = map[string]func(args []string){
	"image": sdimage.Main,
	"run":   run.Main,
	"term":  term.Main,
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

// dispatch runs the command named by args[0] and returns the exit code for
// usage errors. Commands exit on their own on failure.
func dispatch(args []string) int {
	if len(args) < 1 {
		flag.Usage()
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(flag.CommandLine.Output(), "rpigo: unknown command %q\n", args[0])
		flag.Usage()
		return 2
	}
	cmd(args)
	return 0
}

func main() {
	flag.Set("logtostderr", "true")
	flag.Usage = usage
	flag.Parse()

	code := dispatch(flag.Args())
	glog.Flush()
	os.Exit(code)
}
