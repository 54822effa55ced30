// Package term talks to the kernel's console over a serial line.
package term

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
)

const usageString = `Connect to the console on a serial line.

Usage: %s [flags] <device>

The device defaults to $RPI_SERIAL. Type Ctrl-] to quit.

Flags:
`

var (
	flags   = flag.NewFlagSet("term", flag.ExitOnError)
	baud    = flags.Int("baud", envInt("RPI_BAUD", 230400), "baud rate, defaults to $RPI_BAUD")
	probe   = flags.Bool("probe", false, "check that the console echoes and exit")
	size    = flags.Int("size", 256, "probe payload size in bytes")
	timeout = flags.Duration("timeout", 5*time.Second, "probe timeout")
	listen  = flags.String("listen", "", "serve the console to websocket clients on `addr`")
)

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func Main(args []string) {
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), usageString, args[0])
		flags.PrintDefaults()
	}
	flags.Parse(args[1:])

	device := os.Getenv("RPI_SERIAL")
	switch flags.NArg() {
	case 0:
	case 1:
		device = flags.Arg(0)
	default:
		flags.Usage()
		os.Exit(2)
	}
	if device == "" {
		glog.Exit("no serial device given")
	}

	con, err := OpenSerial(device, *baud)
	if err != nil {
		glog.Exit(err)
	}
	defer con.Close()

	switch {
	case *probe:
		if err := Probe(con, Pattern(*size), *timeout); err != nil {
			glog.Exit(err)
		}
		glog.Infof("%s: echoed %d bytes", device, *size)
	case *listen != "":
		glog.Infof("serving %s on ws://%s%s", device, *listen, ConsolePath)
		glog.Exit(http.ListenAndServe(*listen, NewShare(con).Handler()))
	default:
		if err := Interactive(con); err != nil {
			glog.Exit(err)
		}
	}
}

// Interactive bridges the process's terminal to con until the escape
// character is typed.
func Interactive(con io.ReadWriter) error {
	restore, err := MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	defer restore()
	return Bridge(os.Stdin, os.Stdout, con)
}
