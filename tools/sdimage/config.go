package sdimage

import (
	"fmt"
	"os"
	"strings"

	"github.com/clktmr/rpi/soc"
)

// Config holds the firmware settings written to config.txt.
type Config struct {
	Kernel    string // file name of the kernel image
	UARTClock int    // PL011 reference clock in Hz
	Extra     []string
}

// DefaultConfig boots kernel8.img in AArch64 mode and hands the PL011 UART
// with the reference clock the kernel expects to GPIO 14 and 15.
var DefaultConfig = Config{
	Kernel:    "kernel8.img",
	UARTClock: soc.UARTClock,
}

// String renders the config.txt contents.
func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "arm_64bit=1\n")
	fmt.Fprintf(&b, "kernel=%s\n", c.Kernel)
	fmt.Fprintf(&b, "kernel_address=%#x\n", LoadAddr)
	fmt.Fprintf(&b, "enable_uart=1\n")
	fmt.Fprintf(&b, "init_uart_clock=%d\n", c.UARTClock)
	// On the Pi 3 and 4 the PL011 drives Bluetooth unless told otherwise.
	fmt.Fprintf(&b, "dtoverlay=disable-bt\n")
	for _, line := range c.Extra {
		fmt.Fprintln(&b, line)
	}
	return b.String()
}

// readLines returns the non-empty lines of the file at path.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}
