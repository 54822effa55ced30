// Command kernel is the console kernel. Build it with GOOS=noos GOARCH=arm64
// and link it at 0x80000, where the firmware loads kernel8.img, then turn it
// into an SD card image with 'rpigo image'.
package main

import (
	"github.com/clktmr/rpi/bsp"
	"github.com/clktmr/rpi/kernel"
)

func main() {
	kernel.Run(bsp.New())
}
