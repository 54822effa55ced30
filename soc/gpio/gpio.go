// Package gpio implements the pin multiplexer of the BCM2837 GPIO block.
//
// Only what's needed to route the PL011 UART to the header pins 8 (GPIO 14,
// TXD) and 10 (GPIO 15, RXD) is implemented.
package gpio

import (
	"unsafe"

	"github.com/clktmr/rpi/soc/cpu"
)

// setupCycles is the minimum time the pull-up/down control signal needs to
// settle, as documented in the peripherals manual. It can't be detected in
// software.
const setupCycles = 150

// GPIO is the driver for the GPIO register block. It's the only owner of the
// block and must not be copied.
type GPIO struct {
	regs  *registers
	delay func(cycles int)
}

// New returns the driver for the register block at base.
func New(base uintptr) *GPIO {
	return newGPIO((*registers)(unsafe.Pointer(base)))
}

func newGPIO(regs *registers) *GPIO {
	return &GPIO{regs: regs, delay: cpu.SpinForCycles}
}

func (g *GPIO) Name() string { return "GPIO" }

// Init implements drivers.Driver. The GPIO block needs no generic bring-up,
// pin routing is board specific and done by MapUART.
func (g *GPIO) Init() error { return nil }

// MapUART switches GPIO 14 and 15 to the PL011 UART and disables their pull
// resistors. The steps and delays must happen in exactly this order, the pins
// are left in an electrically unstable state otherwise. That's not visible to
// software, so nothing here can fail.
func (g *GPIO) MapUART() {
	g.regs.fsel1.Modify(fsel14.Val(funcAltFunc0), fsel15.Val(funcAltFunc0))

	g.regs.pud.Store(0)
	g.delay(setupCycles)

	g.regs.pudclk0.Write(pudclk14.Set(), pudclk15.Set())
	g.delay(setupCycles)

	g.regs.pudclk0.Store(0)
}
