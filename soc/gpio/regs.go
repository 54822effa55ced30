package gpio

import "github.com/clktmr/rpi/mmio"

type fsel1 uint32

// GPIO Function Select 1, pins 10 to 19
var (
	fsel14 = mmio.Field[fsel1]{Shift: 12, Width: 3} // PL011 UART TX
	fsel15 = mmio.Field[fsel1]{Shift: 15, Width: 3} // PL011 UART RX
)

// Function select encoding of alternate function 0. Pins reset to input
// (0b000).
const funcAltFunc0 = 0b100

type pudclk0 uint32

// GPIO Pull-up/down Clock Register 0
var (
	pudclk14 = mmio.Field[pudclk0]{Shift: 14, Width: 1}
	pudclk15 = mmio.Field[pudclk0]{Shift: 15, Width: 1}
)

type registers struct {
	fsel0   mmio.U32
	fsel1   mmio.R32[fsel1]
	fsel2   mmio.U32
	fsel3   mmio.U32
	fsel4   mmio.U32
	fsel5   mmio.U32
	_       [31]mmio.U32 // 0x18 - 0x93: set, clear, level, event detect
	pud     mmio.U32
	pudclk0 mmio.R32[pudclk0]
	pudclk1 mmio.U32
}
