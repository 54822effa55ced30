package uart

import (
	"github.com/clktmr/rpi/debug"
	"github.com/clktmr/rpi/soc"
)

// Config describes the line speed. The PL011 derives its bit clock from the
// reference clock, which isn't configured by this driver.
type Config struct {
	RefClock uint32 // Hz
	Baud     uint32
}

// DefaultConfig gives 230400 baud from the clock the firmware is told to
// provide in config.txt.
var DefaultConfig = Config{RefClock: soc.UARTClock, Baud: 230400}

// Divisors returns the integer and fractional baud rate divisors:
//
//	BAUDDIV = RefClock / (16 * Baud)
//	IBRD    = integer part of BAUDDIV
//	FBRD    = fractional part of BAUDDIV * 64, rounded
//
// Baud must not be zero.
func (c Config) Divisors() (ibrd, fbrd uint32) {
	debug.Assert(c.Baud != 0, "uart: zero baud rate")
	// BAUDDIV*64 rounded to the nearest integer
	div := (uint64(c.RefClock)*8/uint64(c.Baud) + 1) / 2
	return uint32(div >> 6), uint32(div & 0x3f)
}
