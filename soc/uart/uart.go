// Package uart implements a driver for the ARM PrimeCell PL011 UART.
//
// The driver polls the flag register and never uses interrupts or DMA. Reads
// and writes block until the hardware is ready, without any timeout: a
// disconnected line suspends the caller forever.
package uart

import (
	"unsafe"

	"github.com/clktmr/rpi/mmio"
)

// UART is the driver for a PL011 register block. It's the only owner of the
// block and must not be copied.
//
// UART implements io.ReadWriter. Errors are never returned, detection of
// framing, parity and overrun errors isn't implemented.
type UART struct {
	regs *registers
	cfg  Config
	poll mmio.Poller[flags]
}

// New returns the driver for the register block at base. The device isn't
// touched until Init.
func New(base uintptr, cfg Config) *UART {
	return newUART((*registers)(unsafe.Pointer(base)), cfg)
}

func newUART(regs *registers, cfg Config) *UART {
	return &UART{regs: regs, cfg: cfg, poll: mmio.Spin[flags]}
}

func (u *UART) Name() string { return "PL011Uart" }

// Init sets up the UART for 8N1 with FIFOs enabled at the configured baud
// rate. The reference clock must already be running at Config.RefClock.
//
// Init always succeeds, the error is reserved for detecting absent hardware.
func (u *UART) Init() error {
	u.reset()
	u.configure()
	u.enable()
	return nil
}

// reset disables the device, so the following reconfiguration takes effect
// as a whole, and clears whatever interrupts firmware left pending.
func (u *UART) reset() {
	u.regs.cr.Store(0)
	u.regs.icr.Write(icrAll.Set())
}

// configure must only be called with the device disabled.
func (u *UART) configure() {
	i, f := u.cfg.Divisors()
	u.regs.ibrd.Write(ibrd.Val(i))
	u.regs.fbrd.Write(fbrd.Val(f))

	// LCRH must be written after the divisors, it latches them.
	u.regs.lcrh.Write(wlen.Val(wlen8), fen.Set())
}

func (u *UART) enable() {
	u.regs.cr.Write(uarten.Set(), txe.Set(), rxe.Set())
}

// Read fills p, blocking until enough bytes have been received.
func (u *UART) Read(p []byte) (n int, err error) {
	for i := range p {
		u.poll(&u.regs.fr, rxEmpty)
		p[i] = byte(u.regs.dr.Read(data))
	}
	return len(p), nil
}

// Write queues p for transmission, blocking while the transmit FIFO is full.
// It returns as soon as the last byte is in the FIFO.
func (u *UART) Write(p []byte) (n int, err error) {
	for _, b := range p {
		u.writeByte(b)
	}
	return len(p), nil
}

func (u *UART) WriteString(s string) (n int, err error) {
	for i := 0; i < len(s); i++ {
		u.writeByte(s[i])
	}
	return len(s), nil
}

func (u *UART) writeByte(b byte) {
	u.poll(&u.regs.fr, txFull)
	u.regs.dr.Write(data.Val(uint32(b)))
}

// Flush blocks until all queued bytes have left the transmitter.
func (u *UART) Flush() {
	u.poll(&u.regs.fr, txNotEmpty)
	u.poll(&u.regs.fr, txBusy)
}
