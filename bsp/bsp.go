// Package bsp is the board support for the Raspberry Pi. It creates the
// drivers for the peripherals the kernel uses, once, at their fixed
// addresses, and owns them from then on.
package bsp

import (
	"io"

	"github.com/clktmr/rpi/drivers"
	"github.com/clktmr/rpi/soc"
	"github.com/clktmr/rpi/soc/gpio"
	"github.com/clktmr/rpi/soc/uart"
)

// Board owns the drivers of one Raspberry Pi.
type Board struct {
	gpio     *gpio.GPIO
	uart     *uart.UART
	registry *drivers.Registry
}

// New creates the board's drivers. No hardware is touched until the drivers
// are initialized.
func New() *Board {
	b := &Board{
		gpio: gpio.New(soc.GPIOBase),
		uart: uart.New(soc.UART0Base, uart.DefaultConfig),
	}
	b.registry = drivers.NewRegistry(b.gpio, b.uart)
	return b
}

// Registry returns the board's drivers in initialization order. There is a
// single registry per board, so the drivers are initialized at most once.
func (b *Board) Registry() *drivers.Registry {
	return b.registry
}

// PostInit connects the UART to the header pins. It must run after all
// drivers were initialized.
func (b *Board) PostInit() {
	b.gpio.MapUART()
}

// Console returns the UART, usable once PostInit returned.
func (b *Board) Console() io.ReadWriter {
	return b.uart
}
