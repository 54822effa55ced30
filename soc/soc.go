package soc

// Physical addresses of peripheral register blocks as seen by the ARM cores.
// The MMU is off at this stage, so these are also the addresses the kernel
// dereferences.
const (
	GPIOBase  uintptr = PeripheralBase + 0x0020_0000
	UART0Base uintptr = PeripheralBase + 0x0020_1000
)

// UARTClock is the PL011 reference clock in Hz. The kernel doesn't program
// it: the firmware sets it from init_uart_clock in config.txt before the
// kernel runs.
const UARTClock = 48_000_000
