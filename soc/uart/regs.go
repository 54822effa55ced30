package uart

import "github.com/clktmr/rpi/mmio"

type dataReg uint32

// Data Register: receive (read) or transmit (write) data character. Bits 8
// to 11 hold the framing, parity, break and overrun errors of a received
// character.
var data = mmio.Field[dataReg]{Shift: 0, Width: 8}

type flags uint32

// Flag Register. With FIFOs enabled the flags describe the FIFOs, otherwise
// the one byte holding registers.
var (
	busy = mmio.Field[flags]{Shift: 3, Width: 1} // Transmitting data, set until the stop bit left the shift register.
	rxfe = mmio.Field[flags]{Shift: 4, Width: 1} // Receive FIFO empty.
	txff = mmio.Field[flags]{Shift: 5, Width: 1} // Transmit FIFO full.
	txfe = mmio.Field[flags]{Shift: 7, Width: 1} // Transmit FIFO empty. Doesn't cover the shift register.
)

var (
	rxEmpty    = rxfe.Set()
	txFull     = txff.Set()
	txNotEmpty = txfe.Clear()
	txBusy     = busy.Set()
)

type ibrdReg uint32

// Integer Baud rate divisor
var ibrd = mmio.Field[ibrdReg]{Shift: 0, Width: 16}

type fbrdReg uint32

// Fractional Baud rate divisor
var fbrd = mmio.Field[fbrdReg]{Shift: 0, Width: 6}

type lineCtrl uint32

// Line Control Register
var (
	fen  = mmio.Field[lineCtrl]{Shift: 4, Width: 1} // Enable FIFOs, otherwise they are one byte deep.
	wlen = mmio.Field[lineCtrl]{Shift: 5, Width: 2} // Number of data bits in a frame.
)

const wlen8 = 0b11 // 8 data bits

type ctrl uint32

// Control Register. Disabling transmit or receive in the middle of a
// character completes it before stopping.
var (
	uarten = mmio.Field[ctrl]{Shift: 0, Width: 1} // UART enable
	txe    = mmio.Field[ctrl]{Shift: 8, Width: 1} // Transmit enable
	rxe    = mmio.Field[ctrl]{Shift: 9, Width: 1} // Receive enable
)

type intClear uint32

// Interrupt Clear Register
var icrAll = mmio.Field[intClear]{Shift: 0, Width: 11} // All pending interrupts

type registers struct {
	dr   mmio.R32[dataReg]
	_    [5]mmio.U32
	fr   mmio.R32[flags]
	_    [2]mmio.U32
	ibrd mmio.R32[ibrdReg]
	fbrd mmio.R32[fbrdReg]
	lcrh mmio.R32[lineCtrl]
	cr   mmio.R32[ctrl]
	_    [4]mmio.U32
	icr  mmio.R32[intClear]
}
