package term

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sigurn/crc8"

	"github.com/clktmr/rpi/iox"
)

var (
	ErrEchoMismatch = errors.New("echo doesn't match")

	crcTable = crc8.MakeTable(crc8.CRC8_MAXIM)
)

// ProbeError reports which side of a probe failed.
type ProbeError struct {
	Op  string // "send" or "echo"
	Err error
}

func (e *ProbeError) Error() string { return fmt.Sprintf("probe %s: %v", e.Op, e.Err) }

func (e *ProbeError) Unwrap() error { return e.Err }

func probeErr(op string) iox.ErrorFunc {
	return func(err error) error { return &ProbeError{op, err} }
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// Probe checks that the echo console on rw is alive. It sends the newline
// the console waits for, followed by payload, and reads back len(payload)
// bytes while checksumming them. Newlines echoed ahead of the payload are
// skipped: a console that already echoes returns the newline too. payload
// must therefore not start with a newline. If rw supports read deadlines,
// the echo has to arrive within timeout.
//
// The echo is consumed in chunks as it arrives, so payloads larger than the
// UART's FIFOs don't stall the console.
func Probe(rw io.ReadWriter, payload []byte, timeout time.Duration) error {
	if d, ok := rw.(readDeadliner); ok && timeout > 0 {
		d.SetReadDeadline(time.Now().Add(timeout))
		defer d.SetReadDeadline(time.Time{})
	}

	sent := make(chan error, 1)
	go func() {
		sent <- send(rw, iox.Chain(bytes.NewReader([]byte{'\n'}), bytes.NewReader(payload)))
	}()

	crc := crc8.Init(crcTable)
	if len(payload) > 0 {
		var first [1]byte
		for {
			if err := iox.ReadExact(rw, first[:], probeErr("echo")); err != nil {
				return err
			}
			if first[0] != '\n' {
				break
			}
		}
		crc = crc8.Update(crc, first[:], crcTable)
	}

	echo := iox.Take(rw, int64(max(len(payload)-1, 0)))
	var buf [64]byte
	for echo.Remaining() > 0 {
		chunk := buf[:min(int64(len(buf)), echo.Remaining())]
		if err := iox.ReadExact(echo, chunk, probeErr("echo")); err != nil {
			return err
		}
		crc = crc8.Update(crc, chunk, crcTable)
	}
	if err := <-sent; err != nil {
		return err
	}

	want := crc8.Checksum(payload, crcTable)
	if got := crc8.Complete(crc, crcTable); got != want {
		return &ProbeError{"echo", fmt.Errorf("%w: crc %#02x, want %#02x", ErrEchoMismatch, got, want)}
	}
	return nil
}

// send writes src to w in chunks small enough to fit the UART's receive FIFO.
func send(w io.Writer, src io.Reader) error {
	var buf [16]byte
	for {
		n, err := src.Read(buf[:])
		if werr := iox.WriteAll(w, buf[:n], probeErr("send")); werr != nil {
			return werr
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &ProbeError{"send", err}
		}
	}
}

// Pattern returns n printable bytes for use as probe payload.
func Pattern(n int) []byte {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	p := make([]byte, n)
	for i := range p {
		p[i] = alphabet[i%len(alphabet)]
	}
	return p
}
