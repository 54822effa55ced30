package term

import (
	"bytes"
	"errors"
	"io"

	"github.com/clktmr/rpi/iox"
)

// Escape ends a Bridge session when typed on the local side (Ctrl-]).
const Escape = 0x1d

// Bridge connects a local terminal to a remote console: bytes read from
// local are sent to remote and everything remote sends is written to out.
// Carriage returns typed locally are sent as newlines, which is what a
// terminal in raw mode produces for the enter key. Bridge returns once the
// escape character is typed or either side fails.
func Bridge(local io.Reader, out io.Writer, remote io.ReadWriter) error {
	errc := make(chan error, 2)
	go func() {
		_, err := io.Copy(out, remote)
		errc <- err
	}()
	go func() {
		errc <- forward(remote, local)
	}()
	return <-errc
}

func forward(dst io.Writer, src io.Reader) error {
	var buf [256]byte
	for {
		n, err := src.Read(buf[:])
		p := buf[:n]
		escaped := false
		if i := bytes.IndexByte(p, Escape); i >= 0 {
			p, escaped = p[:i], true
		}
		for i, c := range p {
			if c == '\r' {
				p[i] = '\n'
			}
		}
		if werr := iox.WriteAll(dst, p, nil); werr != nil {
			return werr
		}
		if escaped || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
