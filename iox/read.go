package iox

import (
	"errors"
	"io"
)

// ReadExact reads exactly len(p) bytes from r into p. A read that makes no
// progress while bytes are missing fails with io.ErrUnexpectedEOF instead of
// being retried, so a stalled reader can't hang the caller. Other errors are
// returned after conversion.
func ReadExact(r io.Reader, p []byte, conv ErrorFunc) error {
	for len(p) > 0 {
		n, err := r.Read(p)
		p = p[n:]
		switch {
		case err == nil && n == 0:
			return conv.convert(io.ErrUnexpectedEOF)
		case errors.Is(err, io.EOF):
			if len(p) == 0 {
				return nil
			}
			return conv.convert(io.ErrUnexpectedEOF)
		case err != nil:
			return conv.convert(err)
		}
	}
	return nil
}
