package iox

import (
	"fmt"
	"io"
)

// WriteAll writes all of p to w, calling w.Write as often as needed. A write
// that accepts no bytes and reports no error fails with io.ErrShortWrite.
func WriteAll(w io.Writer, p []byte, conv ErrorFunc) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return conv.convert(err)
		}
		if n == 0 {
			return conv.convert(io.ErrShortWrite)
		}
		p = p[n:]
	}
	return nil
}

// fmtAdaptor forwards fmt's output to WriteAll and keeps the first error,
// which fmt itself would only report as the byte count.
type fmtAdaptor struct {
	w   io.Writer
	err error
}

func (a *fmtAdaptor) Write(p []byte) (int, error) {
	if a.err != nil {
		return 0, a.err
	}
	if err := WriteAll(a.w, p, nil); err != nil {
		a.err = err
		return 0, err
	}
	return len(p), nil
}

// WriteFmt formats according to format and writes the result to w using
// WriteAll. I/O errors are returned after conversion, a formatting failure
// without I/O error is reported as ErrFormat.
func WriteFmt(w io.Writer, conv ErrorFunc, format string, args ...any) error {
	a := fmtAdaptor{w: w}
	if _, err := fmt.Fprintf(&a, format, args...); err != nil {
		if a.err != nil {
			return conv.convert(a.err)
		}
		return conv.convert(ErrFormat)
	}
	return nil
}
