// Package iox provides combinators over io.Reader and io.Writer for code that
// runs before there is a heap worth using, like the kernel's console.
// ReadExact, WriteAll, Chain and Take don't allocate. WriteFmt goes through
// fmt and does.
//
// Every function that reports an error takes an ErrorFunc, which lets the
// call site convert the error into its own error type. Nothing is silently
// discarded: each error a combinator sees is either returned after
// conversion or, for short reads and writes, replaced by a sentinel that
// describes the condition.
package iox

import "errors"

// ErrorFunc converts an error reported by a combinator into the caller's
// error. A nil ErrorFunc returns errors unchanged.
type ErrorFunc func(error) error

func (f ErrorFunc) convert(err error) error {
	if f == nil || err == nil {
		return err
	}
	return f(err)
}

// ErrFormat is returned by WriteFmt if formatting failed without an I/O
// error.
var ErrFormat = errors.New("formatting error")
