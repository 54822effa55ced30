package iox

import (
	"errors"
	"io"
)

// Chained reads from first until it makes no progress, then from second.
// Unlike io.MultiReader a read returning zero bytes without error also ends
// first, which is how a source without end-of-stream signals it's drained.
type Chained[T, U io.Reader] struct {
	first     T
	second    U
	doneFirst bool
}

// Chain returns a reader yielding all bytes of first followed by all bytes of
// second. second is only read from after first ended. Chain takes ownership
// of both readers, they must not be used by anyone else afterwards.
func Chain[T, U io.Reader](first T, second U) *Chained[T, U] {
	return &Chained[T, U]{first: first, second: second}
}

func (c *Chained[T, U]) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !c.doneFirst {
		n, err = c.first.Read(p)
		switch {
		case errors.Is(err, io.EOF) && n > 0:
			// first still has to report its end on its own
			return n, nil
		case errors.Is(err, io.EOF):
			c.doneFirst = true
		case err != nil:
			return n, err
		case n > 0:
			return n, nil
		default:
			c.doneFirst = true
		}
	}
	return c.second.Read(p)
}

// Get returns the wrapped readers.
func (c *Chained[T, U]) Get() (T, U) {
	return c.first, c.second
}
