package iox

import "io"

// Taken reads from r until a byte budget is used up.
type Taken[T io.Reader] struct {
	r     T
	limit int64
}

// Take returns a reader that returns at most limit bytes from r. Once the
// budget is used up reads return 0, io.EOF without calling r, even if r has
// more data. Take takes ownership of r.
func Take[T io.Reader](r T, limit int64) *Taken[T] {
	return &Taken[T]{r: r, limit: limit}
}

func (t *Taken[T]) Read(p []byte) (n int, err error) {
	if t.limit <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > t.limit {
		p = p[:t.limit]
	}
	n, err = t.r.Read(p)
	t.limit -= int64(n)
	return
}

// Remaining returns how many bytes may still be read.
func (t *Taken[T]) Remaining() int64 {
	return t.limit
}

// Get returns the wrapped reader.
func (t *Taken[T]) Get() T {
	return t.r
}
