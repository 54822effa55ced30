package iox_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clktmr/rpi/iox"
	rpitesting "github.com/clktmr/rpi/testing"
)

type step = rpitesting.Step

var errDevice = errors.New("device error")

// kernelError stands in for a caller specific error type.
type kernelError struct{ cause error }

func (e *kernelError) Error() string { return "kernel: " + e.cause.Error() }
func (e *kernelError) Unwrap() error { return e.cause }

func toKernelError(err error) error { return &kernelError{err} }

func TestReadExact(t *testing.T) {
	r := rpitesting.NewScriptReader(
		step{Data: []byte("ab")},
		step{Data: []byte("c")},
		step{Data: []byte("defg")},
	)
	buf := make([]byte, 6)
	require.NoError(t, iox.ReadExact(r, buf, nil))
	assert.Equal(t, "abcdef", string(buf))
	assert.Equal(t, 3, r.Calls)
	assert.Equal(t, 1, r.Pending(), "must not read past the buffer")
}

func TestReadExactEmptyBuffer(t *testing.T) {
	r := rpitesting.NewScriptReader()
	require.NoError(t, iox.ReadExact(r, nil, nil))
	assert.Zero(t, r.Calls)
}

func TestReadExactNoProgress(t *testing.T) {
	r := rpitesting.NewScriptReader(
		step{Data: []byte("ab")},
		step{}, // stalls
		step{Data: []byte("cd")},
	)
	buf := make([]byte, 4)
	err := iox.ReadExact(r, buf, nil)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, 2, r.Calls, "must give up on the first read without progress")
}

func TestReadExactEOF(t *testing.T) {
	for _, tc := range []struct {
		name  string
		steps []step
		size  int
		err   error
	}{
		{"eof with last bytes", []step{{Data: []byte("abc"), Err: io.EOF}}, 3, nil},
		{"eof before full", []step{{Data: []byte("ab"), Err: io.EOF}}, 3, io.ErrUnexpectedEOF},
		{"eof at start", nil, 3, io.ErrUnexpectedEOF},
		{"device error", []step{{Data: []byte("a"), Err: errDevice}}, 3, errDevice},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := rpitesting.NewScriptReader(tc.steps...)
			err := iox.ReadExact(r, make([]byte, tc.size), nil)
			if tc.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestReadExactConvertsErrors(t *testing.T) {
	r := rpitesting.NewScriptReader(step{})
	err := iox.ReadExact(r, make([]byte, 1), toKernelError)

	var kerr *kernelError
	require.ErrorAs(t, err, &kerr)
	assert.ErrorIs(t, kerr.cause, io.ErrUnexpectedEOF)

	r = rpitesting.NewScriptReader(step{Err: errDevice})
	err = iox.ReadExact(r, make([]byte, 1), toKernelError)
	require.ErrorAs(t, err, &kerr)
	assert.ErrorIs(t, err, errDevice)
}

func TestWriteAll(t *testing.T) {
	w := &rpitesting.CappedWriter{Max: 2}
	require.NoError(t, iox.WriteAll(w, []byte("hello"), nil))
	assert.Equal(t, "hello", string(w.Data))
	assert.Equal(t, []int{2, 2, 1}, w.Calls)
}

func TestWriteAllNoProgress(t *testing.T) {
	w := &rpitesting.CappedWriter{Max: 0}
	err := iox.WriteAll(w, []byte("x"), toKernelError)
	var kerr *kernelError
	require.ErrorAs(t, err, &kerr)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Len(t, w.Calls, 1)
}

func TestWriteAllError(t *testing.T) {
	w := &rpitesting.CappedWriter{Max: 4, Err: errDevice}
	assert.ErrorIs(t, iox.WriteAll(w, []byte("x"), nil), errDevice)
	assert.NoError(t, iox.WriteAll(w, nil, nil))
}

func TestWriteFmt(t *testing.T) {
	w := &rpitesting.CappedWriter{Max: 3}
	require.NoError(t, iox.WriteFmt(w, nil, "failed to load driver: %q", "GPIO"))
	assert.Equal(t, `failed to load driver: "GPIO"`, string(w.Data))
	for _, n := range w.Calls {
		assert.LessOrEqual(t, n, 3)
	}
}

func TestWriteFmtConvertsIOError(t *testing.T) {
	w := &rpitesting.CappedWriter{Max: 3, Err: errDevice}
	err := iox.WriteFmt(w, toKernelError, "%d", 42)
	var kerr *kernelError
	require.ErrorAs(t, err, &kerr)
	assert.ErrorIs(t, err, errDevice)
}

type brokenFormatter struct{}

func (brokenFormatter) Format(f fmt.State, verb rune) {
	f.Write([]byte("partial"))
}

func TestWriteFmtFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, iox.WriteFmt(&buf, nil, "<%v>", brokenFormatter{}))
	assert.Equal(t, "<partial>", buf.String())
}

func TestChain(t *testing.T) {
	a := rpitesting.NewScriptReader(step{Data: []byte("ab")}, step{Data: []byte("c")})
	b := rpitesting.NewScriptReader(step{Data: []byte("de")})
	c := iox.Chain(a, b)

	out, err := io.ReadAll(c)
	require.NoError(t, err)
	assert.Equal(t, "abcde", string(out))
}

func TestChainSecondUntouchedUntilFirstEnds(t *testing.T) {
	a := rpitesting.NewScriptReader(
		step{Data: []byte("ab")},
		step{Data: []byte("c")},
		step{}, // end of first: no progress
	)
	b := rpitesting.NewScriptReader(step{Data: []byte("xyz")})
	c := iox.Chain(a, b)

	buf := make([]byte, 8)
	var got []byte
	for len(got) < 3 {
		n, err := c.Read(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
		assert.Zero(t, b.Calls, "second read before first ended")
	}
	assert.Equal(t, "abc", string(got))

	n, err := c.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "xyz", string(buf[:n]))
	assert.Equal(t, 1, b.Calls)
	assert.Equal(t, 3, a.Calls)

	// first ended, it's not consulted again
	_, err = c.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 3, a.Calls)
}

func TestChainEOFWithData(t *testing.T) {
	a := rpitesting.NewScriptReader(step{Data: []byte("ab"), Err: io.EOF})
	b := rpitesting.NewScriptReader(step{Data: []byte("c")})
	c := iox.Chain(a, b)

	buf := make([]byte, 4)
	n, err := c.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(buf[:n]))
	assert.Zero(t, b.Calls)

	n, err = c.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "c", string(buf[:n]))
}

func TestChainError(t *testing.T) {
	a := rpitesting.NewScriptReader(step{Err: errDevice})
	b := rpitesting.NewScriptReader(step{Data: []byte("c")})
	_, err := iox.Chain(a, b).Read(make([]byte, 1))
	assert.ErrorIs(t, err, errDevice)
	assert.Zero(t, b.Calls)
}

func TestChainReadExact(t *testing.T) {
	a := rpitesting.NewScriptReader(step{Data: []byte("he")}, step{})
	b := rpitesting.NewScriptReader(step{Data: []byte("llo")})

	buf := make([]byte, 5)
	require.NoError(t, iox.ReadExact(iox.Chain(a, b), buf, nil))
	assert.Equal(t, "hello", string(buf))
}

func TestTake(t *testing.T) {
	r := rpitesting.NewScriptReader(step{Data: []byte("abcdefgh")})
	tr := iox.Take(r, 5)

	buf := make([]byte, 3)
	n, err := tr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))
	assert.EqualValues(t, 2, tr.Remaining())

	n, err = tr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "de", string(buf[:n]), "read must be capped to the budget")
	assert.EqualValues(t, 0, tr.Remaining())

	calls := r.Calls
	n, err = tr.Read(buf)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, calls, r.Calls, "exhausted take must not read")
	assert.Equal(t, 3, r.Pending())
}

func TestTakeNeverExceedsLimit(t *testing.T) {
	for limit := int64(0); limit < 12; limit++ {
		r := rpitesting.NewScriptReader(
			step{Data: []byte("abc")}, step{Data: []byte("de")}, step{Data: []byte("fghij")},
		)
		out, err := io.ReadAll(iox.Take(r, limit))
		require.NoError(t, err)
		assert.EqualValues(t, min(limit, 10), len(out))
		assert.Equal(t, "abcdefghij"[:len(out)], string(out))
	}
}

func TestTakeChain(t *testing.T) {
	a := rpitesting.NewScriptReader(step{Data: []byte("abc")})
	b := rpitesting.NewScriptReader(step{Data: []byte("def")})
	out, err := io.ReadAll(iox.Take(iox.Chain(a, b), 4))
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(out))

	wrapped := iox.Take(a, 1)
	assert.Same(t, a, wrapped.Get())
}
