// Package testing provides fakes shared by the tests of the kernel packages:
// scripted readers and writers with per call limits, a console driven from
// the test and drivers that record their initialization.
//
// Import it renamed, e.g. as rpitesting.
package testing

import (
	"errors"
	"io"
	"time"
)

// Step is the result of one call to ScriptReader.Read.
type Step struct {
	Data []byte
	Err  error
}

// ScriptReader returns the steps it was created with, one per call. If a
// step holds more data than fits into the caller's buffer, the rest is
// returned by the following calls. When all steps are consumed it returns
// 0, io.EOF.
type ScriptReader struct {
	steps []Step
	Calls int
}

func NewScriptReader(steps ...Step) *ScriptReader {
	return &ScriptReader{steps: steps}
}

func (r *ScriptReader) Read(p []byte) (n int, err error) {
	r.Calls++
	if len(r.steps) == 0 {
		return 0, io.EOF
	}
	step := &r.steps[0]
	n = copy(p, step.Data)
	step.Data = step.Data[n:]
	if len(step.Data) == 0 {
		err = step.Err
		r.steps = r.steps[1:]
	}
	return n, err
}

// Pending returns the number of unread bytes.
func (r *ScriptReader) Pending() (n int) {
	for _, s := range r.steps {
		n += len(s.Data)
	}
	return n
}

// CappedWriter accepts at most Max bytes per call and records the size of
// every call. A Max of zero accepts nothing.
type CappedWriter struct {
	Max   int
	Err   error // returned by every call if set
	Calls []int
	Data  []byte
}

func (w *CappedWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		w.Calls = append(w.Calls, 0)
		return 0, w.Err
	}
	n = min(len(p), w.Max)
	w.Data = append(w.Data, p[:n]...)
	w.Calls = append(w.Calls, n)
	return n, nil
}

// Console is a console whose far end is driven by the test. Sends hand bytes
// over synchronously, so when Send returns the reader has consumed them.
type Console struct {
	in  chan byte
	out chan byte
}

func NewConsole() *Console {
	return &Console{in: make(chan byte), out: make(chan byte, 256)}
}

// Read blocks until the test sends bytes. It returns io.EOF after Close.
func (c *Console) Read(p []byte) (n int, err error) {
	for n < len(p) {
		b, ok := <-c.in
		if !ok {
			return n, io.EOF
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (c *Console) Write(p []byte) (n int, err error) {
	for _, b := range p {
		c.out <- b
	}
	return len(p), nil
}

// Send hands p to the reader one byte at a time.
func (c *Console) Send(p ...byte) {
	for _, b := range p {
		c.in <- b
	}
}

// Close makes pending and future reads return io.EOF.
func (c *Console) Close() { close(c.in) }

// ErrNoOutput is returned by Recv if nothing was written in time.
var ErrNoOutput = errors.New("no output")

// Recv returns the next byte written to the console.
func (c *Console) Recv(timeout time.Duration) (byte, error) {
	select {
	case b := <-c.out:
		return b, nil
	case <-time.After(timeout):
		return 0, ErrNoOutput
	}
}

// Driver records calls to Init in Log and fails with Err.
type Driver struct {
	Label string
	Err   error
	Log   *[]string
}

func (d *Driver) Name() string { return d.Label }

func (d *Driver) Init() error {
	if d.Log != nil {
		*d.Log = append(*d.Log, d.Label)
	}
	return d.Err
}
