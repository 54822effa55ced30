package term

import (
	"bytes"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/clktmr/rpi/kernel"
)

// console returns the host end of a line whose other end runs the kernel's
// console loop.
func console(t *testing.T) net.Conn {
	host, dev := net.Pipe()
	go kernel.Main(dev)
	t.Cleanup(func() {
		host.Close()
		dev.Close()
	})
	return host
}

func TestProbe(t *testing.T) {
	con := console(t)
	assert.NoError(t, Probe(con, Pattern(300), time.Second))
}

func TestConsoleAlreadyEchoing(t *testing.T) {
	con := console(t)
	require.NoError(t, Probe(con, Pattern(40), time.Second))
	assert.NoError(t, Probe(con, Pattern(40), time.Second))
	assert.NoError(t, Probe(con, Pattern(1), time.Second))
}

func TestProbeMismatch(t *testing.T) {
	host, dev := net.Pipe()
	t.Cleanup(func() { host.Close(); dev.Close() })
	go func() {
		var c [1]byte
		started := false
		for {
			if _, err := dev.Read(c[:]); err != nil {
				return
			}
			if !started {
				started = c[0] == '\n'
				continue
			}
			c[0] ^= 0x20
			if _, err := dev.Write(c[:]); err != nil {
				return
			}
		}
	}()

	err := Probe(host, Pattern(40), time.Second)
	assert.ErrorIs(t, err, ErrEchoMismatch)
	var perr *ProbeError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "echo", perr.Op)
}

func TestProbeTimeout(t *testing.T) {
	host, dev := net.Pipe()
	t.Cleanup(func() { host.Close(); dev.Close() })
	go io.Copy(io.Discard, dev)

	err := Probe(host, Pattern(8), 50*time.Millisecond)
	assert.ErrorIs(t, err, os.ErrDeadlineExceeded)
}

func TestPattern(t *testing.T) {
	p := Pattern(40)
	assert.Len(t, p, 40)
	assert.Equal(t, "0123", string(p[:4]))
	assert.Equal(t, p[0], p[36])
}

func TestBridgeForwardsUntilEscape(t *testing.T) {
	host, dev := net.Pipe()
	t.Cleanup(func() { host.Close(); dev.Close() })

	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 4)
		io.ReadFull(dev, buf)
		got <- buf
	}()

	err := Bridge(strings.NewReader("ab\rc\x1dzz"), io.Discard, host)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab\nc"), <-got)
}

func TestBridgeRemoteOutput(t *testing.T) {
	host, dev := net.Pipe()
	local, _ := io.Pipe()
	t.Cleanup(func() { host.Close(); dev.Close(); local.Close() })

	go func() {
		dev.Write([]byte("hello"))
		dev.Close()
	}()

	var out bytes.Buffer
	require.NoError(t, Bridge(local, &out, host))
	assert.Equal(t, "hello", out.String())
}

func TestShare(t *testing.T) {
	srv := httptest.NewServer(NewShare(console(t)).Handler())
	defer srv.Close()

	url := "ws://" + srv.Listener.Addr().String() + ConsolePath
	ws, err := websocket.Dial(url, "", "http://localhost/")
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, websocket.Message.Send(ws, []byte("ignored\nhi")))

	ws.SetReadDeadline(time.Now().Add(time.Second))
	var got []byte
	for len(got) < 2 {
		var msg []byte
		require.NoError(t, websocket.Message.Receive(ws, &msg))
		got = append(got, msg...)
	}
	assert.Equal(t, "hi", string(got))
}
