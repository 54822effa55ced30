package term

import (
	"io"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/clktmr/rpi/iox"
)

// ConsolePath is where Share serves the console.
const ConsolePath = "/console"

// Share makes a console available to websocket clients. A single client is
// attached at a time, a new client replaces the previous one. Console output
// that arrives while no client is attached is dropped.
type Share struct {
	con io.ReadWriter

	mu     sync.Mutex
	client *websocket.Conn
}

// NewShare returns a Share for con and starts forwarding its output.
func NewShare(con io.ReadWriter) *Share {
	s := &Share{con: con}
	go s.pump()
	return s
}

// Handler returns the handler serving the console at ConsolePath.
func (s *Share) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(ConsolePath, websocket.Handler(s.serve))
	return mux
}

func (s *Share) pump() {
	var buf [256]byte
	for {
		n, err := s.con.Read(buf[:])
		if n > 0 {
			s.mu.Lock()
			c := s.client
			s.mu.Unlock()
			if c != nil {
				if err := websocket.Message.Send(c, buf[:n]); err != nil {
					glog.V(1).Infof("send to %v: %v", c.Request().RemoteAddr, err)
				}
			}
		}
		if err != nil {
			glog.Errorf("console: %v", err)
			return
		}
	}
}

func (s *Share) attach(ws *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		glog.Infof("replacing client %v", s.client.Request().RemoteAddr)
		s.client.Close()
	}
	s.client = ws
}

func (s *Share) detach(ws *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == ws {
		s.client = nil
	}
}

func (s *Share) serve(ws *websocket.Conn) {
	ws.PayloadType = websocket.BinaryFrame
	s.attach(ws)
	defer s.detach(ws)
	glog.Infof("client %v attached", ws.Request().RemoteAddr)

	for {
		var msg []byte
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			if err != io.EOF {
				glog.V(1).Infof("receive: %v", err)
			}
			return
		}
		if err := iox.WriteAll(s.con, msg, nil); err != nil {
			glog.Errorf("console: %v", err)
			return
		}
	}
}
