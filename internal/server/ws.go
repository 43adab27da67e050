package server

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/particula/internal/logger"
	"github.com/ayusman/particula/internal/scene"
	"github.com/ayusman/particula/internal/status"
)

const (
	writeWait   = 2 * time.Second
	clientQueue = 4
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type message struct {
	kind int
	data []byte
}

type client struct {
	conn *websocket.Conn
	send chan []message
}

// hub keeps a set of websocket clients. Each client has its own writer
// goroutine; a client whose queue is full misses the batch.
type hub struct {
	name    string
	log     *zap.Logger
	mu      sync.RWMutex
	clients map[*client]struct{}
	greet   func() []message
}

func newHub(name string) *hub {
	return &hub{
		name:    name,
		log:     logger.Named("ws").With(zap.String("hub", name)),
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the client until it disconnects.
func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan []message, clientQueue)}
	if h.greet != nil {
		if batch := h.greet(); len(batch) > 0 {
			c.send <- batch
		}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("client connected", zap.String("remote", r.RemoteAddr))

	done := make(chan struct{})
	go h.write(c, done)

	// Reads only detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	<-done
	h.log.Debug("client disconnected", zap.String("remote", r.RemoteAddr))
}

func (h *hub) write(c *client, done chan<- struct{}) {
	defer close(done)
	for batch := range c.send {
		for _, m := range batch {
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(m.kind, m.data); err != nil {
				c.conn.Close()
				// Drain so broadcast never blocks on a dead client.
				for range c.send {
				}
				return
			}
		}
	}
}

func (h *hub) broadcast(batch ...message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- batch:
		default:
		}
	}
}

// Close disconnects every client.
func (h *hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.conn.Close()
	}
}

// Clients returns the number of connected clients.
func (h *hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StatusHub pushes status events to websocket clients as JSON. New clients
// first receive the latest event of each kind.
type StatusHub struct {
	*hub

	mu   sync.Mutex
	last map[status.Kind]status.Event
}

// NewStatusHub creates an empty status hub.
func NewStatusHub() *StatusHub {
	s := &StatusHub{hub: newHub("status"), last: make(map[status.Kind]status.Event)}
	s.hub.greet = s.replay
	return s
}

// Report implements status.Sink.
func (s *StatusHub) Report(e status.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.last[e.Kind] = e
	s.mu.Unlock()
	s.broadcast(message{kind: websocket.TextMessage, data: data})
}

func (s *StatusHub) replay() []message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var batch []message
	for _, k := range []status.Kind{status.KindFormation, status.KindMode, status.KindCommand, status.KindHands} {
		e, ok := s.last[k]
		if !ok {
			continue
		}
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		batch = append(batch, message{kind: websocket.TextMessage, data: data})
	}
	return batch
}

// FrameHub streams render frames: a text message with the pose followed by
// a binary message of little-endian float32 x, y, z triples.
type FrameHub struct {
	*hub
}

// NewFrameHub creates an empty frame hub.
func NewFrameHub() *FrameHub {
	return &FrameHub{hub: newHub("frames")}
}

// Active reports whether any client is connected.
func (f *FrameHub) Active() bool {
	return f.Clients() > 0
}

// Frame encodes pose and xyz before returning, so the caller may reuse xyz.
func (f *FrameHub) Frame(pose scene.Pose, xyz []float32) {
	head, err := json.Marshal(pose)
	if err != nil {
		return
	}
	f.broadcast(
		message{kind: websocket.TextMessage, data: head},
		message{kind: websocket.BinaryMessage, data: encodeFloats(xyz)},
	)
}

func encodeFloats(values []float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}
