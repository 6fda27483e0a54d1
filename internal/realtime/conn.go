package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Outbound buffer per connection. A connection that falls this far
	// behind is detached rather than allowed to stall the bus.
	sendBufferSize = 64
)

// Conn wraps a single live websocket connection. All outbound traffic goes
// through the buffered send channel and a single writer goroutine, which
// preserves publish order per subscriber.
type Conn struct {
	ID string

	sock *websocket.Conn
	send chan []byte

	// mu serializes enqueue against close. The hub may publish to a conn
	// while another goroutine's disconnect cascade is detaching it; an
	// enqueue must never land on a closed send channel.
	mu     sync.Mutex
	closed bool
}

func newConn(id string, sock *websocket.Conn) *Conn {
	return &Conn{
		ID:   id,
		sock: sock,
		send: make(chan []byte, sendBufferSize),
	}
}

// enqueue appends a message to the outbound buffer without blocking.
// It reports false when the buffer is full or the connection is already
// closed; the hub detaches such connections instead of waiting on them.
func (c *Conn) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close shuts the send channel exactly once, terminating the write pump.
func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writePump drains the send channel onto the socket. It exits when the
// send channel is closed and closes the underlying socket on the way out.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.sock.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the connection.
				c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
