package realtime

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is how long a single frame write may take before the
	// connection is considered dead
	writeWait = 10 * time.Second
	// pongWait is how long we wait for a pong before dropping the peer
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024
	sendBufferSize = 32
)

var (
	errClientClosed   = errors.New("client already closed")
	errSendBufferFull = errors.New("client send buffer full")
)

// Conn is the subset of *websocket.Conn the realtime package needs. Tests
// substitute in-memory fakes.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one open duplex channel belonging to one user. A user may own
// any number of clients at once (multi-device, multi-tab).
type Client struct {
	UserID string

	conn Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(userID string, conn Conn) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// enqueue hands a payload to the write pump without blocking. A full buffer
// means the consumer has stalled, which is treated as a delivery failure so
// one slow channel can never hold up registry operations.
func (c *Client) enqueue(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClientClosed
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return errSendBufferFull
	}
}

// Close stops the write pump and closes the underlying connection. Safe to
// call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
	}
}

// ReadPump consumes inbound frames until the peer goes away, then
// deregisters the client. Closing or erroring is a normal lifecycle
// transition, not an error path. Inbound payloads are discarded; the
// notification stream is push-only.
func (c *Client) ReadPump(r *Registry) {
	defer r.Deregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error for user %s: %v", c.UserID, err)
			}
			return
		}
	}
}

// WritePump serializes every write to the connection: queued payloads from
// the send channel plus periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("websocket write error for user %s: %v", c.UserID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
