// Package ws carries typed JSON messages between the server and a browser page
// over a WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// pingInterval is how often the server pings the page.
	pingInterval = 30 * time.Second
	// pongWait must exceed pingInterval.
	pongWait = 60 * time.Second
	// maxMessageSize bounds inbound frames.
	maxMessageSize = 8192
	writeWait      = 10 * time.Second
	sendBuffer     = 256
)

// ErrClosed is returned by Send once the connection has gone away.
var ErrClosed = errors.New("connection closed")

// Envelope is the wire format of every message in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MessageHandler receives inbound messages. It runs on the read goroutine.
type MessageHandler func(messageType string, data json.RawMessage) error

// Conn is one browser page connection.
type Conn struct {
	ID string

	conn    *websocket.Conn
	send    chan []byte
	logger  *log.Logger
	handler MessageHandler

	closeOnce sync.Once
	closed    chan struct{}
}

// Send queues a typed message for the page.
func (c *Conn) Send(messageType string, data any) error {
	env := Envelope{Type: messageType}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		env.Data = raw
	}
	msg, err := json.Marshal(env)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return ErrClosed
	default:
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.closed:
		return ErrClosed
	default:
		c.logger.Printf("send buffer full on %s, dropping %s", c.ID, messageType)
		return errors.New("send buffer full")
	}
}

// Done is closed when the connection ends.
func (c *Conn) Done() <-chan struct{} { return c.closed }

// Close ends the connection.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

// SetHandler sets the inbound message handler. Call it from the Upgrade setup
// hook; the read loop starts after that.
func (c *Conn) SetHandler(h MessageHandler) { c.handler = h }

func (c *Conn) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Printf("read %s: %v", c.ID, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.logger.Printf("malformed message on %s: %v", c.ID, err)
			continue
		}
		if c.handler == nil {
			continue
		}
		if err := c.handler(env.Type, env.Data); err != nil {
			c.logger.Printf("handle %q on %s: %v", env.Type, c.ID, err)
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.closed:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub upgrades requests and tracks live connections.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu    sync.Mutex
	conns map[string]*Conn
}

// Option configures optional behaviour for the Hub.
type Option func(*Hub)

// WithLogger overrides the hub logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithAllowedOrigins restricts which page origins may connect. With no origins
// only same-host pages are accepted.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Hub) {
		if len(origins) == 0 {
			return
		}
		allowed := make(map[string]struct{}, len(origins))
		for _, o := range origins {
			allowed[o] = struct{}{}
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			_, ok := allowed[r.Header.Get("Origin")]
			return ok
		}
	}
}

// NewHub constructs a Hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		logger:   log.New(log.Writer(), "[ws] ", log.LstdFlags|log.Lshortfile),
		conns:    make(map[string]*Conn),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Upgrade turns the request into a Conn. setup runs before any message is
// read so it can install the handler; the pumps start afterwards.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request, setup func(*Conn)) (*Conn, error) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	c := &Conn{
		ID:     uuid.NewString(),
		conn:   wsConn,
		send:   make(chan []byte, sendBuffer),
		logger: h.logger,
		closed: make(chan struct{}),
	}
	setup(c)

	h.mu.Lock()
	h.conns[c.ID] = c
	h.mu.Unlock()

	go func() {
		<-c.closed
		h.mu.Lock()
		delete(h.conns, c.ID)
		h.mu.Unlock()
	}()

	go c.writePump()
	go c.readPump()
	return c, nil
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Shutdown closes every live connection and waits until they are gone or ctx ends.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for h.Count() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
