// Package stream publishes session events to websocket observers and serves read-only HTTP views.
package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/dockstrike/event"
)

const (
	sendBuffer   = 256
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
)

type message struct {
	kind int
	data []byte
}

// client is one websocket observer
type client struct {
	id    uint64
	conn  *websocket.Conn
	codec Codec
	send  chan message
	hub   *Hub
}

// Hub fans frames out to connected clients
// It is a session sink: HandleEvents never blocks the tick
type Hub struct {
	session string
	logger  *log.Logger

	mu      sync.RWMutex
	clients map[uint64]*client
	nextID  atomic.Uint64

	register   chan *client
	unregister chan *client
	broadcast  chan Frame
	done       chan struct{}

	dropped atomic.Uint64
}

func NewHub(session string, logger *log.Logger) *Hub {
	return &Hub{
		session:    session,
		logger:     logger,
		clients:    make(map[uint64]*client),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Frame, sendBuffer),
		done:       make(chan struct{}),
	}
}

// HandleEvents implements sim.Sink; empty batches are not sent
func (h *Hub) HandleEvents(tick int64, events []event.GameEvent) {
	if len(events) == 0 {
		return
	}
	select {
	case h.broadcast <- NewFrame(h.session, tick, events):
	default:
		h.dropped.Add(1)
	}
}

// Clients returns the number of registered observers
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns frames discarded because the hub was saturated
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Run owns client registration and fan-out until ctx ends
// A hub runs once
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			h.logger.Info("observer connected", "client", c.id, "codec", c.codec.Name())

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Info("observer disconnected", "client", c.id)

		case f := <-h.broadcast:
			h.fanOut(f)
		}
	}
}

// fanOut encodes once per codec and queues to every client
func (h *Hub) fanOut(f Frame) {
	encoded := make(map[string]message, len(codecs))

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		m, ok := encoded[c.codec.Name()]
		if !ok {
			data, err := c.codec.Encode(f)
			if err != nil {
				h.logger.Warn("frame encode failed", "codec", c.codec.Name(), "tick", f.Tick, "err", err)
				continue
			}
			m = message{kind: c.codec.MessageType(), data: data}
			encoded[c.codec.Name()] = m
		}
		select {
		case c.send <- m:
		default:
			h.logger.Warn("observer send buffer full, frame skipped", "client", c.id, "tick", f.Tick)
		}
	}
}

// attach registers a connection and starts its pumps
func (h *Hub) attach(conn *websocket.Conn, codec Codec) {
	c := &client{
		id:    h.nextID.Add(1),
		conn:  conn,
		codec: codec,
		send:  make(chan message, sendBuffer),
		hub:   h,
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound data and detects disconnects
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("observer read error", "client", c.id, "err", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case m, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(m.kind, m.data); err != nil {
				c.hub.logger.Warn("observer write failed", "client", c.id, "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
