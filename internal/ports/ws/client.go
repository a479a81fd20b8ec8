package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// sendBuffer is the number of outbound messages queued per connection before
	// new ones are dropped.
	sendBuffer = 64

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// client is one websocket connection. Outbound messages go through send so a slow
// reader never blocks a game.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	id   string
	name string
	send chan []byte

	mu     sync.Mutex
	roomID string
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, id, name string) *client {
	return &client{hub: hub, conn: conn, id: id, name: name, send: make(chan []byte, sendBuffer)}
}

func (c *client) room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

func (c *client) setRoom(id string) {
	c.mu.Lock()
	c.roomID = id
	c.mu.Unlock()
}

// enqueue queues msg and reports false when it was dropped.
func (c *client) enqueue(msg ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("ws: failed to marshal %s message: %v", msg.Type, err)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.hub.logger.Warn("ws: send buffer full for %s, dropping %s", c.id, msg.Type)
		return false
	}
}

func (c *client) sendError(code, message string) {
	c.enqueue(ServerMessage{Type: TypeError, Error: &ErrorView{Code: code, Message: message}})
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("ws: read from %s: %v", c.id, err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("bad_request", "invalid json")
			continue
		}
		c.hub.Handle(c, msg)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
