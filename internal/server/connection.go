package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Connection is one websocket subscriber to the snapshot stream. The
// server pushes a snapshot after every accepted action; inbound
// messages are only read to keep the connection alive.
type Connection struct {
	conn   *websocket.Conn
	send   chan []byte
	logger *log.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewConnection wraps an upgraded websocket connection
func NewConnection(conn *websocket.Conn, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: logger.WithPrefix("connection"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the read and write pumps
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Send queues a message for delivery. Slow consumers are dropped
// rather than allowed to block the broadcast path.
func (c *Connection) Send(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close terminates the connection
func (c *Connection) Close() error {
	c.cancel()
	return c.conn.Close()
}

// Done exposes the connection's lifetime for cleanup
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Connection) readPump() {
	defer c.cancel()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// inbound payloads are discarded; the HTTP API carries actions
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", "error", err)
			}
			return
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.cancel()
	}()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}
