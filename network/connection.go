package network

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection is the outbound half of a subscribed client. Every Send writes
// exactly one framed text message holding one snapshot.
type Connection interface {
	Send(data []byte) error
	Ping() error
	Close() error
	RemoteAddr() string
}

type WSConnection struct {
	conn      *websocket.Conn
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// Send must only be called from one goroutine at a time; the session write
// pump is that goroutine.
func (c *WSConnection) Send(data []byte) error {
	if c.heartbeat > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.heartbeat))
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *WSConnection) Ping() error {
	deadline := time.Now().Add(writeWait)
	return c.conn.WriteControl(websocket.PingMessage, nil, deadline)
}

// SetHeartbeat expects a pong within two intervals, otherwise ReadLoop fails.
func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(interval * 2))
	})
}

// ReadLoop discards inbound messages until the peer goes away. Actions are
// submitted over HTTP, so the read side only drives control frames and
// close detection.
func (c *WSConnection) ReadLoop() error {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return err
		}
	}
}

func (c *WSConnection) Close() error {
	return c.CloseWithReason(websocket.CloseNormalClosure, "")
}

// CloseWithReason sends a close frame carrying code and text, then closes
// the socket.
func (c *WSConnection) CloseWithReason(code int, text string) error {
	deadline := time.Now().Add(writeWait)
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
