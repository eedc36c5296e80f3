// Package network is the websocket transport: JSON messages in both
// directions, one reader goroutine per connection.
package network

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Connection abstracts the transport so sessions and tests do not
// depend on gorilla directly.
type Connection interface {
	Send(msg any) error
	ReadMessage() (*ClientMessage, error)
	Close() error
	RemoteAddr() net.Addr
	SetHeartbeat(interval time.Duration)
}

// WSConnection wraps a gorilla websocket. Writes come from the
// scheduler's flush and from auth replies; the mutex keeps frames whole.
type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// Send writes one JSON message.
func (c *WSConnection) Send(msg any) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.conn.WriteJSON(msg)
}

// ReadMessage blocks for the next client message. A heartbeat interval,
// once set, bounds how long a silent connection survives.
func (c *WSConnection) ReadMessage() (*ClientMessage, error) {
	var msg ClientMessage
	if err := c.conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	if c.heartbeat > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.heartbeat * 2))
	}
	return &msg, nil
}

func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
