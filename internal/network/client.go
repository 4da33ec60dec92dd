package network

import (
	"time"

	"github.com/gorilla/websocket"

	"tron/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client is one connected player from the server's point of view. Its key
// is assigned at upgrade time and serves as the player's identity for the
// lifetime of the connection; a reconnect gets a fresh key.
type Client struct {
	conn *websocket.Conn
	hub  *Hub
	key  string

	// Outbound envelopes. The hub goroutine enqueues here and the client's
	// writeLoop drains; the buffer keeps a slow client from stalling the
	// hub.
	send chan Message
}

// Key returns the client's connection key.
func (c *Client) Key() string {
	return c.key
}

// Send returns the outbound channel for this client.
func (c *Client) Send() chan<- Message {
	return c.send
}

// readLoop pumps inbound envelopes from the socket into the hub. It owns
// all reads on the connection.
func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.L.Warnw("unexpected close", "conn", c.key, "err", err)
			}
			return
		}
		c.hub.incoming <- clientMessage{client: c, msg: msg}
	}
}

// writeLoop pumps envelopes from the send channel to the socket and keeps
// the connection alive with periodic pings. It owns all writes on the
// connection.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel: the client was unregistered.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logging.L.Debugw("write failed", "conn", c.key, "err", err)
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
