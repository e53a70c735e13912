package relay

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// sendQueueSize bounds per-client outbound buffering; frames beyond it
	// are dropped for that client only.
	sendQueueSize = 256

	maxFrameSize = 4096

	writeWait    = 10 * time.Second
	pongWait     = 90 * time.Second
	pingInterval = 45 * time.Second
)

// Client is one live chat connection. All writes to the underlying
// connection happen on the writePump goroutine.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// queueWelcome sends the one-off system greeting to this connection only.
func (c *Client) queueWelcome() {
	select {
	case c.send <- systemMessage("welcome to the chat room"):
	default:
	}
}

// writePump drains the send queue onto the connection and keeps it alive
// with pings. Returns when the send queue is closed by the hub or a write
// fails.
func (c *Client) writePump() {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
