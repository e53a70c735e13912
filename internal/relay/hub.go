package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"kriptopulse/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Hub owns the live connection set and fans inbound chat frames out to
// every open connection, sender included: clients render their own
// message from the echo. Frames are opaque bytes; the hub never parses or
// persists them.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates a hub whose handshake accepts the given origins. A list
// containing "*" accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}

// register adds a freshly upgraded connection to the live set.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// unregister removes a connection from the live set and closes its send
// queue. Safe to call more than once.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Count reports the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast queues payload for every live connection. A client whose queue
// is full has the frame dropped rather than blocking the hub.
func (h *Hub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// HandleWS godoc
// @Summary      Chat relay endpoint
// @Description  Upgrades to WebSocket; every frame received is rebroadcast to all connected clients
// @Tags         chat
// @Router       /ws [get]
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := newClient(conn)
	h.register(client)
	log.Printf("chat client connected (%d online)", h.Count())

	client.queueWelcome()
	go client.writePump()
	h.readPump(client)
}

// readPump consumes frames from one connection and rebroadcasts them until
// the connection errors or closes, then removes it from the live set.
func (h *Hub) readPump(c *Client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		log.Printf("chat client disconnected (%d online)", h.Count())
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("chat read error: %v", err)
			}
			return
		}
		// Opaque forward: malformed payloads are not a relay error.
		h.broadcast(payload)
	}
}

func systemMessage(text string) []byte {
	payload, _ := json.Marshal(domain.ChatMessage{
		Type:      domain.MessageTypeSystem,
		Message:   text,
		Timestamp: time.Now().Unix(),
	})
	return payload
}
