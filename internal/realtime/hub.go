package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Envelope is the change notification pushed to dashboard clients.
// Clients are expected to re-fetch the filtered list on any event rather
// than patch local state, so the payload stays minimal.
type Envelope struct {
	Collection string    `json:"collection"`
	Event      string    `json:"event"` // INSERT | UPDATE | DELETE
	ID         uint64    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
}

const clientSendBuffer = 16

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Broadcast fans an envelope out to every connected client. A client
// whose send buffer is full is dropped; it can reconnect and re-fetch.
func (h *Hub) Broadcast(e Envelope) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[ERROR] marshal envelope: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			close(c.send)
			delete(h.clients, c)
		}
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()
}

// LoanFeed adapts the hub to the loans.Notifier interface.
type LoanFeed struct{ hub *Hub }

func NewLoanFeed(hub *Hub) *LoanFeed { return &LoanFeed{hub: hub} }

func (f *LoanFeed) LoanChanged(event string, id uint64) {
	f.hub.Broadcast(Envelope{
		Collection: "loans",
		Event:      event,
		ID:         id,
		Timestamp:  time.Now().UTC(),
	})
}

// -------------- HTTP --------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is handled by the CORS layer in dev; the API
	// itself is intranet-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

func RegisterRoutes(r gin.IRoutes, hub *Hub) {
	// GET /ws/loans
	r.GET("/ws/loans", func(c *gin.Context) { serveWS(hub, c) })
}

func serveWS(hub *Hub, c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade failed: %v", err)
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, clientSendBuffer)}
	hub.add(cl)

	go cl.writePump()
	go cl.readPump(hub)
}

func (c *client) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// readPump discards inbound frames; the feed is one-way. It exists to
// process control frames and to notice disconnects.
func (c *client) readPump(hub *Hub) {
	defer func() {
		hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
