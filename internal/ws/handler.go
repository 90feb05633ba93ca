package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playpool/cuetouch/internal/auth"
	"github.com/playpool/cuetouch/internal/config"
	"github.com/playpool/cuetouch/internal/game"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketCORSCheck
	},
}

// Client is one WebSocket connection attached to a table.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	table   *game.Table
	tableID string
	role    auth.Role
	pointer *pointerBinding // nil for spectators or when input binding is disabled
	send    chan []byte
	closed  bool
	mu      sync.Mutex
}

// Hub tracks the connections of every table and which one owns its pointer binding.
type Hub struct {
	tables      *game.TableManager
	config      *config.Config
	rdb         *redis.Client // event fan-out; nil broadcasts locally
	rooms       map[string]map[*Client]bool
	controllers map[string]*Client
	register    chan *Client
	unregister  chan *Client
	done        chan struct{} // closed once Run returns
	stopOnce    sync.Once
	mu          sync.RWMutex
}

// NewHub creates a hub and subscribes it to settled shots. rdb may be nil.
func NewHub(tables *game.TableManager, rdb *redis.Client, cfg *config.Config) *Hub {
	h := &Hub{
		tables:      tables,
		config:      cfg,
		rdb:         rdb,
		rooms:       make(map[string]map[*Client]bool),
		controllers: make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
	}
	tables.OnSettled(h.onSettled)
	return h
}

// WSMessage is the inbound envelope.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// envelope is the outbound envelope.
type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type errorData struct {
	Message string `json:"message"`
}

// Run processes registrations until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.attach(client)
		case client := <-h.unregister:
			h.detach(client)
		}
	}
}

// join hands client to Run. It returns false once Run has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands client to Run for removal, or drops it when Run has stopped.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.closeSend()
	}
}

func (h *Hub) attach(client *Client) {
	h.mu.Lock()
	if client.role == auth.RoleController {
		if old, exists := h.controllers[client.tableID]; exists {
			log.Printf("[WS] Table %s: new controller replaces the previous one", client.tableID)
			old.releasePointer()
			old.sendError("replaced by a new controller")
			h.removeLocked(old)
			old.closeSend()
		}
		h.controllers[client.tableID] = client
	}
	if _, exists := h.rooms[client.tableID]; !exists {
		h.rooms[client.tableID] = make(map[*Client]bool)
	}
	h.rooms[client.tableID][client] = true
	size := len(h.rooms[client.tableID])
	h.mu.Unlock()

	log.Printf("[WS] %s connected to table %s (room_size=%d)", client.role, client.tableID, size)
	client.sendEnvelope("table_state", client.table.State())
}

func (h *Hub) detach(client *Client) {
	h.mu.Lock()
	_, present := h.rooms[client.tableID][client]
	h.removeLocked(client)
	h.mu.Unlock()

	if !present {
		return
	}
	if client.releasePointer() {
		log.Printf("[TOUCH] Table %s: gesture cancelled on disconnect", client.tableID)
	}
	client.closeSend()
	log.Printf("[WS] %s disconnected from table %s", client.role, client.tableID)
}

func (h *Hub) removeLocked(client *Client) {
	if room, exists := h.rooms[client.tableID]; exists {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.tableID)
		}
	}
	if h.controllers[client.tableID] == client {
		delete(h.controllers, client.tableID)
	}
}

// isController reports whether client currently owns its table's pointer binding.
func (h *Hub) isController(client *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.controllers[client.tableID] == client
}

// RoomSize returns the number of connections attached to a table.
func (h *Hub) RoomSize(tableID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tableID])
}

// BroadcastToTable sends a message to every connection at a table.
func (h *Hub) BroadcastToTable(tableID, msgType string, data interface{}) {
	payload, err := json.Marshal(envelope{Type: msgType, Data: data})
	if err != nil {
		log.Printf("[WS] Error marshaling %s: %v", msgType, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[tableID] {
		if !client.enqueue(payload) {
			log.Printf("[WS] Send buffer full for %s at table %s, dropping %s", client.role, tableID, msgType)
		}
	}
}

func (h *Hub) onSettled(t *game.Table, outcome *game.ShotOutcome) {
	h.BroadcastToTable(t.ID, "shot_settled", outcome)
	h.BroadcastToTable(t.ID, "table_state", t.State())
}

// enqueue queues a frame without blocking. It reports false when the client is gone or
// its buffer is full.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) sendEnvelope(msgType string, data interface{}) {
	payload, err := json.Marshal(envelope{Type: msgType, Data: data})
	if err != nil {
		log.Printf("[WS] Error marshaling %s: %v", msgType, err)
		return
	}
	if !c.enqueue(payload) {
		log.Printf("[WS] Dropped %s for %s at table %s", msgType, c.role, c.tableID)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendEnvelope("error", errorData{Message: message})
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Replaced or unregistered; the close frame is best effort.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error at table %s: %v", c.tableID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error at table %s: %v", c.tableID, err)
				return
			}
		}
	}
}

// readPump delivers this connection's messages in arrival order.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close at table %s: %v", c.tableID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("[WS] Malformed frame at table %s dropped", c.tableID)
			continue
		}

		c.handleMessage(msg)
	}
}
