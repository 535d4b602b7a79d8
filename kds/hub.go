// Package kds pushes order events to kitchen display screens over
// websocket connections.
package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-hub/utils"
)

// writeWait bounds how long a single screen may hold up a publish.
const writeWait = 5 * time.Second

const (
	EventOrderCreated       = "order_created"
	EventOrderUpdated       = "order_updated"
	EventOrderCancelled     = "order_cancelled"
	EventReservationCreated = "reservation_created"
	EventReservationUpdated = "reservation_updated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	conn         Conn
	restaurantID uint
	// writes to one connection must not interleave
	mu sync.Mutex
}

// Hub fans messages out to the screens of each restaurant.
type Hub struct {
	mu      sync.Mutex
	clients map[Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]*client)}
}

func (h *Hub) Register(conn Conn, restaurantID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{conn: conn, restaurantID: restaurantID}
	utils.InfoLogger.WithField("restaurant_id", restaurantID).Info("kitchen screen connected")
}

func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends the event to every screen of restaurantID. Writes happen
// outside the hub lock, each bounded by writeWait. Connections that fail
// to receive are dropped.
func (h *Hub) Publish(restaurantID uint, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.restaurantID == restaurantID {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.write(payload); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to kitchen screen: %v", event, err)
			h.Unregister(c.conn)
		}
	}
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}
