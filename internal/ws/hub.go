package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is one broadcast message. Action identifies what happened
// (transaction_created, transaction_deleted, low_stock, product_created, ...)
// and Payload carries the entity involved.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
	Actor   Actor       `json:"actor"`
}

// Actor is the principal whose action triggered the event.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Hub fans broadcast messages out to every connected websocket client.
type Hub struct {
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte

	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
		clients:    make(map[*websocket.Conn]bool),
		log:        log,
	}
}

// Publish serializes an event and queues it for broadcast. Marshal failures
// are logged and dropped; realtime delivery is best effort.
func (h *Hub) Publish(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal ws event", zap.String("action", event.Action), zap.Error(err))
		return
	}
	h.Broadcast <- msg
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
