package ws

import (
	"encoding/json"
	"sync"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// kitchenEvent is an internal struct for routing events to specific kitchens
type kitchenEvent struct {
	KitchenID int64
	Event     Event
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients by kitchen ID
	rooms map[int64]map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *kitchenEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *kitchenEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.kitchenID] == nil {
				h.rooms[client.kitchenID] = make(map[*Client]bool)
			}
			h.rooms[client.kitchenID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.kitchenID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.kitchenID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.KitchenID]

			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			// Send to all clients in this kitchen's room
			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.KitchenID], client)
					if len(h.rooms[event.KitchenID]) == 0 {
						delete(h.rooms, event.KitchenID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToKitchen sends an event to all clients subscribed to a specific kitchen
// This is the public API for handlers to broadcast events
func (h *Hub) BroadcastToKitchen(kitchenID int64, event Event) {
	h.broadcast <- &kitchenEvent{
		KitchenID: kitchenID,
		Event:     event,
	}
}
