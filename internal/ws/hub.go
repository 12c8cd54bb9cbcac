package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/cafesang/storefront/internal/enum"
	"github.com/cafesang/storefront/internal/store"
)

// Event is a message sent to or received from a live session.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// newEvent marshals payload into an Event. Payloads are plain structs and
// maps, so a marshal failure is a programming error and is only logged.
func newEvent(typ string, payload any) Event {
	ev := Event{Type: typ}
	if payload == nil {
		return ev
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal event", "type", typ, "error", err)
		return ev
	}
	ev.Payload = data
	return ev
}

// OrderCount is the payload of an order_count event: Added units of ItemID
// were just ordered by some visitor.
type OrderCount struct {
	ItemID string `json:"item_id"`
	Added  int    `json:"added"`
}

// Hub maintains the set of connected sessions and broadcasts events to all
// of them.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	stopped    chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		stopped:    make(chan struct{}),
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.trySend(message) {
					// Send buffer full: the peer is not reading.
					delete(h.clients, client)
					client.close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues event for every connected session. Events sent after
// the hub stopped are dropped.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	case <-h.stopped:
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// OrderPlaced tells every session that req was recorded so their order
// counters can advance.
func (h *Hub) OrderPlaced(req store.OrderRequest) {
	h.Broadcast(newEvent(enum.EventOrderCount, OrderCount{ItemID: req.ItemID, Added: req.Quantity}))
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
