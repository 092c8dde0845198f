package changefeed

import "sync"

// Client represents a single subscribed client connection. It is a channel
// the SSE handler listens to.
type Client chan []byte

// Hub manages local subscribers per table.
type Hub struct {
	tables map[Table]map[Client]bool
	mu     sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		tables: make(map[Table]map[Client]bool),
	}
}

// Subscribe adds a client to a table's subscriber set.
func (h *Hub) Subscribe(table Table, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.tables[table]; !ok {
		h.tables[table] = make(map[Client]bool)
	}
	h.tables[table][client] = true
}

// Unsubscribe removes a client and closes its channel to signal the SSE
// handler to stop.
func (h *Hub) Unsubscribe(table Table, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.tables[table]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.tables, table)
			}
		}
	}
}

// Broadcast sends a raw event payload to every client subscribed to table.
func (h *Hub) Broadcast(table Table, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.tables[table] {
		// Non-blocking send so a slow client cannot stall the hub.
		select {
		case client <- payload:
		default:
		}
	}
}
